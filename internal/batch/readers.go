// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package batch

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/nicholasgasior/unimath-go/internal/docxmath"
	"github.com/nicholasgasior/unimath-go/internal/ooxml"
	"github.com/nicholasgasior/unimath-go/internal/textenc"
)

// columnNames are header cells that mark the formula column.
var columnNames = map[string]bool{
	"latex": true, "markup": true, "formula": true, "input": true,
}

// pickColumn finds the formula column. With a recognised header the data
// starts on the second row; otherwise the first column is used from the top.
func pickColumn(rows [][]string) (col, start int) {
	if len(rows) == 0 {
		return 0, 0
	}
	for i, cell := range rows[0] {
		if columnNames[strings.ToLower(strings.TrimSpace(cell))] {
			return i, 1
		}
	}
	return 0, 0
}

// itemsFromRows takes the formula column of rows; label names row i.
func itemsFromRows(rows [][]string, label func(row, col int) string) []Item {
	col, start := pickColumn(rows)
	var items []Item
	for i := start; i < len(rows); i++ {
		if col >= len(rows[i]) {
			continue
		}
		markup := strings.TrimSpace(rows[i][col])
		if markup == "" {
			continue
		}
		items = append(items, Item{Source: label(i, col), Markup: markup})
	}
	return items
}

// TextReader reads one formula per line. Blank lines and lines starting
// with # or % are skipped.
type TextReader struct{}

func (r *TextReader) Accepts(info StreamInfo) bool {
	switch info.Extension {
	case ".txt", ".text", ".tex", ".latex":
		return true
	}
	return strings.HasPrefix(strings.ToLower(info.MIMEType), "text/")
}

func (r *TextReader) Read(reader io.ReadSeeker, info StreamInfo) ([]Item, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	text := textenc.Decode(data, info.Charset)

	var items []Item
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "%") {
			continue
		}
		items = append(items, Item{Source: fmt.Sprintf("line %d", n), Markup: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}
	return items, nil
}

// CsvReader reads the formula column of a CSV file.
type CsvReader struct{}

func (r *CsvReader) Accepts(info StreamInfo) bool {
	if info.Extension == ".csv" {
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	return strings.HasPrefix(mime, "text/csv") || strings.HasPrefix(mime, "application/csv")
}

func (r *CsvReader) Read(reader io.ReadSeeker, info StreamInfo) ([]Item, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	cr := csv.NewReader(strings.NewReader(textenc.Decode(data, info.Charset)))
	cr.FieldsPerRecord = -1 // allow variable fields
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	return itemsFromRows(records, func(row, col int) string {
		return fmt.Sprintf("row %d", row+1)
	}), nil
}

// XlsxReader reads the formula column of every sheet in a workbook.
type XlsxReader struct{}

func (r *XlsxReader) Accepts(info StreamInfo) bool {
	if info.Extension == ".xlsx" {
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	return strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (r *XlsxReader) Read(reader io.ReadSeeker, info StreamInfo) ([]Item, error) {
	f, err := excelize.OpenReader(reader, excelize.Options{
		UnzipSizeLimit:    DefaultMaxArchiveBytes,
		UnzipXMLSizeLimit: DefaultMaxEntryBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("open XLSX: %w", err)
	}
	defer f.Close()

	var items []Item
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		items = append(items, itemsFromRows(rows, func(row, col int) string {
			cell, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return sheet
			}
			return sheet + "!" + cell
		})...)
	}
	return items, nil
}

// XlsReader reads legacy Excel workbooks.
type XlsReader struct{}

func (r *XlsReader) Accepts(info StreamInfo) bool {
	if info.Extension == ".xls" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(info.MIMEType), "application/vnd.ms-excel")
}

func (r *XlsReader) Read(reader io.ReadSeeker, info StreamInfo) ([]Item, error) {
	// extrame/xls requires a file path, so we need to write to a temp file
	tmpFile, err := os.CreateTemp("", "unimath-*.xls")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, reader); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmpFile.Close()

	wb, err := xls.Open(tmpPath, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open XLS: %w", err)
	}

	var items []Item
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}

		var rows [][]string
		for rowIdx := 0; rowIdx <= int(sheet.MaxRow); rowIdx++ {
			row := sheet.Row(rowIdx)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for colIdx := 0; colIdx < row.LastCol(); colIdx++ {
				cells = append(cells, row.Col(colIdx))
			}
			rows = append(rows, cells)
		}
		items = append(items, itemsFromRows(rows, func(row, col int) string {
			return fmt.Sprintf("%s!R%dC%d", name, row+1, col+1)
		})...)
	}
	return items, nil
}

// DocxReader imports the equations of a Word document as markup.
type DocxReader struct{}

func (r *DocxReader) Accepts(info StreamInfo) bool {
	if info.Extension == ".docx" {
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	return strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
}

func (r *DocxReader) Read(reader io.ReadSeeker, info StreamInfo) ([]Item, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	parts, err := ooxml.DocxParts(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return mathItems(parts)
}

// PptxReader imports the equations of a PowerPoint deck, slide by slide.
type PptxReader struct{}

func (r *PptxReader) Accepts(info StreamInfo) bool {
	if info.Extension == ".pptx" {
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	return strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument.presentationml")
}

func (r *PptxReader) Read(reader io.ReadSeeker, info StreamInfo) ([]Item, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	parts, err := ooxml.PptxSlides(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return mathItems(parts)
}

// mathItems converts the OMML equations of each part, labelled
// "part#n".
func mathItems(parts []ooxml.Part) ([]Item, error) {
	var items []Item
	for _, p := range parts {
		maths, err := docxmath.ParseDocument(p.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		for i, m := range maths {
			if markup := docxmath.ToMarkup(m); markup != "" {
				items = append(items, Item{Source: fmt.Sprintf("%s#%d", p.Name, i+1), Markup: markup})
			}
		}
	}
	return items, nil
}
