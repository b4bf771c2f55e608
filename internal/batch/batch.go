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

// Package batch reads lists of formulas from text, CSV, spreadsheet, Office
// and notebook files, converts them, and writes the results to a workbook.
package batch

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	unimath "github.com/nicholasgasior/unimath-go"
)

const (
	// PrioritySpecific is for format-specific readers (XLSX, DOCX, etc.).
	PrioritySpecific = 0.0
	// PriorityGeneric is for fallback readers (plain text).
	PriorityGeneric = 10.0
)

const (
	// DefaultMaxEntryBytes caps the decompressed size of one archive entry.
	DefaultMaxEntryBytes = 8 << 20
	// DefaultMaxArchiveBytes caps the decompressed size of all entries read
	// from one top-level archive, nested archives included.
	DefaultMaxArchiveBytes = 32 << 20
	// DefaultMaxDepth is how many archives may enclose an archive.
	DefaultMaxDepth = 2
)

// Limits bounds what one Load may expand to. Zero fields take the defaults,
// except MaxItems where zero means no cap.
type Limits struct {
	MaxEntryBytes   int64
	MaxArchiveBytes int64
	MaxDepth        int
	MaxItems        int
}

func (lim Limits) withDefaults() Limits {
	if lim.MaxEntryBytes <= 0 {
		lim.MaxEntryBytes = DefaultMaxEntryBytes
	}
	if lim.MaxArchiveBytes <= 0 {
		lim.MaxArchiveBytes = DefaultMaxArchiveBytes
	}
	if lim.MaxDepth <= 0 {
		lim.MaxDepth = DefaultMaxDepth
	}
	return lim
}

// StreamInfo describes an input stream.
type StreamInfo struct {
	MIMEType  string
	Extension string
	Charset   string
	Filename  string

	// Depth counts the archives enclosing the stream.
	Depth int

	budget *budget
}

// budget tracks the bytes decompressed so far by one top-level Load.
type budget struct {
	bytes int64
}

// Item is one formula and where it came from, e.g. "line 3" or "Sheet1!A2".
type Item struct {
	Source string
	Markup string
}

// Reader extracts formulas from one kind of file.
type Reader interface {
	// Accepts returns true if this reader can handle the given input.
	// It MUST NOT change the read position of reader.
	Accepts(info StreamInfo) bool

	Read(r io.ReadSeeker, info StreamInfo) ([]Item, error)
}

type registeredReader struct {
	reader   Reader
	priority float64
	name     string
}

// Loader picks a Reader for a file and runs it.
type Loader struct {
	readers []registeredReader
	limits  Limits
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLimits sets the expansion limits of the Loader.
func WithLimits(lim Limits) LoaderOption {
	return func(l *Loader) {
		l.limits = lim
	}
}

// NewLoader returns a Loader with the built-in readers registered.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	l.limits = l.limits.withDefaults()
	l.Register("docx", &DocxReader{}, PrioritySpecific)
	l.Register("pptx", &PptxReader{}, PrioritySpecific)
	l.Register("xlsx", &XlsxReader{}, PrioritySpecific)
	l.Register("xls", &XlsReader{}, PrioritySpecific)
	l.Register("csv", &CsvReader{}, PrioritySpecific)
	l.Register("ipynb", &IpynbReader{}, PrioritySpecific)
	l.Register("zip", &ZipReader{loader: l}, PrioritySpecific)
	l.Register("text", &TextReader{}, PriorityGeneric)
	return l
}

// Register adds a reader with the given priority. Lower priority values are
// tried first.
func (l *Loader) Register(name string, r Reader, priority float64) {
	l.readers = append(l.readers, registeredReader{reader: r, priority: priority, name: name})
	sort.SliceStable(l.readers, func(i, j int) bool {
		return l.readers[i].priority < l.readers[j].priority
	})
}

// LoadFile reads the formulas in the file at path.
func (l *Loader) LoadFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return l.LoadReader(f, filepath.Base(path))
}

// LoadReader reads formulas from r. The format comes from the extension of
// filename, with content sniffing as a fallback.
func (l *Loader) LoadReader(r io.ReadSeeker, filename string) ([]Item, error) {
	return l.loadStream(r, StreamInfo{Filename: filename})
}

// loadStream fills in the format fields of info from its filename and the
// content of r, then loads r.
func (l *Loader) loadStream(r io.ReadSeeker, info StreamInfo) ([]Item, error) {
	info.Extension = strings.ToLower(filepath.Ext(info.Filename))
	info.MIMEType, info.Charset = detectMIMEType(r)
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	return l.Load(r, info)
}

// Load reads formulas from r with the first reader that accepts info and
// succeeds. A LimitError stops the search.
func (l *Loader) Load(r io.ReadSeeker, info StreamInfo) ([]Item, error) {
	if info.budget == nil {
		info.budget = &budget{}
	}
	var failed []FailedReadAttempt
	for _, rr := range l.readers {
		if !rr.reader.Accepts(info) {
			continue
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
		items, err := rr.reader.Read(r, info)
		if IsLimit(err) {
			return nil, err
		}
		if err != nil {
			failed = append(failed, FailedReadAttempt{Reader: rr.name, Err: err})
			continue
		}
		if err := l.checkItems(len(items), info.Filename); err != nil {
			return nil, err
		}
		return items, nil
	}
	if len(failed) > 0 {
		return nil, &ReadError{Attempts: failed}
	}
	return nil, &UnsupportedFormatError{Extension: info.Extension, MIMEType: info.MIMEType}
}

func (l *Loader) checkItems(n int, source string) error {
	if l.limits.MaxItems > 0 && n > l.limits.MaxItems {
		return &LimitError{Limit: "formula count", Max: int64(l.limits.MaxItems), Source: source}
	}
	return nil
}

// detectMIMEType sniffs the content type and any charset parameter it
// carries.
func detectMIMEType(r io.Reader) (string, string) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil || mtype.Is("application/octet-stream") {
		return "", ""
	}
	media, params, err := mime.ParseMediaType(mtype.String())
	if err != nil {
		return mtype.String(), ""
	}
	return media, params["charset"]
}

// Row is the outcome of converting one Item.
type Row struct {
	Source   string `json:"source"`
	Input    string `json:"input"`
	Output   string `json:"output"`
	Fallback bool   `json:"fallback"`
	Err      string `json:"error,omitempty"`
}

// Run converts every item with c. Failed conversions still produce a row.
func Run(c *unimath.Converter, items []Item) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		res := c.Convert(it.Markup)
		row := Row{Source: it.Source, Input: it.Markup, Output: res.Output, Fallback: res.Fallback}
		if res.Err != nil {
			row.Err = res.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}
