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
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ZipReader reads every supported file inside a ZIP archive. Entries no
// reader can handle are skipped.
type ZipReader struct {
	loader *Loader
}

func (r *ZipReader) Accepts(info StreamInfo) bool {
	if info.Extension == ".zip" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(info.MIMEType), "application/zip")
}

func (r *ZipReader) Read(reader io.ReadSeeker, info StreamInfo) ([]Item, error) {
	lim := r.loader.limits
	if info.Depth > lim.MaxDepth {
		return nil, &LimitError{Limit: "archive nesting", Max: int64(lim.MaxDepth), Source: info.Filename}
	}
	if info.budget == nil {
		info.budget = &budget{}
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read ZIP: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open ZIP: %w", err)
	}

	var items []Item
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		fileData, err := readEntry(f, lim, info.budget)
		if IsLimit(err) {
			return nil, err
		}
		if err != nil {
			continue
		}

		inner, err := r.loader.loadStream(bytes.NewReader(fileData), StreamInfo{
			Filename: filepath.Base(f.Name),
			Depth:    info.Depth + 1,
			budget:   info.budget,
		})
		if IsLimit(err) {
			return nil, err
		}
		if err != nil {
			// Skip files that can't be read
			continue
		}
		for _, it := range inner {
			it.Source = f.Name + ":" + it.Source
			items = append(items, it)
		}
		if err := r.loader.checkItems(len(items), info.Filename); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// readEntry decompresses f, charging its size to b. The header size is
// checked first but not trusted.
func readEntry(f *zip.File, lim Limits, b *budget) ([]byte, error) {
	capBytes := lim.MaxEntryBytes
	limit := "entry size"
	if rest := lim.MaxArchiveBytes - b.bytes; rest < capBytes {
		capBytes = rest
		limit = "archive size"
	}
	if capBytes < 0 {
		capBytes = 0
	}
	if f.UncompressedSize64 > uint64(capBytes) {
		return nil, &LimitError{Limit: limit, Max: capBytes, Source: f.Name}
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, capBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > capBytes {
		return nil, &LimitError{Limit: limit, Max: capBytes, Source: f.Name}
	}
	b.bytes += int64(len(data))
	return data, nil
}
