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
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// IpynbReader takes the math of a Jupyter notebook's markdown cells:
// $$...$$, \[...\], \(...\) and inline $...$.
type IpynbReader struct{}

func (r *IpynbReader) Accepts(info StreamInfo) bool {
	return info.Extension == ".ipynb"
}

// notebook represents the JSON structure of a Jupyter notebook.
type notebook struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

var reNotebookMath = regexp.MustCompile(`(?s)\$\$(.+?)\$\$|\\\[(.+?)\\\]|\\\((.+?)\\\)|\$([^$\n]+?)\$`)

func (r *IpynbReader) Read(reader io.ReadSeeker, info StreamInfo) ([]Item, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var nb notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("parse notebook JSON: %w", err)
	}

	var items []Item
	for i, cell := range nb.Cells {
		if cell.CellType != "markdown" {
			continue
		}
		n := 0
		for _, m := range reNotebookMath.FindAllStringSubmatch(parseSource(cell.Source), -1) {
			markup := strings.TrimSpace(m[1] + m[2] + m[3] + m[4])
			if markup == "" {
				continue
			}
			n++
			items = append(items, Item{Source: fmt.Sprintf("cell %d#%d", i+1, n), Markup: markup})
		}
	}
	return items, nil
}

// parseSource extracts the source string from a cell.
// Source can be a string or an array of strings.
func parseSource(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return strings.Join(arr, "")
	}
	return ""
}
