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

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	unimath "github.com/nicholasgasior/unimath-go"
	"github.com/nicholasgasior/unimath-go/internal/batch"
)

type convertRequest struct {
	Latex string `json:"latex"`
}

type convertResponse struct {
	Input    string   `json:"input"`
	Output   string   `json:"output"`
	Fallback bool     `json:"fallback"`
	Error    string   `json:"error,omitempty"`
	Skipped  []string `json:"skipped_rules,omitempty"`
}

type batchRequest struct {
	Items []string `json:"items"`
}

type batchResponse struct {
	Results []convertResponse `json:"results"`
}

type textRequest struct {
	Text string `json:"text"`
}

type textResponse struct {
	Text string `json:"text"`
}

type ruleResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Pattern     string `json:"pattern"`
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, toResponse(s.converter.Convert(req.Latex)))
}

func (s *Server) handleConvertBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) > s.cfg.MaxBatchItems {
		jsonError(w, fmt.Sprintf("batch exceeds %d items", s.cfg.MaxBatchItems), http.StatusRequestEntityTooLarge)
		return
	}

	resp := batchResponse{Results: make([]convertResponse, 0, len(req.Items))}
	for _, item := range req.Items {
		resp.Results = append(resp.Results, toResponse(s.converter.Convert(item)))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleConvertFile converts every formula in an uploaded text, CSV,
// spreadsheet or Word file. With ?format=xlsx the results come back as a
// workbook instead of JSON.
func (s *Server) handleConvertFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	items, err := s.loader.LoadReader(bytes.NewReader(data), filepath.Base(header.Filename))
	if err != nil {
		switch {
		case batch.IsUnsupportedFormat(err):
			jsonError(w, err.Error(), http.StatusUnsupportedMediaType)
		case batch.IsLimit(err):
			jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		default:
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		}
		return
	}

	rows := batch.Run(s.converter, items)
	s.log.Info("converted file", "filename", header.Filename, "formulas", len(rows))

	if strings.EqualFold(r.URL.Query().Get("format"), "xlsx") {
		var buf bytes.Buffer
		if err := batch.WriteXLSX(&buf, rows); err != nil {
			jsonError(w, "failed to write workbook", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="results.xlsx"`)
		w.Write(buf.Bytes())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// handleText serves a string-to-string utility.
func (s *Server) handleText(fn func(string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		writeJSON(w, http.StatusOK, textResponse{Text: fn(req.Text)})
	}
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	rules := s.converter.Registry().Rules()
	out := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, ruleResponse{
			Name:        rule.Name,
			Description: rule.Description,
			Pattern:     rule.Pattern.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": out})
}

func toResponse(res *unimath.Result) convertResponse {
	out := convertResponse{Input: res.Input, Output: res.Output, Fallback: res.Fallback}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	for _, skipped := range res.Skipped {
		out.Skipped = append(out.Skipped, skipped.Rule)
	}
	return out
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isTooLarge(err) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
