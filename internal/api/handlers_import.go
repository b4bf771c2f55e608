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
	"net/http"

	unimath "github.com/nicholasgasior/unimath-go"
)

type ommlRequest struct {
	XML     string `json:"xml"`
	Convert bool   `json:"convert"`
}

type clipboardRequest struct {
	HTML    string `json:"html"`
	Convert bool   `json:"convert"`
}

type importResponse struct {
	Equations []string          `json:"equations"`
	Converted []convertResponse `json:"converted,omitempty"`
}

func (s *Server) handleImportOMML(w http.ResponseWriter, r *http.Request) {
	var req ommlRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	eqs, err := unimath.FromOMML(req.XML)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, s.buildImport(eqs, req.Convert))
}

func (s *Server) handleImportClipboard(w http.ResponseWriter, r *http.Request) {
	var req clipboardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	eqs, err := unimath.FromClipboardHTML(req.HTML)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, s.buildImport(eqs, req.Convert))
}

// buildImport optionally runs imported markup back through the converter,
// which turns a Word equation into UnicodeMath.
func (s *Server) buildImport(eqs []string, convert bool) importResponse {
	resp := importResponse{Equations: eqs}
	if resp.Equations == nil {
		resp.Equations = []string{}
	}
	if convert {
		for _, eq := range eqs {
			resp.Converted = append(resp.Converted, toResponse(s.converter.Convert(eq)))
		}
	}
	return resp
}
