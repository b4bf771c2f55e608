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
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	unimath "github.com/nicholasgasior/unimath-go"
	"github.com/nicholasgasior/unimath-go/internal/batch"
	"github.com/nicholasgasior/unimath-go/internal/config"
)

// Server is the HTTP API for markup conversion.
type Server struct {
	router    chi.Router
	converter *unimath.Converter
	loader    *batch.Loader
	log       *slog.Logger
	cfg       config.ServerConfig
}

// NewServer creates and configures the HTTP server. The converter is shared
// by all requests.
func NewServer(conv *unimath.Converter, log *slog.Logger, cfg config.ServerConfig) *Server {
	s := &Server{
		converter: conv,
		loader:    batch.NewLoader(batch.WithLimits(batch.Limits{MaxItems: cfg.MaxBatchItems})),
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(s.cfg.MaxBodyBytes))

		r.Post("/convert", s.handleConvert)
		r.Post("/convert/batch", s.handleConvertBatch)
		r.Post("/convert/file", s.handleConvertFile)

		r.Post("/normalize/latex", s.handleText(unimath.NormalizeLatexStr))
		r.Post("/normalize/word", s.handleText(unimath.NormalizeWordInput))
		r.Post("/strip-spaces", s.handleText(unimath.RemoveWordSpaces))

		r.Post("/import/omml", s.handleImportOMML)
		r.Post("/import/clipboard", s.handleImportClipboard)

		r.Get("/rules", s.handleRules)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
