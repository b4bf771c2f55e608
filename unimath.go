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

// Package unimath converts LaTeX-style math markup into UnicodeMath, the
// linear format Word's equation editor accepts.
//
// A conversion parses the markup into a node tree, prints the tree as
// UnicodeMath and then runs an ordered Registry of rewrite rules over the
// printed text.
package unimath

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nicholasgasior/unimath-go/internal/latex"
	"github.com/nicholasgasior/unimath-go/internal/unicodemath"
)

// Result is the outcome of one conversion.
type Result struct {
	Input  string
	Output string
	// Fallback is set when a stage failed and Output is the input verbatim.
	Fallback bool
	Err      error
	// Skipped lists post-processing rules that failed and were skipped.
	Skipped []*RuleError
}

// Converter runs the markup to UnicodeMath pipeline.
type Converter struct {
	registry     *Registry
	logger       *slog.Logger
	maxPasses    int
	inputHygiene bool
}

// New creates a Converter with the given options.
func New(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = DefaultRegistry()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Registry returns the rules this converter applies.
func (c *Converter) Registry() *Registry {
	return c.registry
}

// Convert converts markup. It never panics: a failing stage is reported
// through Result.Err and Result.Fallback, with the input as Output.
func (c *Converter) Convert(markup string) (res *Result) {
	res = &Result{Input: markup}
	if strings.TrimSpace(markup) == "" {
		return res
	}

	stage := StageParse
	defer func() {
		if p := recover(); p != nil {
			res.Output = markup
			res.Fallback = true
			res.Err = &ConversionError{Stage: stage, Input: markup, Err: fmt.Errorf("panic: %v", p)}
			c.logger.Error("conversion failed, returning input", "stage", string(stage), "error", res.Err)
		}
	}()

	src := cleanMarkup(markup)
	if c.inputHygiene {
		src = NormalizeLatexStr(RemoveWordSpaces(src))
	}
	nodes := latex.Parse(src)

	stage = StagePrint
	raw := unicodemath.Print(nodes)
	c.logger.Debug("printed markup", "input", markup, "raw", raw)

	stage = StagePostProcess
	out, skipped := c.registry.run(raw, c.maxPasses, c.logger)
	c.logger.Debug("post-processed markup", "output", out, "skipped", len(skipped))

	res.Output = out
	res.Skipped = skipped
	return res
}

// ToWordEquation converts markup and returns only the text.
func (c *Converter) ToWordEquation(markup string) string {
	return c.Convert(markup).Output
}

var defaultConverter = sync.OnceValue(func() *Converter { return New() })

// ToWordEquation converts markup with the built-in rules. On failure the
// input is returned unchanged.
func ToWordEquation(markup string) string {
	return defaultConverter().ToWordEquation(markup)
}
