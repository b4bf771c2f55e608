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

package unimath

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageParse       Stage = "parse"
	StagePrint       Stage = "print"
	StagePostProcess Stage = "postprocess"
	StageImport      Stage = "import"
)

// ConversionError is returned when a stage failed and the input was handed
// back unchanged.
type ConversionError struct {
	Stage Stage
	Input string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s failed for %q: %v", e.Stage, clip(e.Input, 60), e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// RuleError records a post-processing rule that failed and was skipped.
type RuleError struct {
	Rule string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// IsFallback reports whether err means the caller got its input back.
func IsFallback(err error) bool {
	var target *ConversionError
	return errors.As(err, &target)
}

// IsRuleError reports whether the error is a RuleError.
func IsRuleError(err error) bool {
	var target *RuleError
	return errors.As(err, &target)
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
