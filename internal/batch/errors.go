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
	"errors"
	"fmt"
	"strings"
)

// UnsupportedFormatError is returned when no reader can handle the input format.
type UnsupportedFormatError struct {
	Extension string
	MIMEType  string
}

func (e *UnsupportedFormatError) Error() string {
	parts := []string{"unsupported format"}
	if e.Extension != "" {
		parts = append(parts, fmt.Sprintf("extension=%q", e.Extension))
	}
	if e.MIMEType != "" {
		parts = append(parts, fmt.Sprintf("mime=%q", e.MIMEType))
	}
	return strings.Join(parts, " ")
}

// FailedReadAttempt records a reader that accepted the input but failed.
type FailedReadAttempt struct {
	Reader string
	Err    error
}

// ReadError is returned when every reader that accepted the input failed.
type ReadError struct {
	Attempts []FailedReadAttempt
}

func (e *ReadError) Error() string {
	if len(e.Attempts) == 0 {
		return "read failed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "read failed after %d attempt(s):", len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s: %v", a.Reader, a.Err)
	}
	return b.String()
}

func (e *ReadError) Unwrap() error {
	if len(e.Attempts) > 0 {
		return e.Attempts[len(e.Attempts)-1].Err
	}
	return nil
}

// LimitError is returned when an input expands past a Loader limit.
type LimitError struct {
	Limit  string
	Max    int64
	Source string
}

func (e *LimitError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("input exceeds %s limit of %d", e.Limit, e.Max)
	}
	return fmt.Sprintf("%s exceeds %s limit of %d", e.Source, e.Limit, e.Max)
}

// IsLimit reports whether the error is a LimitError.
func IsLimit(err error) bool {
	var target *LimitError
	return errors.As(err, &target)
}

// IsUnsupportedFormat reports whether the error is an UnsupportedFormatError.
func IsUnsupportedFormat(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}
