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
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// builtinRules lists the post-processing rules in application order.
func builtinRules() []Rule {
	return []Rule{
		{
			Name:        "word-spacing",
			Description: "Surround runs of text words with double spaces",
			Pattern:     regexp.MustCompile(` +([a-zA-Z]{2,}(?: +[a-zA-Z]{2,})*) +`),
			ReplaceFunc: func(m Match) string {
				return "  " + strings.Join(strings.Fields(m.Group(1)), "  ") + "  "
			},
		},
		{
			Name:        "collapse-symbol-spacing",
			Description: "Collapse repeated spaces between two non-letters",
			Pattern:     regexp.MustCompile(` {2,}`),
			ReplaceFunc: func(m Match) string {
				prev, _ := utf8.DecodeLastRuneInString(m.Before)
				next, _ := utf8.DecodeRuneInString(m.After)
				if m.Before == "" || m.After == "" || isASCIILetter(prev) || isASCIILetter(next) {
					return m.Group(0)
				}
				return " "
			},
		},
		{
			Name:        "strip-bracket-commas",
			Description: "Drop trailing commas inside square brackets",
			Pattern:     regexp.MustCompile(`\[([^\]]*?)(?:,\s*)+\]`),
			Replace:     "[$1]",
		},
		{
			Name:        "strip-brackets-after-nary",
			Description: "Drop square brackets right after the n-ary placeholder",
			Pattern:     regexp.MustCompile(`▒\s*\[+([^\[\]]+)\]+`),
			Replace:     "▒$1",
		},
		{
			Name:        "strip-brackets-before-differential",
			Description: "Drop square brackets in front of a differential",
			Pattern:     regexp.MustCompile(`\[+([^\[\]]+)\]+\s+(d[a-zA-Z])`),
			Replace:     "$1 $2",
		},
		{
			Name:        "strip-commas-before-differential",
			Description: "Drop commas in front of a differential",
			Pattern:     regexp.MustCompile(`,\s*(d[a-zA-Z])`),
			Replace:     " $1",
		},
		{
			Name:        "definite-integral",
			Description: "Format definite integrals as ∫_(a)^(b)▒〖f〗 dx",
			Pattern:     regexp.MustCompile(`∫_(\([^)]+\)|[^\s^]+)\^(\([^)]+\)|[^\s]+?)\s*▒?\s*:?\s*(.+?)\s+d([a-zA-Z])(\s|$)`),
			ReplaceFunc: func(m Match) string {
				integrand := cleanIntegrand(m.Group(3))
				if integrand == "" {
					return m.Group(0)
				}
				return "∫_(" + stripParens(m.Group(1)) + ")^(" + stripParens(m.Group(2)) + ")▒" +
					wrapBox(integrand) + " d" + m.Group(4) + m.Group(5)
			},
		},
		{
			Name:        "indefinite-integral",
			Description: "Format indefinite integrals as ∫▒〖f〗 dx",
			Pattern:     regexp.MustCompile(`∫(\s*▒?\s*:?\s*)([^_\s▒:].*?)\s*d\s*([a-zA-Z])`),
			ReplaceFunc: func(m Match) string {
				integrand := cleanIntegrand(m.Group(2))
				if integrand == "" {
					return m.Group(0)
				}
				return "∫▒" + wrapBox(integrand) + " d" + m.Group(3)
			},
		},
		naryRule("sum-formatting", "∑"),
		naryRule("product-formatting", "∏"),
		{
			Name:        "left-fence-spacing",
			Description: "Put exactly one space after a left fence",
			Pattern:     regexp.MustCompile(`├\s*`),
			Replace:     "├ ",
		},
		{
			Name:        "right-pipe-spacing",
			Description: "Remove spacing before a right evaluation bar",
			Pattern:     regexp.MustCompile(`\s*┤\|`),
			Replace:     "┤|",
		},
		{
			Name:        "projection-spacing",
			Description: "Space the operands of proj with tilde decorations",
			Pattern:     regexp.MustCompile(`proj_([A-Z])┬∼\s*([A-Z])┬∼`),
			Replace:     "proj_$1┬∼   $2┬∼",
		},
		{
			Name:        "nested-parentheses",
			Description: "Collapse doubled parentheses around one character",
			Pattern:     regexp.MustCompile(`\(\(([a-zA-Z0-9])\)\)`),
			Replace:     "($1)",
		},
		{
			Name:        "limit-formatting",
			Description: "Format limits as lim┬(x→a) 〖f〗",
			Pattern:     regexp.MustCompile(`lim(_\([^)]+\)|_[^\s^▒]+)?(\^\([^)]+\)|\^[^\s▒]+)?\s*▒?\s*([^=]+)`),
			ReplaceFunc: formatLimit,
		},
	}
}

// naryRule formats ∑ and ∏ with both limits parenthesized and the operand
// after the n-ary placeholder.
func naryRule(name, op string) Rule {
	return Rule{
		Name:        name,
		Description: "Format " + op + " as " + op + "_(a)^(b)▒term",
		Pattern:     regexp.MustCompile(op + `_(\([^)]+\)|[^\s^▒]+)(?:\^(\([^)]+\)|\d+|[a-zA-Z]))?\s*▒?\s*:?\s*([^∑∏]+)`),
		ReplaceFunc: func(m Match) string {
			raw := m.Group(3)
			term := strings.TrimRight(raw, " \t")
			tail := raw[len(term):]
			term = strings.TrimLeft(strings.TrimSpace(term), "▒:")
			term = strings.TrimRight(term, "▒")
			if term == "" {
				return m.Group(0)
			}
			out := op + "_" + ensureParens(m.Group(1))
			if upper := m.Group(2); upper != "" {
				out += "^" + ensureParens(upper)
			}
			return out + "▒" + term + tail
		},
	}
}

func formatLimit(m Match) string {
	prev, _ := utf8.DecodeLastRuneInString(m.Before)
	if m.Before != "" && unicode.IsLetter(prev) {
		return m.Group(0)
	}
	raw := m.Group(3)
	if strings.HasPrefix(raw, "┬") {
		return m.Group(0)
	}

	expr := strings.TrimRight(raw, " \t")
	tail := raw[len(expr):]
	if m.After == "" {
		tail = ""
	}
	expr = strings.TrimSpace(expr)
	expr = strings.Trim(expr, "▒")
	expr = strings.TrimPrefix(expr, "〖")
	expr = strings.TrimSuffix(expr, "〗")
	if expr == "" {
		return m.Group(0)
	}

	sub := strings.TrimPrefix(m.Group(1), "_")
	sub = stripParens(sub)
	if sub == "" {
		return "lim " + wrapBox(expr) + tail
	}
	return "lim┬(" + sub + ") " + wrapBox(expr) + tail
}

var bracketCommaPattern = regexp.MustCompile(`\[([^\]]+),\]`)

// cleanIntegrand removes the placeholder, box and bracket debris the
// printer can leave around an integrand.
func cleanIntegrand(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "▒")
	s = strings.TrimLeft(s, ":")
	s = strings.TrimPrefix(s, "〖")
	s = strings.TrimSuffix(s, "〗")
	s = strings.TrimLeft(s, "[")
	s = strings.TrimRight(s, "]")
	s = strings.TrimRight(strings.TrimRight(s, " \t"), ",")
	s = bracketCommaPattern.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

func stripParens(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func ensureParens(s string) string {
	return "(" + stripParens(s) + ")"
}

func wrapBox(s string) string {
	return "〖" + s + "〗"
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// DefaultRegistry returns a fresh registry loaded with the built-in rules.
func DefaultRegistry() *Registry {
	return NewRegistry(builtinRules()...)
}
