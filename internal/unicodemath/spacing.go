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

package unicodemath

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nicholasgasior/unimath-go/internal/latex"
	"github.com/nicholasgasior/unimath-go/internal/symbols"
)

// pair describes the boundary between the fragment already written and the
// one about to be written.
type pair struct {
	nodes       []latex.Node
	i           int
	prev        string
	lastContent string
	curr        string
}

func (p pair) node() *latex.Node { return &p.nodes[p.i] }

func (p pair) at(i int) *latex.Node {
	if i < 0 || i >= len(p.nodes) {
		return nil
	}
	return &p.nodes[i]
}

func (p pair) prevNode() *latex.Node { return p.at(p.i - 1) }
func (p pair) nextNode() *latex.Node { return p.at(p.i + 1) }

type spacingRule struct {
	name    string
	applies func(p pair) bool
	sep     string
}

// fractionGap separates fraction chains. It replaces the trailing space the
// previous fraction printed, so the gap is always two spaces wide.
const fractionGap = "  "

// spacingTable is evaluated top to bottom; the first rule that applies
// decides the separator. No match means no separator.
var spacingTable = []spacingRule{
	{"fraction-chain", fractionChain, fractionGap},
	{"fraction-equation-chain", fractionEquationChain, fractionGap},
	{"zero-width-break", zeroWidthBreak, " "},
	{"zero-width-suppress", recentZeroWidth, ""},
	{"equals-or-space", equalsOrSpace, ""},
	{"fraction-function", fractionFunction, " "},
	{"function", func(p pair) bool { return isFunctionFragment(p.curr) }, ""},
	{"letter-collision", letterCollision, " "},
	{"paren-paren", func(p pair) bool {
		return strings.HasSuffix(p.prev, ")") && strings.HasPrefix(p.curr, "(")
	}, " "},
	{"fraction-paren", fractionParen, " "},
	{"fraction-group", fractionGroup, " "},
}

func separator(p pair) string {
	for _, r := range spacingTable {
		if r.applies(p) {
			return r.sep
		}
	}
	return ""
}

func isFrac(n *latex.Node) bool { return n != nil && n.Kind == latex.Frac }

func fractionChain(p pair) bool {
	return isFrac(p.prevNode()) && isFrac(p.node())
}

// fractionEquationChain matches a/b + c/d = e/f style runs where an
// equals sign sits between two fractions with another fraction behind.
func fractionEquationChain(p pair) bool {
	if !isFrac(p.prevNode()) || !p.node().IsText("=") || !isFrac(p.nextNode()) {
		return false
	}
	for j := p.i - 2; j >= p.i-4 && j >= 0; j-- {
		if isFrac(p.at(j)) {
			return true
		}
	}
	return false
}

// recentZeroWidth reports a `\!` or `\,` within three nodes back, looking
// through delimiter markers and other spaces.
func recentZeroWidth(p pair) bool {
	for j := p.i - 1; j >= 0 && j >= p.i-3; j-- {
		n := p.at(j)
		if n.Kind == latex.Space && n.Value == "" {
			return true
		}
		if n.Kind != latex.LeftDelim && n.Kind != latex.RightDelim && n.Kind != latex.Space {
			return false
		}
	}
	return false
}

func zeroWidthBreak(p pair) bool {
	if !recentZeroWidth(p) {
		return false
	}
	if isDifferential(p.curr) && p.lastContent != "" {
		return true
	}
	last := p.lastContent
	if !strings.HasSuffix(last, ")") && !strings.Contains(last, "/") {
		return false
	}
	return startsWithLetter(p.curr) ||
		strings.HasPrefix(p.curr, "(") ||
		p.node().IsText("(") ||
		strings.Contains(p.curr, "/")
}

func equalsOrSpace(p pair) bool {
	return strings.HasSuffix(p.prev, " ") ||
		strings.HasSuffix(p.prev, "=") ||
		strings.HasPrefix(p.curr, "=")
}

func fractionFunction(p pair) bool {
	return isFrac(p.prevNode()) && isFunctionFragment(p.curr)
}

func letterCollision(p pair) bool {
	if !startsWithLetter(p.curr) {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(p.prev)
	return unicode.IsLetter(r) || r == ')' || endsWithDigitPower(p.prev)
}

func fractionParen(p pair) bool {
	return strings.Contains(p.prev, "/") &&
		(strings.HasPrefix(p.curr, "(") || p.node().Kind == latex.Group)
}

func fractionGroup(p pair) bool {
	if !isFrac(p.prevNode()) {
		return false
	}
	n := p.node()
	if n.Kind == latex.Group {
		return true
	}
	next := p.nextNode()
	return n.Kind == latex.LeftDelim && next != nil && next.IsText("(")
}

// isFunctionFragment reports a rendered standard function ("sin ", "log ").
func isFunctionFragment(s string) bool {
	end := 0
	for end < len(s) && isASCIILetter(s[end]) {
		end++
	}
	if end == 0 || end >= len(s) || s[end] != ' ' {
		return false
	}
	name := s[:end]
	return name == "lim" || symbols.IsStandardFunction(name)
}

// isDifferential matches a differential such as "dx" or "dt".
func isDifferential(s string) bool {
	return len(s) >= 2 && s[0] == 'd' && isASCIILetter(s[1])
}

func startsWithLetter(s string) bool {
	return s != "" && isASCIILetter(s[0])
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// endsWithDigitPower matches a fragment ending in ^<digit>, trailing
// whitespace allowed.
func endsWithDigitPower(s string) bool {
	s = strings.TrimRight(s, " \t")
	n := len(s)
	return n >= 2 && s[n-2] == '^' && s[n-1] >= '0' && s[n-1] <= '9'
}
