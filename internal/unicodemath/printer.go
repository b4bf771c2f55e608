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

// Package unicodemath renders a parsed formula as UnicodeMath, the linear
// format typed into Word's equation editor.
package unicodemath

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nicholasgasior/unimath-go/internal/latex"
	"github.com/nicholasgasior/unimath-go/internal/symbols"
)

// Print renders a node sequence, inserting separators between fragments
// according to spacingTable.
func Print(nodes []latex.Node) string {
	var b strings.Builder
	var prev, lastContent string
	started := false

	for i := range nodes {
		n := &nodes[i]
		if n.Kind == latex.Space && nextToEquals(nodes, i) {
			continue
		}

		// A group right after a bare trig command is its argument.
		if i > 0 && isTrigCommand(&nodes[i-1]) && n.Kind == latex.Group {
			out := symbols.FuncApply + Print(n.Children)
			b.WriteString(out)
			prev, started = out, true
			lastContent = out
			continue
		}

		out := PrintNode(n)
		if started {
			sep := separator(pair{
				nodes:       nodes,
				i:           i,
				prev:        prev,
				lastContent: lastContent,
				curr:        out,
			})
			if sep == fractionGap {
				written := strings.TrimRight(b.String(), " ")
				b.Reset()
				b.WriteString(written)
			}
			b.WriteString(sep)
		}
		b.WriteString(out)
		prev, started = out, true
		if out != "" {
			lastContent = out
		}
	}
	return b.String()
}

func nextToEquals(nodes []latex.Node, i int) bool {
	if i > 0 && nodes[i-1].IsText("=") {
		return true
	}
	return i+1 < len(nodes) && nodes[i+1].IsText("=")
}

func isTrigCommand(n *latex.Node) bool {
	return n.Kind == latex.Command && symbols.IsTrigFunction(n.Value)
}

// PrintNode renders one node. Unknown kinds and nil nodes render empty.
func PrintNode(n *latex.Node) string {
	if n == nil {
		return ""
	}

	switch n.Kind {
	case latex.Text:
		return withScripts(n.Value, n)
	case latex.Command:
		return printCommand(n)
	case latex.Group, latex.Bracket:
		return printGroup(n)
	case latex.Frac:
		return printFrac(n)
	case latex.Sqrt:
		return printSqrt(n)
	case latex.Sum:
		return printNary(symbols.Sum, n)
	case latex.Prod:
		return printNary(symbols.Prod, n)
	case latex.Int:
		return printNary(symbols.Integral, n)
	case latex.OperatorName:
		return printOperatorName(n)
	case latex.Underset:
		under := strings.TrimSpace(PrintNode(n.Under))
		base := PrintNode(n.Arg)
		if under == symbols.Sim || under == "sim" {
			base += symbols.TildeMarker
		}
		return withScripts(base, n)
	case latex.OverRightArrow:
		return withScripts("("+PrintNode(n.Arg)+")"+symbols.CombiningVector, n)
	case latex.Vec:
		return withScripts(PrintNode(n.Arg)+symbols.CombiningVector, n)
	case latex.DotAccent:
		return withScripts(PrintNode(n.Arg)+symbols.CombiningDot, n)
	case latex.DDotAccent:
		return withScripts(PrintNode(n.Arg)+symbols.CombiningDDot, n)
	case latex.Overline:
		return withScripts(PrintNode(n.Arg)+symbols.CombiningOverline, n)
	case latex.Mathbb:
		content := strings.TrimSpace(PrintNode(n.Arg))
		if set, ok := symbols.NumberSet(content); ok {
			content = set
		}
		return withScripts(content, n)
	case latex.Boxed:
		content := strings.TrimSpace(PrintNode(n.Arg))
		return withScripts(symbols.BoxMarker+symbols.LenticularOpen+content+symbols.LenticularClose, n)
	case latex.TrigFunc:
		out := n.Value
		if arg := PrintNode(n.Arg); arg != "" {
			out += symbols.LenticularOpen + arg + symbols.LenticularClose
		}
		return withScripts(out, n)
	case latex.PMatrix:
		return "(" + matrix(n.Children) + ")"
	case latex.BMatrix:
		return "[" + matrix(n.Children) + "]"
	case latex.Cases:
		return printCases(n.Children)
	case latex.LeftDelim, latex.RightDelim:
		return ""
	case latex.LeftDot:
		return symbols.LeftFence
	case latex.RightDot:
		return symbols.RightFence
	case latex.LeftPipe, latex.Pipe:
		return "|"
	case latex.RightPipe:
		return withScripts(symbols.RightFence+"|", n)
	case latex.Dot:
		return "."
	case latex.Space, latex.TextCommand:
		return n.Value
	case latex.Sub, latex.Sup:
		// Only reached for a script with nothing before it.
		return PrintNode(n.Arg)
	}
	return ""
}

func printCommand(n *latex.Node) string {
	name := n.Value
	switch name {
	case "placeholder":
		return symbols.NaryPlaceholder
	case "lim":
		return "lim" + scripts(n, false) + symbols.NaryPlaceholder
	case "left", "right", latex.RowSeparator:
		return ""
	case "{", "}":
		return name
	case ":":
		return " "
	}
	if g, ok := symbols.Greek(name); ok {
		return g + scripts(n, false)
	}
	if s, ok := symbols.Symbol(name); ok {
		return s + scripts(n, false)
	}
	if symbols.IsStandardFunction(name) {
		return name + scripts(n, false) + " "
	}
	if symbols.IsSizing(name) || symbols.IsStyle(name) {
		return ""
	}
	return withScripts(name, n)
}

func printGroup(n *latex.Node) string {
	content := Print(n.Children)
	if !n.HasScripts() {
		return content
	}
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) > 1 {
		content = "(" + content + ")"
	}
	return content + scripts(n, false) + " "
}

func printFrac(n *latex.Node) string {
	num := PrintNode(n.Num)
	den := PrintNode(n.Den)

	var out string
	if isSimple(n.Num) && isSimple(n.Den) {
		out = num + "/" + den
	} else {
		out = "(" + strings.TrimSpace(num) + ")/(" + strings.TrimSpace(den) + ")"
	}
	if n.HasScripts() {
		return "(" + strings.TrimSpace(out) + ")" + scripts(n, false) + " "
	}
	return out + " "
}

func printSqrt(n *latex.Node) string {
	rad := strings.TrimSpace(PrintNode(n.Arg))
	if n.Index != nil {
		idx := strings.TrimSpace(PrintNode(n.Index))
		return symbols.Sqrt + "(" + idx + "&" + rad + ")" + scripts(n, false)
	}
	return symbols.Sqrt + "(" + rad + ")" + scripts(n, false) + " "
}

// printNary renders ∑, ∏ and ∫. Limits are always parenthesized and the
// n-ary placeholder marks where the operand starts.
func printNary(op string, n *latex.Node) string {
	return op + scripts(n, true) + symbols.NaryPlaceholder
}

func printOperatorName(n *latex.Node) string {
	out := PrintNode(n.Arg)
	if n.Sub != nil {
		sub := strings.TrimSpace(PrintNode(n.Sub))
		if !strings.Contains(sub, symbols.TildeMarker) {
			sub = scriptArg(n.Sub, false, false)
		}
		out += "_" + sub
	}
	if n.Sup != nil {
		out += "^" + scriptArg(n.Sup, true, false)
	}
	if n.HasScripts() {
		out += " "
	}
	return out
}

// matrix renders the ■ body shared by pmatrix and bmatrix. An environment
// without rows still renders its template.
func matrix(children []latex.Node) string {
	var rows []string
	for _, row := range splitRows(children) {
		if r := strings.TrimSpace(Print(row)); r != "" {
			rows = append(rows, r)
		}
	}
	return symbols.MatrixMarker + "(" + strings.Join(rows, symbols.RowSeparator) + ")"
}

func printCases(children []latex.Node) string {
	var rows []string
	for _, row := range splitRows(children) {
		var cols []string
		start := 0
		for i := 0; i <= len(row); i++ {
			if i < len(row) && !row[i].IsText("&") {
				continue
			}
			if c := strings.TrimSpace(Print(row[start:i])); c != "" {
				cols = append(cols, c)
			}
			start = i + 1
		}
		if len(cols) > 0 {
			rows = append(rows, strings.Join(cols, "&&"))
		}
	}
	return "{" + symbols.EqArrayMark + "(" + strings.Join(rows, symbols.RowSeparator) + ")" + symbols.RightFence
}

// splitRows cuts an environment body on `\\`.
func splitRows(children []latex.Node) [][]latex.Node {
	var rows [][]latex.Node
	start := 0
	for i := range children {
		if children[i].IsRowSeparator() {
			rows = append(rows, children[start:i])
			start = i + 1
		}
	}
	return append(rows, children[start:])
}

// scripts renders the _sub^sup suffix of n. force parenthesizes both.
func scripts(n *latex.Node, force bool) string {
	var s string
	if n.Sub != nil {
		s += "_" + scriptArg(n.Sub, false, force)
	}
	if n.Sup != nil {
		s += "^" + scriptArg(n.Sup, true, force)
	}
	return s
}

// withScripts appends the script suffix and the space that ends it.
func withScripts(base string, n *latex.Node) string {
	if !n.HasScripts() {
		return base
	}
	return base + scripts(n, false) + " "
}

// scriptArg renders a script payload. A single letter or digit stays bare;
// subscripts already carrying the tilde marker are never re-wrapped.
func scriptArg(arg *latex.Node, sup, force bool) string {
	content := strings.TrimSpace(PrintNode(arg))
	if force {
		return "(" + content + ")"
	}
	if content == "" {
		return ""
	}
	if isSingleAlnum(content) {
		return content
	}
	if !sup && strings.Contains(content, symbols.TildeMarker) {
		return content
	}
	return "(" + content + ")"
}

func isSingleAlnum(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size == len(s) && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// isSimple reports whether a fraction operand can be written without
// parentheses: a short letter-bearing literal, a differential such as dy,
// a bare command, or a command followed by one letter (∂u, ∂^2 u).
// Purely numeric literals are never simple.
func isSimple(n *latex.Node) bool {
	if n == nil {
		return true
	}
	switch n.Kind {
	case latex.Group, latex.Bracket:
		return isSimpleSeq(n.Children)
	case latex.Text:
		return isShortTerm(n.Value)
	case latex.Command:
		return !n.HasScripts()
	}
	return false
}

func isSimpleSeq(nodes []latex.Node) bool {
	switch len(nodes) {
	case 0:
		return true
	case 1:
		return isSimple(&nodes[0])
	case 2:
		first, second := &nodes[0], &nodes[1]
		if first.Kind != latex.Command || second.Kind != latex.Text || second.HasScripts() {
			break
		}
		width := utf8.RuneCountInString(second.Value)
		if !first.HasScripts() && width == 1 {
			return true
		}
		if first.Sub == nil && first.Sup != nil && width <= 2 {
			return true
		}
	}
	if len(nodes) > 3 {
		return false
	}
	var joined strings.Builder
	for i := range nodes {
		n := &nodes[i]
		if n.Kind != latex.Text || n.HasScripts() || utf8.RuneCountInString(n.Value) != 1 {
			return false
		}
		joined.WriteString(n.Value)
	}
	return isShortTerm(joined.String())
}

// isShortTerm matches at most two letters or digits with at least one
// letter among them.
func isShortTerm(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > 2 {
		return s == ""
	}
	letter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
		default:
			return false
		}
	}
	return letter
}
