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

package latex

import (
	"strings"
	"unicode"

	"github.com/nicholasgasior/unimath-go/internal/symbols"
)

// environments maps \begin{name} to the node kind it produces.
var environments = map[string]Kind{
	"pmatrix": PMatrix,
	"bmatrix": BMatrix,
	"cases":   Cases,
}

// singleTokenPunct are the non-alphanumeric characters accepted as a bare
// script or argument token, as in x^* or a_-.
const singleTokenPunct = "+-*/=<>!'"

type parser struct {
	src []rune
	pos int
}

// Parse reads markup into a node sequence. It never fails: unterminated
// groups and environments end at end of input, and dangling commands are
// dropped.
func Parse(input string) []Node {
	p := &parser{src: []rune(input)}
	var nodes []Node
	for !p.eof() {
		if n, ok := p.parseNode(); ok {
			nodes = append(nodes, n)
		}
	}
	return attachScripts(nodes)
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) next() rune {
	r := p.peek()
	if !p.eof() {
		p.pos++
	}
	return r
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

// atEnd reports whether the cursor sits on an \end token (and not on a
// longer command such as \endgroup).
func (p *parser) atEnd() bool {
	const tok = `\end`
	n := len(tok)
	if p.pos+n > len(p.src) || string(p.src[p.pos:p.pos+n]) != tok {
		return false
	}
	return p.pos+n == len(p.src) || !isLetter(p.src[p.pos+n])
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isTextStop(r rune) bool {
	switch r {
	case '\\', '{', '}', '[', ']', '_', '^', '|', '&':
		return true
	}
	return unicode.IsSpace(r)
}

// attachScripts folds each Sub/Sup node into the sibling before it. The
// first script of each kind wins; a repeated one stays in the sequence.
// Nodes are copied, so slices handed out earlier are never changed.
func attachScripts(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if (n.Kind == Sub || n.Kind == Sup) && len(out) > 0 {
			prev := out[len(out)-1]
			if prev.Kind != Sub && prev.Kind != Sup {
				switch {
				case n.Kind == Sub && prev.Sub == nil:
					prev.Sub = n.Arg
					out[len(out)-1] = prev
					continue
				case n.Kind == Sup && prev.Sup == nil:
					prev.Sup = n.Arg
					out[len(out)-1] = prev
					continue
				}
			}
		}
		out = append(out, n)
	}
	return out
}

// parseNode reads one node. ok is false when the input produced nothing
// worth keeping (whitespace, a stray '}', a dropped command).
func (p *parser) parseNode() (Node, bool) {
	p.skipSpace()
	if p.eof() {
		return Node{}, false
	}

	switch ch := p.peek(); ch {
	case '\\':
		return p.parseCommand()
	case '_', '^':
		p.next()
		arg := p.parseArgument()
		if arg == nil {
			return Node{}, false
		}
		kind := Sub
		if ch == '^' {
			kind = Sup
		}
		return Node{Kind: kind, Arg: arg}, true
	case '{':
		return *p.parseGroup(), true
	case '}':
		p.next()
		return Node{}, false
	case '[', ']', '&':
		p.next()
		return Node{Kind: Text, Value: string(ch)}, true
	case '|':
		p.next()
		return Node{Kind: Pipe}, true
	case '.':
		p.next()
		return Node{Kind: Dot}, true
	}

	start := p.pos
	for !p.eof() && !isTextStop(p.peek()) {
		p.pos++
	}
	return Node{Kind: Text, Value: string(p.src[start:p.pos])}, true
}

// parseGroup reads a brace group, or returns nil when the cursor is not on '{'.
func (p *parser) parseGroup() *Node {
	if p.peek() != '{' {
		return nil
	}
	p.next()
	return &Node{Kind: Group, Children: p.parseUntil('}')}
}

// parseBracket reads a square-bracket optional argument.
func (p *parser) parseBracket() *Node {
	if p.peek() != '[' {
		return nil
	}
	p.next()
	return &Node{Kind: Bracket, Children: p.parseUntil(']')}
}

// parseUntil reads nodes up to and including the closing rune. A missing
// closer is treated as end of input.
func (p *parser) parseUntil(closer rune) []Node {
	var nodes []Node
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		if p.peek() == closer {
			p.next()
			break
		}
		if n, ok := p.parseNode(); ok {
			nodes = append(nodes, n)
		}
	}
	return attachScripts(nodes)
}

// parseArgument reads a brace group or, failing that, a single token: one
// escaped command or one character.
func (p *parser) parseArgument() *Node {
	p.skipSpace()
	if p.peek() == '{' {
		return p.parseGroup()
	}
	if p.eof() {
		return nil
	}
	r := p.peek()
	if r == '\\' {
		p.next()
		name, ok := p.readCommandName()
		if !ok {
			return nil
		}
		return &Node{Kind: Command, Value: name}
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(singleTokenPunct, r) {
		p.next()
		return &Node{Kind: Text, Value: string(r)}
	}
	if !isTextStop(r) && r != '.' {
		p.next()
		return &Node{Kind: Text, Value: string(r)}
	}
	return nil
}

// readCommandName reads the name after a backslash: the longest run of
// ASCII letters, or exactly one other character. A doubled backslash reads
// as RowSeparator.
func (p *parser) readCommandName() (string, bool) {
	if p.eof() {
		return "", false
	}
	if !isLetter(p.peek()) {
		return string(p.next()), true
	}
	start := p.pos
	for !p.eof() && isLetter(p.peek()) {
		p.pos++
	}
	return string(p.src[start:p.pos]), true
}

func (p *parser) parseCommand() (Node, bool) {
	p.next() // backslash
	name, ok := p.readCommandName()
	if !ok {
		return Node{}, false
	}

	switch name {
	case "frac":
		num := p.parseArgument()
		den := p.parseArgument()
		return Node{Kind: Frac, Num: num, Den: den}, true
	case "sqrt":
		p.skipSpace()
		index := p.parseBracket()
		return Node{Kind: Sqrt, Index: index, Arg: p.parseArgument()}, true
	case "sum":
		return Node{Kind: Sum}, true
	case "prod":
		return Node{Kind: Prod}, true
	case "int":
		return Node{Kind: Int}, true
	case "!", ",":
		return Node{Kind: Space, Value: ""}, true
	case ":", ";", "quad", "qquad":
		return Node{Kind: Space, Value: " "}, true
	case "left":
		return p.parseFence(LeftDelim, LeftDot, LeftPipe), true
	case "right":
		return p.parseFence(RightDelim, RightDot, RightPipe), true
	case "operatorname":
		p.skipSpace()
		return Node{Kind: OperatorName, Arg: p.parseGroup()}, true
	case "underset":
		under := p.parseArgument()
		base := p.parseArgument()
		return Node{Kind: Underset, Under: under, Arg: base}, true
	case "overrightarrow":
		return Node{Kind: OverRightArrow, Arg: p.parseArgument()}, true
	case "vec":
		return Node{Kind: Vec, Arg: p.parseArgument()}, true
	case "dot":
		return Node{Kind: DotAccent, Arg: p.parseArgument()}, true
	case "ddot":
		return Node{Kind: DDotAccent, Arg: p.parseArgument()}, true
	case "overline":
		return Node{Kind: Overline, Arg: p.parseArgument()}, true
	case "mathbb":
		return Node{Kind: Mathbb, Arg: p.parseArgument()}, true
	case "boxed":
		return Node{Kind: Boxed, Arg: p.parseArgument()}, true
	case "text":
		p.skipSpace()
		return Node{Kind: TextCommand, Value: p.readRawGroup()}, true
	case "placeholder":
		p.skipSpace()
		p.parseGroup()
		return Node{Kind: Command, Value: name}, true
	case "begin":
		return p.parseEnvironment()
	case "end":
		p.skipSpace()
		p.readRawGroup()
		return Node{}, false
	}

	if symbols.IsFont(name) {
		p.skipSpace()
		if g := p.parseGroup(); g != nil {
			return *g, true
		}
		return Node{}, false
	}

	if symbols.IsTrigFunction(name) {
		p.skipSpace()
		if p.peek() == '{' {
			return Node{Kind: TrigFunc, Value: name, Arg: p.parseGroup()}, true
		}
	}

	return Node{Kind: Command, Value: name}, true
}

// parseFence reads the delimiter after \left or \right. Only '.' and '|'
// are consumed; any other delimiter stays in the stream as ordinary input.
func (p *parser) parseFence(generic, dot, pipe Kind) Node {
	p.skipSpace()
	switch p.peek() {
	case '.':
		p.next()
		return Node{Kind: dot}
	case '|':
		p.next()
		return Node{Kind: pipe}
	}
	return Node{Kind: generic}
}

// readRawGroup returns the verbatim content of a brace group, keeping
// inner whitespace and nested braces.
func (p *parser) readRawGroup() string {
	if p.peek() != '{' {
		return ""
	}
	p.next()
	start := p.pos
	depth := 1
	for !p.eof() {
		switch p.src[p.pos] {
		case '\\':
			p.pos++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				raw := string(p.src[start:p.pos])
				p.pos++
				return raw
			}
		}
		p.pos++
	}
	if p.pos > len(p.src) {
		p.pos = len(p.src)
	}
	return string(p.src[start:p.pos])
}

// parseEnvironment reads \begin{name} ... \end{name}. Unknown environments
// produce nothing so their bodies parse as ordinary input. A missing \end
// closes the environment at end of input.
func (p *parser) parseEnvironment() (Node, bool) {
	p.skipSpace()
	name := strings.TrimSpace(p.readRawGroup())
	kind, ok := environments[name]
	if !ok {
		return Node{}, false
	}

	var body []Node
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		if p.atEnd() {
			p.pos += len(`\end`)
			p.skipSpace()
			p.readRawGroup()
			break
		}
		if n, ok := p.parseNode(); ok {
			body = append(body, n)
		}
	}
	return Node{Kind: kind, Children: attachScripts(body)}, true
}
