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

// Package latex parses the restricted math markup accepted by the editor
// into a flat, ordered node tree.
package latex

// Kind tags the variant a Node holds.
type Kind int

const (
	Text Kind = iota
	Command
	Group
	Bracket
	Frac
	Sqrt
	Sum
	Prod
	Int
	OperatorName
	Underset
	OverRightArrow
	Vec
	DotAccent
	DDotAccent
	Overline
	Mathbb
	Boxed
	TrigFunc
	PMatrix
	BMatrix
	Cases
	LeftDelim
	RightDelim
	LeftDot
	RightDot
	LeftPipe
	RightPipe
	Pipe
	Dot
	Space
	TextCommand

	// Sub and Sup are produced by '_' and '^' and folded into the preceding
	// sibling by attachScripts. They only survive when nothing precedes them.
	Sub
	Sup
)

var kindNames = [...]string{
	Text: "text", Command: "command", Group: "group", Bracket: "bracket",
	Frac: "frac", Sqrt: "sqrt", Sum: "sum", Prod: "prod", Int: "int",
	OperatorName: "operatorname", Underset: "underset",
	OverRightArrow: "overrightarrow", Vec: "vec", DotAccent: "dotaccent",
	DDotAccent: "ddotaccent", Overline: "overline", Mathbb: "mathbb",
	Boxed: "boxed", TrigFunc: "trigfunc", PMatrix: "pmatrix",
	BMatrix: "bmatrix", Cases: "cases", LeftDelim: "leftdelim",
	RightDelim: "rightdelim", LeftDot: "leftdot", RightDot: "rightdot",
	LeftPipe: "leftpipe", RightPipe: "rightpipe", Pipe: "pipe", Dot: "dot",
	Space: "space", TextCommand: "text_command", Sub: "sub", Sup: "sup",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// RowSeparator is the command name of a doubled backslash.
const RowSeparator = `\`

// Node is one element of a parsed formula. Which fields are meaningful
// depends on Kind:
//
//	Text, Space        Value
//	Command            Value (name without the backslash)
//	TrigFunc           Value (function name), Arg (optional braced argument)
//	OperatorName       Arg (name group)
//	Group, Bracket     Children
//	PMatrix, BMatrix,
//	Cases              Children (raw body, split into rows when printed)
//	TextCommand        Value (raw content, whitespace preserved)
//	Frac               Num, Den
//	Sqrt               Index (optional), Arg (radicand)
//	Underset           Under, Arg (base)
//	accents, Mathbb,
//	Boxed              Arg
//	Sub, Sup           Arg (script payload)
//
// Any node may carry Sub and Sup once scripts are attached.
type Node struct {
	Kind     Kind
	Value    string
	Children []Node

	Arg   *Node
	Num   *Node
	Den   *Node
	Index *Node
	Under *Node

	Sub *Node
	Sup *Node
}

// HasScripts reports whether a subscript or superscript is attached.
func (n *Node) HasScripts() bool {
	return n.Sub != nil || n.Sup != nil
}

// IsText reports whether n is a text node with exactly the given value.
func (n *Node) IsText(value string) bool {
	return n != nil && n.Kind == Text && n.Value == value
}

// IsRowSeparator reports whether n is the `\\` command.
func (n *Node) IsRowSeparator() bool {
	return n != nil && n.Kind == Command && n.Value == RowSeparator
}
