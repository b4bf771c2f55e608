package latex

import (
	"strings"
	"testing"
)

// shape renders a node sequence compactly for comparisons.
func shape(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for i := range nodes {
		parts = append(parts, shapeNode(&nodes[i]))
	}
	return strings.Join(parts, " ")
}

func shapeNode(n *Node) string {
	if n == nil {
		return "nil"
	}
	var b strings.Builder
	b.WriteString(n.Kind.String())
	if n.Value != "" {
		b.WriteString(":" + n.Value)
	}
	for _, child := range []struct {
		label string
		node  *Node
	}{{"num", n.Num}, {"den", n.Den}, {"index", n.Index}, {"under", n.Under}, {"arg", n.Arg}} {
		if child.node != nil {
			b.WriteString("{" + child.label + "=" + shapeNode(child.node) + "}")
		}
	}
	if len(n.Children) > 0 {
		b.WriteString("[" + shape(n.Children) + "]")
	}
	if n.Sub != nil {
		b.WriteString("_(" + shapeNode(n.Sub) + ")")
	}
	if n.Sup != nil {
		b.WriteString("^(" + shapeNode(n.Sup) + ")")
	}
	return b.String()
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"text run", "x+1", "text:x+1"},
		{"whitespace splits runs", "a  b", "text:a text:b"},
		{"decimal stays one literal", "3.14", "text:3.14"},
		{"leading dot", ". x", "dot text:x"},
		{"frac", `\frac{a}{b}`, "frac{num=group[text:a]}{den=group[text:b]}"},
		{"frac single tokens", `\frac12`, "frac{num=text:1}{den=text:2}"},
		{"sqrt", `\sqrt{x}`, "sqrt{arg=group[text:x]}"},
		{"sqrt index", `\sqrt[a]{b}`, "sqrt{index=bracket[text:a]}{arg=group[text:b]}"},
		{"sum scripts", `\sum_{n=1}^{3} n`, "sum_(group[text:n=1])^(group[text:3]) text:n"},
		{"single token scripts", "x_1^2", "text:x_(text:1)^(text:2)"},
		{"command script", `x^\prime`, "text:x^(command:prime)"},
		{"second subscript becomes sibling", "x_1_2", "text:x_(text:1) sub{arg=text:2}"},
		{"leading script kept", "^2 x", "sup{arg=text:2} text:x"},
		{"dangling script dropped", "x^", "text:x"},
		{"escape", `\{x\}`, "command:{ text:x command:}"},
		{"row separator", `a\\b`, `text:a command:\ text:b`},
		{"greek", `\alpha`, "command:alpha"},
		{"negative thin space", `a\!b`, "text:a space text:b"},
		{"quad", `a\quad b`, "text:a space:  text:b"},
		{"left dot right pipe", `\left. f \right|_a^b`, "leftdot text:f rightpipe_(text:a)^(text:b)"},
		{"left paren stays", `\left( x \right)`, "leftdelim text:( text:x rightdelim text:)"},
		{"left pipe", `\left| x \right.`, "leftpipe text:x rightdot"},
		{"operatorname", `\operatorname{proj}_A`, "operatorname{arg=group[text:proj]}_(text:A)"},
		{"underset", `\underset{\sim}{A}`, "underset{under=group[command:sim]}{arg=group[text:A]}"},
		{"accents", `\vec{v}\dot{x}\ddot{y}\overline{z}`,
			"vec{arg=group[text:v]} dotaccent{arg=group[text:x]} ddotaccent{arg=group[text:y]} overline{arg=group[text:z]}"},
		{"mathbb", `\mathbb{R}`, "mathbb{arg=group[text:R]}"},
		{"boxed", `\boxed{x}`, "boxed{arg=group[text:x]}"},
		{"font styling dropped", `\mathbf{v}`, "group[text:v]"},
		{"text keeps spaces", `\text{if  x > 0}`, "text_command:if  x > 0"},
		{"trig with brace", `\sin{x}`, "trigfunc:sin{arg=group[text:x]}"},
		{"trig without brace", `\sin x`, "command:sin text:x"},
		{"trig with script", `\sin^2{x}`, "command:sin^(text:2) group[text:x]"},
		{"pmatrix", `\begin{pmatrix}a\\ b\end{pmatrix}`, `pmatrix[text:a command:\ text:b]`},
		{"bmatrix", `\begin{bmatrix}1&2\end{bmatrix}`, "bmatrix[text:1 text:& text:2]"},
		{"cases", `\begin{cases}x & y\end{cases}`, "cases[text:x text:& text:y]"},
		{"unterminated environment", `\begin{pmatrix}a`, "pmatrix[text:a]"},
		{"unknown environment", `\begin{align}a\end{align}`, "text:a"},
		{"placeholder", `\placeholder{}`, "command:placeholder"},
		{"unterminated group", `\frac{a`, "frac{num=group[text:a]}"},
		{"stray close", "a}b", "text:a text:b"},
		{"dangling backslash", `a\`, "text:a"},
		{"brackets outside sqrt", "[a]", "text:[ text:a text:]"},
		{"sum", `\prod\int`, "prod int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shape(Parse(tt.input))
			if got != tt.want {
				t.Errorf("Parse(%q)\n got  %s\n want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNoEmptyText(t *testing.T) {
	inputs := []string{"", "   ", "}}}", `{}{} {  }`, `a } b`, `\frac{}{}`}
	var check func(t *testing.T, nodes []Node)
	check = func(t *testing.T, nodes []Node) {
		for i := range nodes {
			n := &nodes[i]
			if n.Kind == Text && n.Value == "" {
				t.Errorf("empty text node in %s", shape(nodes))
			}
			check(t, n.Children)
		}
	}
	for _, in := range inputs {
		check(t, Parse(in))
	}
}

func TestAttachScriptsDoesNotMutateInput(t *testing.T) {
	in := []Node{
		{Kind: Text, Value: "x"},
		{Kind: Sub, Arg: &Node{Kind: Text, Value: "1"}},
	}
	out := attachScripts(in)
	if in[0].Sub != nil {
		t.Fatal("attachScripts modified its input")
	}
	if len(out) != 1 || out[0].Sub == nil || out[0].Sub.Value != "1" {
		t.Fatalf("attachScripts = %s", shape(out))
	}
}
