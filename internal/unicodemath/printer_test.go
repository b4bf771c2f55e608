package unicodemath

import (
	"testing"

	"github.com/nicholasgasior/unimath-go/internal/latex"
)

func TestPrint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"numeric fraction", `\frac{1}{2}`, "(1)/(2) "},
		{"differential fraction", `\frac{dy}{dx}`, "dy/dx "},
		{"partial fraction", `\frac{\partial u}{\partial t}`, "∂u/∂t "},
		{"compound fraction", `\frac{x+1}{2}`, "(x+1)/(2) "},
		{"scripted fraction", `\frac{a}{b}^2`, "(a/b)^2 "},
		{"fraction then text", `\frac{1}{2}x`, "(1)/(2) x"},
		{"sqrt", `\sqrt{x}`, "√(x) "},
		{"sqrt trims radicand", `\sqrt{x^2}`, "√(x^2) "},
		{"sqrt index", `\sqrt[a]{b}`, "√(a&b)"},
		{"sqrt numeric index", `\sqrt[3]{8}`, "√(3&8)"},
		{"sum", `\sum_{n=1}^{3} n`, "∑_(n=1)^(3)▒n"},
		{"sum without limits", `\sum i`, "∑▒i"},
		{"product", `\prod_{k} k`, "∏_(k)▒k"},
		{"integral", `\int_0^1 x dx`, "∫_(0)^(1)▒x dx"},
		{"limit", `\lim_{x\to0}`, "lim_(x→0)▒"},
		{"superscript", `x^2`, "x^2 "},
		{"subscript", `x_{i}`, "x_i "},
		{"long superscript", `x^{10}`, "x^(10) "},
		{"signed superscript", `e^{-x}`, "e^(-x) "},
		{"greek subscript", `\alpha_1`, "α_1"},
		{"greek run", `\alpha\beta`, "αβ"},
		{"letter after greek", `2\pi r`, "2π r"},
		{"standalone script", `^2`, "2"},
		{"dangling script", `x_`, "x"},
		{"function", `\sin x`, "sin x"},
		{"function with script", `\log_2 x`, "log_2 x"},
		{"trig with braces", `\cos{\theta}`, "cos〖θ〗"},
		{"trig power then group", `\sin^2{x}`, "sin^2 \u2061x"},
		{"equation", `a = b`, "a=b"},
		{"space before equals", `a \quad = b`, "a=b"},
		{"quad", `x \quad y`, "x y"},
		{"text command", `\text{if } x > 0`, "if x>0"},
		{"escaped braces", `\{x\}`, "{x}"},
		{"placeholder", `\placeholder{}`, "▒"},
		{"number set", `\mathbb{R}`, "ℝ"},
		{"unknown number set", `\mathbb{X}`, "X"},
		{"boxed", `\boxed{x}`, "▭〖x〗"},
		{"vector arrow", `\overrightarrow{AB}`, "(AB)\u20d7"},
		{"vec", `\vec{v}`, "v\u20d7"},
		{"dot", `\dot{x}`, "x\u0307"},
		{"ddot", `\ddot{x}`, "x\u0308"},
		{"overline", `\overline{z}`, "z\u0305"},
		{"underset tilde", `\underset{\sim}{A}`, "A┬∼"},
		{"underset other", `\underset{n}{A}`, "A"},
		{"projection", `\operatorname{proj}_{\underset{\sim}{A}} \underset{\sim}{B}`, "proj_A┬∼ B┬∼"},
		{"evaluation bar", `\left. f \right|_a^b`, "├f┤|_a^b "},
		{"paren fence", `\left( x \right)`, "(x)"},
		{"pipe fence", `\left| x \right|`, "|x┤|"},
		{"pmatrix", `\begin{pmatrix}a\\ b\end{pmatrix}`, "(■(a@b))"},
		{"empty pmatrix", `\begin{pmatrix}\end{pmatrix}`, "(■())"},
		{"bmatrix", `\begin{bmatrix}1&2\\3&4\end{bmatrix}`, "[■(1&2@3&4)]"},
		{"cases", `\begin{cases}1 & x>0\\ 0 & x\le 0\end{cases}`, "{█(1&&x>0@0&&x≤0)┤"},
		{"empty cases", `\begin{cases}\end{cases}`, "{█()┤"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Print(latex.Parse(tt.input))
			if got != tt.want {
				t.Errorf("Print(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSpacingRules(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"fraction-chain", `\frac{a}{b}\frac{c}{d}`, "a/b  c/d "},
		{"fraction-equation-chain", `\frac{a}{b} + \frac{c}{d} = \frac{e}{f}`, "a/b +c/d  =e/f "},
		{"fraction-equation-chain unspaced", `\frac{a}{b}+\frac{c}{d}=\frac{e}{f}`, "a/b +c/d  =e/f "},
		{"zero-width-break", `f(x)\,g`, "f(x) g"},
		{"zero-width-break differential", `\sin x \, dx`, "sin x dx"},
		{"zero-width-suppress", `x\,y`, "xy"},
		{"letter-collision", `x y`, "x y"},
		{"paren-paren", `(a) (b)`, "(a) (b)"},
		{"no rule", `x + y`, "x+y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Print(latex.Parse(tt.input))
			if got != tt.want {
				t.Errorf("Print(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSpacingTableNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range spacingTable {
		if seen[r.name] {
			t.Errorf("duplicate spacing rule %q", r.name)
		}
		seen[r.name] = true
	}
}

func TestIsSimple(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`{a}`, true},
		{`{dy}`, true},
		{`{2x}`, true},
		{`{1}`, false},
		{`{12}`, false},
		{`{abc}`, false},
		{`{x+1}`, false},
		{`{\pi}`, true},
		{`{\pi^2}`, false},
		{`{\partial u}`, true},
		{`{\partial^2 u}`, true},
		{`{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			nodes := latex.Parse(tt.input)
			if len(nodes) != 1 {
				t.Fatalf("Parse(%q) returned %d nodes, want 1", tt.input, len(nodes))
			}
			if got := isSimple(&nodes[0]); got != tt.want {
				t.Errorf("isSimple(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrintNodeNil(t *testing.T) {
	if got := PrintNode(nil); got != "" {
		t.Errorf("PrintNode(nil) = %q, want empty", got)
	}
}
