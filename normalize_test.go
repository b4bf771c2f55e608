package unimath

import "testing"

func TestNormalizeLatexStr(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`x+\frac{}{}`, `x+`},
		{`\frac{\placeholder{}}{ }y`, `y`},
		{`\sqrt{\placeholder{}}y`, `y`},
		{`\sqrt[]{}z`, `z`},
		{`\frac{\sqrt{}}{}`, ``},
		{`\vec{}a`, `a`},
		{`\left(\right)a`, `a`},
		{`\left[ \placeholder{} \right]`, ``},
		{`\left\{\right\}`, ``},
		{`\left|\right|`, ``},
		{`\int_{}^{} dx`, ``},
		{`\sum_{}^{}`, ``},
		{`\prod_{n=}^{}`, ``},
		{`\int \placeholder{} dx`, ``},
		{`\int`, ``},
		{`\lim_{x\to}`, ``},
		{`\lim_{}`, ``},
		{`\begin{pmatrix}&\\\end{pmatrix}`, ``},
		{`\begin{cases}\placeholder{}&\end{cases}`, ``},
		{`\frac{a}{b}`, `\frac{a}{b}`},
		{`\int x dx`, `\int x dx`},
		{`\sqrt{x}`, `\sqrt{x}`},
	}
	for _, tt := range tests {
		got := NormalizeLatexStr(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeLatexStr(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := NormalizeLatexStr(got); again != got {
			t.Errorf("NormalizeLatexStr not stable on %q: %q", got, again)
		}
	}
}

func TestIsEmptyLatex(t *testing.T) {
	for _, in := range []string{"", "  ", `\frac{}{}`, `\placeholder{}`, `\sqrt{} \vec{}`} {
		if !IsEmptyLatex(in) {
			t.Errorf("IsEmptyLatex(%q) = false", in)
		}
	}
	for _, in := range []string{"x", `\frac{1}{}`, `\alpha`} {
		if IsEmptyLatex(in) {
			t.Errorf("IsEmptyLatex(%q) = true", in)
		}
	}
}

func TestExtractContent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`\left( a+b \right)`, `a+b`},
		{`\left[x\right]`, `x`},
		{`(a)`, `(a)`},
	}
	for _, tt := range tests {
		if got := ExtractContent(tt.in); got != tt.want {
			t.Errorf("ExtractContent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeWordInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"∫_(0)^(1)▒〖f(x)〗 dx", "∫_(0)^(1) (f(x)) dx"},
		{"sin\u2061x", "sinx"},
		{"├ f┤|_a^b", "f|_a^b"},
		{"  a   b\n", "a b"},
		{"e\u0301", "\u00e9"},
	}
	for _, tt := range tests {
		got := NormalizeWordInput(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeWordInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := NormalizeWordInput(got); again != got {
			t.Errorf("NormalizeWordInput not idempotent on %q: %q", got, again)
		}
	}
}

func TestRemoveWordSpaces(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`\int_{0}^{1}\: f(x)`, `\int_{0}^{1} f(x)`},
		{`\sum\: n`, `\sum n`},
		{`\prod_{k}^{n}\:k`, `\prod_{k}^{n} k`},
		{`\int\:\frac{1}{x}`, `\int\frac{1}{x}`},
		{`a\:b`, `a\:b`},
		{`\int_{0}^{1} x \: dx`, `\int_{0}^{1} x \: dx`},
	}
	for _, tt := range tests {
		if got := RemoveWordSpaces(tt.in); got != tt.want {
			t.Errorf("RemoveWordSpaces(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
