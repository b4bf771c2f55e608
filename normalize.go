package unimath

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	emptySlot  = `\s*(?:\\placeholder\{\})?\s*`
	emptyBrace = `\{` + emptySlot + `\}`
)

var (
	reCRLF        = regexp.MustCompile(`\r\n?`)
	reWhitespace  = regexp.MustCompile(`\s+`)
	rePlaceholder = regexp.MustCompile(`\\placeholder\{\}`)

	// emptyConstructs are removed by NormalizeLatexStr, in this order.
	emptyConstructs = []*regexp.Regexp{
		regexp.MustCompile(`\\frac` + emptyBrace + emptyBrace),
		regexp.MustCompile(`\\sqrt` + emptyBrace),
		regexp.MustCompile(`\\sqrt\[` + emptySlot + `\]` + emptyBrace),
		regexp.MustCompile(`\\(?:dot|ddot|vec|overline)` + emptyBrace),
		regexp.MustCompile(`\\left\s*\(` + emptySlot + `\\right\s*\)`),
		regexp.MustCompile(`\\left\s*\[` + emptySlot + `\\right\s*\]`),
		regexp.MustCompile(`\\left\s*\\\{` + emptySlot + `\\right\s*\\\}`),
		regexp.MustCompile(`\\left\s*\|` + emptySlot + `\\right\s*\|`),
		regexp.MustCompile(`\\int_` + emptyBrace + `\^` + emptyBrace + emptySlot + `(?:d[a-zA-Z]+)?`),
		regexp.MustCompile(`\\(?:sum|prod)_` + emptyBrace + `\^` + emptyBrace + emptySlot),
		regexp.MustCompile(`\\(?:sum|prod)_\{n=` + emptySlot + `\}\^` + emptyBrace + emptySlot),
		// An indefinite integral is only empty when nothing but a
		// placeholder (or the end of input) follows it.
		regexp.MustCompile(`\\int\s*(?:\\placeholder\{\}\s*(?:d[a-zA-Z]+)?|(?:d[a-zA-Z]+)?\s*$)`),
		regexp.MustCompile(`\\lim_\{x\\to` + emptySlot + `\}` + emptySlot),
		regexp.MustCompile(`\\lim_` + emptyBrace + emptySlot),
		regexp.MustCompile(`\\begin\{pmatrix\}(?:` + emptySlot + `|&|\\\\|\s)*\\end\{pmatrix\}`),
		regexp.MustCompile(`\\begin\{bmatrix\}(?:` + emptySlot + `|&|\\\\|\s)*\\end\{bmatrix\}`),
		regexp.MustCompile(`\\begin\{cases\}(?:` + emptySlot + `|&|\\\\|\s)*\\end\{cases\}`),
	}

	// templateSpacing matches the \: an editor template puts right after
	// an n-ary operator and its limits.
	templateSpacing = regexp.MustCompile(`(\\(?:int|sum|prod)(?:\s*[_^](?:\{[^}]*\}|\\?[a-zA-Z0-9]+))*)\s*\\:`)
	// templateSpacingWord is the same when a letter follows; a plain space
	// keeps \int\:x from fusing into \intx.
	templateSpacingWord = regexp.MustCompile(templateSpacing.String() + `([a-zA-Z])`)
)

// maxNormalizePasses bounds the fixpoint loops below. Nested empty
// constructs unwrap one level per pass.
const maxNormalizePasses = 10

// NormalizeLatexStr strips constructs a user started and then emptied out,
// such as \frac{}{} or \sqrt{\placeholder{}}. It repeats until the markup
// stops changing, so applying it twice is the same as applying it once.
func NormalizeLatexStr(markup string) string {
	for i := 0; i < maxNormalizePasses; i++ {
		before := markup
		for _, re := range emptyConstructs {
			markup = re.ReplaceAllString(markup, "")
		}
		if markup == before {
			break
		}
	}
	return markup
}

// IsEmptyLatex reports whether markup holds nothing but empty constructs,
// placeholders and whitespace.
func IsEmptyLatex(markup string) bool {
	if markup == "" {
		return true
	}
	rest := rePlaceholder.ReplaceAllString(NormalizeLatexStr(markup), "")
	return strings.TrimSpace(rest) == ""
}

// ExtractContent removes an outer \left( ... \right) or \left[ ... \right]
// wrapping the whole expression.
func ExtractContent(markup string) string {
	s := strings.TrimSpace(markup)
	for _, pair := range [][2]string{{`\left(`, `\right)`}, {`\left[`, `\right]`}} {
		if len(s) >= len(pair[0])+len(pair[1]) && strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			s = strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}
	return s
}

// NormalizeWordInput turns UnicodeMath pasted back from Word into plain
// readable text: lenticular brackets become parentheses, the n-ary
// placeholder becomes a space, function application and fence glyphs are
// dropped, and whitespace collapses. The result is NFC normalized.
func NormalizeWordInput(text string) string {
	text = strings.NewReplacer(
		"〖", "(",
		"〗", ")",
		"▒", " ",
		"\u2061", "",
		"├", "",
		"┤", "",
	).Replace(text)
	text = norm.NFC.String(text)
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

// RemoveWordSpaces drops the \: spacing that editor templates insert after
// \int, \sum and \prod. Spacing typed anywhere else is kept.
func RemoveWordSpaces(markup string) string {
	for i := 0; i < maxNormalizePasses && strings.Contains(markup, `\:`); i++ {
		next := templateSpacingWord.ReplaceAllString(markup, "$1 $2")
		next = templateSpacing.ReplaceAllString(next, "$1")
		if next == markup {
			break
		}
		markup = next
	}
	return markup
}

// cleanMarkup prepares raw input for the parser:
// - Ensure valid UTF-8
// - Normalize line endings (CRLF -> LF)
// - Strip control characters other than \n and \t
func cleanMarkup(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
