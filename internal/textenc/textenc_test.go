package textenc

import (
	"strings"
	"testing"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestDecode(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String(`\frac{a}{b} · x²`)
	if err != nil {
		t.Fatalf("encode latin1: %v", err)
	}
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(`\alpha + β`)
	if err != nil {
		t.Fatalf("encode utf16: %v", err)
	}

	tests := []struct {
		name    string
		data    []byte
		charset string
		want    string
	}{
		{"utf8", []byte(`\sum_{n=1}^{3} n`), "", `\sum_{n=1}^{3} n`},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, `x^2`...), "", `x^2`},
		{"utf16 bom", []byte(utf16), "", `\alpha + β`},
		{"declared charset", []byte(latin1), "ISO-8859-1", `\frac{a}{b} · x²`},
		{"declared with underscores", []byte(latin1), "iso_8859_1", `\frac{a}{b} · x²`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.data, tt.charset); got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	got := Decode([]byte{'x', 0xB2, ' ', '+', ' ', 'y'}, "")
	if !utf8.ValidString(got) {
		t.Errorf("Decode() = %q, want valid UTF-8", got)
	}
	if !strings.HasPrefix(got, "x") || !strings.HasSuffix(got, "+ y") {
		t.Errorf("Decode() = %q, ASCII content was not preserved", got)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"UTF-8", "windows-1252", "Shift_JIS", "GB18030", "big5"} {
		if Lookup(name) == nil {
			t.Errorf("Lookup(%q) = nil", name)
		}
	}
	if Lookup("klingon") != nil {
		t.Error("Lookup(klingon) should be nil")
	}
}
