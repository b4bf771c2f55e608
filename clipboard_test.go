package unimath

import (
	"errors"
	"strings"
	"testing"
)

const wordClipboard = `Version:0.9
StartHTML:0000000105
EndHTML:0000000999
<html xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math">
<body>
<p class=MsoNormal><!--[if gte msEquation 12]><m:oMathPara><m:oMath><i><span
style='font-family:"Cambria Math"'><m:r>x</m:r></span></i><m:sSup><m:e><i><span
style='font-family:"Cambria Math"'><m:r>y</m:r></span></i></m:e><m:sup><m:r>2</m:r></m:sup></m:sSup></m:oMath></m:oMathPara><![endif]--><![if !msEquation]><img src="image001.png"><![endif]></p>
<p class=MsoNormal><!--[if gte msEquation 12]><m:oMath><m:f><m:num><m:r>a</m:r></m:num><m:den><m:r>b</m:r></m:den></m:f></m:oMath><![endif]--></p>
</body>
</html>`

func TestFromClipboardHTML(t *testing.T) {
	got, err := FromClipboardHTML(wordClipboard)
	if err != nil {
		t.Fatalf("FromClipboardHTML: %v", err)
	}
	want := []string{`xy^{2}`, `\frac{a}{b}`}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("equation %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFromClipboardHTMLText(t *testing.T) {
	got, err := FromClipboardHTML(`<html><body><script>var x = 1;</script><p>\frac{a}{b}</p></body></html>`)
	if err != nil {
		t.Fatalf("FromClipboardHTML: %v", err)
	}
	if len(got) != 1 || got[0] != `\frac{a}{b}` {
		t.Errorf("got %q", got)
	}

	got, err = FromClipboardHTML(`<html><body></body></html>`)
	if err != nil || len(got) != 0 {
		t.Errorf("empty clipboard = %q, %v", got, err)
	}
}

func TestFromOMML(t *testing.T) {
	got, err := FromOMML(`<m:oMath><m:r><m:t>x</m:t></m:r></m:oMath>`)
	if err != nil {
		t.Fatalf("FromOMML: %v", err)
	}
	if len(got) != 1 || got[0] != "x" {
		t.Errorf("got %q", got)
	}

	_, err = FromOMML(`<m:oMath><m:r>`)
	if err == nil {
		t.Fatal("expected error for truncated xml")
	}
	var ce *ConversionError
	if !errors.As(err, &ce) || ce.Stage != StageImport {
		t.Errorf("error = %v, want import-stage ConversionError", err)
	}
	if !strings.Contains(err.Error(), "import") {
		t.Errorf("error text = %q", err.Error())
	}
}
