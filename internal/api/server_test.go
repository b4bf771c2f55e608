package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	unimath "github.com/nicholasgasior/unimath-go"
	"github.com/nicholasgasior/unimath-go/internal/config"
)

func newTestServer(t *testing.T, cfg config.ServerConfig) *httptest.Server {
	t.Helper()
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.MaxBatchItems == 0 {
		cfg.MaxBatchItems = 10
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewServer(unimath.New(unimath.WithLogger(log)), log, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Errorf("health = %d %s", resp.StatusCode, body)
	}
}

func TestConvert(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	resp := postJSON(t, srv.URL+"/api/convert", convertRequest{Latex: `\frac{1}{2}`})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got convertResponse
	decode(t, resp, &got)
	if got.Output != "(1)/(2) " || got.Fallback {
		t.Errorf("response = %+v", got)
	}

	bad, err := http.Post(srv.URL+"/api/convert", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid JSON status = %d", bad.StatusCode)
	}
}

func TestConvertBatch(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{MaxBatchItems: 2})

	resp := postJSON(t, srv.URL+"/api/convert/batch", batchRequest{Items: []string{`\sqrt{x}`, `\frac{1}{2}`}})
	var got batchResponse
	decode(t, resp, &got)
	if len(got.Results) != 2 || got.Results[0].Output != "√(x) " {
		t.Errorf("results = %+v", got.Results)
	}

	resp = postJSON(t, srv.URL+"/api/convert/batch", batchRequest{Items: []string{"a", "b", "c"}})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized batch status = %d", resp.StatusCode)
	}
}

func TestBodyLimit(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{MaxBodyBytes: 64})
	resp := postJSON(t, srv.URL+"/api/convert", convertRequest{Latex: strings.Repeat("x", 200)})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestTextUtilities(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	tests := []struct {
		path, in, want string
	}{
		{"/api/normalize/latex", `x+\frac{}{}`, `x+`},
		{"/api/normalize/word", "∑▒〖n〗", "∑ (n)"},
		{"/api/strip-spaces", `\sum\: n`, `\sum n`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var got textResponse
			decode(t, postJSON(t, srv.URL+tt.path, textRequest{Text: tt.in}), &got)
			if got.Text != tt.want {
				t.Errorf("text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestRules(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	resp, err := http.Get(srv.URL + "/api/rules")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	var got struct {
		Rules []ruleResponse `json:"rules"`
	}
	decode(t, resp, &got)
	if len(got.Rules) != len(unimath.DefaultRegistry().Rules()) {
		t.Fatalf("got %d rules", len(got.Rules))
	}
	if got.Rules[0].Name != "word-spacing" || got.Rules[0].Pattern == "" {
		t.Errorf("first rule = %+v", got.Rules[0])
	}
}

func TestImportOMML(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	xml := `<m:oMath><m:f><m:num><m:r><m:t>1</m:t></m:r></m:num><m:den><m:r><m:t>2</m:t></m:r></m:den></m:f></m:oMath>`

	var got importResponse
	decode(t, postJSON(t, srv.URL+"/api/import/omml", ommlRequest{XML: xml, Convert: true}), &got)
	if len(got.Equations) != 1 || got.Equations[0] != `\frac{1}{2}` {
		t.Fatalf("equations = %q", got.Equations)
	}
	if len(got.Converted) != 1 || got.Converted[0].Output != "(1)/(2) " {
		t.Errorf("converted = %+v", got.Converted)
	}

	resp := postJSON(t, srv.URL+"/api/import/omml", ommlRequest{XML: "<m:oMath>"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("broken xml status = %d", resp.StatusCode)
	}
}

func TestImportClipboardText(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	var got importResponse
	decode(t, postJSON(t, srv.URL+"/api/import/clipboard", clipboardRequest{HTML: `<p>\sqrt{x}</p>`}), &got)
	if len(got.Equations) != 1 || got.Equations[0] != `\sqrt{x}` {
		t.Errorf("equations = %q", got.Equations)
	}
}

func uploadFile(t *testing.T, url, filename, content string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte(content))
	mw.Close()

	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestConvertFile(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	resp := uploadFile(t, srv.URL+"/api/convert/file", "formulas.txt", "\\sqrt{x}\n# comment\n\\frac{1}{2}\n")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got struct {
		Rows []struct {
			Input  string `json:"input"`
			Output string `json:"output"`
		} `json:"rows"`
	}
	decode(t, resp, &got)
	if len(got.Rows) != 2 || got.Rows[1].Output != "(1)/(2) " {
		t.Errorf("rows = %+v", got.Rows)
	}

	resp = uploadFile(t, srv.URL+"/api/convert/file?format=xlsx", "formulas.txt", "\\sqrt{x}\n")
	if ct := resp.Header.Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q", ct)
	}

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	fw, err := zw.Create("a.txt")
	if err != nil {
		t.Fatalf("zip Create: %v", err)
	}
	fw.Write(bytes.Repeat([]byte("a"), 64<<20))
	zw.Close()
	resp = uploadFile(t, srv.URL+"/api/convert/file", "bomb.zip", archive.String())
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("expanding archive status = %d", resp.StatusCode)
	}

	resp = uploadFile(t, srv.URL+"/api/convert/file", "many.txt", strings.Repeat("x\n", 11))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("formula count status = %d", resp.StatusCode)
	}

	resp = uploadFile(t, srv.URL+"/api/convert/file", "image.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("png status = %d", resp.StatusCode)
	}
}
