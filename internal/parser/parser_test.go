package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractTextPlain(t *testing.T) {
	text, err := ExtractText("resume.txt", "text/plain", []byte("hello resume"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "hello resume" {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractTextByExtension(t *testing.T) {
	// 后缀兜底：浏览器偶尔给出 application/octet-stream
	if _, err := ExtractText("resume.txt", "application/octet-stream", []byte("x")); err != nil {
		t.Fatalf("txt extension should be accepted: %v", err)
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	_, err := ExtractText("resume.png", "image/png", []byte("x"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestExtractTextCorruptPDF(t *testing.T) {
	if _, err := ExtractText("resume.pdf", "application/pdf", []byte("not a pdf")); err == nil {
		t.Fatal("corrupt pdf should fail")
	}
}

func TestStripHTML(t *testing.T) {
	page := `<html><head><style>body { color: red }</style><script>alert(1)</script></head>
<body><nav>Home | About</nav><header>Site</header>
<h1>Backend   Engineer</h1><p>Build &amp; run services.</p>
<footer>Copyright</footer></body></html>`

	text := StripHTML(page)
	if strings.Contains(text, "alert(1)") || strings.Contains(text, "color: red") {
		t.Fatalf("script/style content leaked: %q", text)
	}
	for _, unwanted := range []string{"Home | About", "Copyright", "Site"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("chrome text %q should be removed", unwanted)
		}
	}
	if !strings.Contains(text, "Backend Engineer") {
		t.Fatalf("whitespace not collapsed: %q", text)
	}
	if !strings.Contains(text, "Build & run services.") {
		t.Fatalf("entities not unescaped: %q", text)
	}
}

func TestFetchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("User-Agent"), "Chrome") {
			t.Errorf("missing browser user agent, got %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte("<html><body><p>Senior Go Developer</p></body></html>"))
	}))
	defer srv.Close()

	text, err := FetchURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if text != "Senior Go Developer" {
		t.Fatalf("text = %q", text)
	}
}

func TestFetchURLNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := FetchURL(context.Background(), srv.URL); err == nil {
		t.Fatal("non-200 response should fail")
	}
}
