package worker

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"vibrantResume/internal/database"
	"vibrantResume/internal/markdown"
	"vibrantResume/internal/resume"
	"vibrantResume/internal/tasks"
	"vibrantResume/internal/theme"
)

func newTestHandler(t *testing.T) *ExportHandler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.User{}, &database.CustomTemplate{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewExportHandler(
		database.NewTemplateStore(db),
		nil,
		nil,
		slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)),
	)
}

func TestResolveThemeBuiltin(t *testing.T) {
	h := newTestHandler(t)

	bundle, pic := h.resolveTheme(context.Background(), 1, "classic")
	if bundle.Name != "classic" {
		t.Fatalf("expected classic bundle, got %q", bundle.Name)
	}
	if pic != nil {
		t.Fatal("builtin themes carry no profile picture")
	}
}

func TestResolveThemeCustomTemplate(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	tpl := &database.CustomTemplate{
		UserID:       1,
		Name:         "brand",
		HeadingColor: "#123456",
		TextColor:    "#222222",
		ProfilePic:   datatypes.JSON(`{"url":"https://cdn.example.com/me.png","position":"top-center","size":100}`),
	}
	if err := h.templates.Create(ctx, tpl); err != nil {
		t.Fatalf("create template: %v", err)
	}

	bundle, pic := h.resolveTheme(ctx, 1, strconv.FormatUint(uint64(tpl.ID), 10))
	if bundle.HeadingColor != "123456" {
		t.Fatalf("expected custom heading color, got %q", bundle.HeadingColor)
	}
	if pic == nil || pic.URL != "https://cdn.example.com/me.png" {
		t.Fatalf("expected custom profile picture, got %+v", pic)
	}
}

func TestResolveThemeFallsBackOnUnknownID(t *testing.T) {
	h := newTestHandler(t)

	bundle, pic := h.resolveTheme(context.Background(), 1, "9999")
	if bundle.Name != theme.DefaultTheme {
		t.Fatalf("expected default theme fallback, got %q", bundle.Name)
	}
	if pic != nil {
		t.Fatal("fallback must not carry a profile picture")
	}
}

func TestResolveThemeForeignTemplateDenied(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	tpl := &database.CustomTemplate{UserID: 2, Name: "other"}
	if err := h.templates.Create(ctx, tpl); err != nil {
		t.Fatalf("create template: %v", err)
	}

	bundle, _ := h.resolveTheme(ctx, 1, strconv.FormatUint(uint64(tpl.ID), 10))
	if bundle.Name != theme.DefaultTheme {
		t.Fatalf("expected fallback for foreign template, got %q", bundle.Name)
	}
}

func TestFetchImageDataURI(t *testing.T) {
	h := newTestHandler(t)
	raw := []byte{0x89, 'P', 'N', 'G'}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	data, err := h.fetchImage(context.Background(), uri)
	if err != nil {
		t.Fatalf("fetch data uri: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Fatalf("decoded bytes mismatch: %v", data)
	}
}

func TestFetchImageHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("img-bytes"))
	}))
	defer srv.Close()

	h := newTestHandler(t)
	data, err := h.fetchImage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch http image: %v", err)
	}
	if string(data) != "img-bytes" {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestFetchImageRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	h := newTestHandler(t)
	if _, err := h.fetchImage(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestBuildDOCXWithoutPicture(t *testing.T) {
	h := newTestHandler(t)
	payload := tasks.ExportPayload{
		UserID:        1,
		CorrelationID: "corr-1",
		Document: resume.Document{
			Theme: "modern",
			Sections: []markdown.Section{
				{ID: "section-0", Content: "# Jane Doe\n\nSoftware engineer."},
			},
		},
	}

	data, err := h.buildDOCX(context.Background(), payload, theme.Resolve("modern", nil), nil, h.logger)
	if err != nil {
		t.Fatalf("build docx: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	var hasDocument bool
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			hasDocument = true
		}
	}
	if !hasDocument {
		t.Fatal("archive missing word/document.xml")
	}
}

func TestBuildDOCXSurvivesPicFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := newTestHandler(t)
	pic := &theme.ProfilePic{URL: srv.URL, Position: "top-center", Size: 96}
	payload := tasks.ExportPayload{
		UserID:   1,
		Document: resume.Document{Sections: []markdown.Section{{ID: "section-0", Content: "# Jane"}}},
	}

	data, err := h.buildDOCX(context.Background(), payload, theme.Resolve("modern", nil), pic, h.logger)
	if err != nil {
		t.Fatalf("build docx without picture: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty document")
	}
	if strings.Contains(string(data), "media/image1") {
		t.Fatal("failed picture fetch must not embed an image")
	}
}
