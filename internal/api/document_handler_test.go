package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"vibrantResume/internal/database"
	"vibrantResume/internal/markdown"
	"vibrantResume/internal/resume"
)

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&database.User{},
		&database.WorkingDocument{},
		&database.HistorySnapshot{},
		&database.CustomTemplate{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func jsonContext(t *testing.T, method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("userID", uint(1))
	return c, w
}

func sampleDocument() resume.Document {
	return resume.Document{
		Sections: []markdown.Section{
			{ID: "section-0", Content: "# Jane Doe\n\nEngineer with ten years of experience."},
			{ID: "section-1", Content: "## Experience\n\n- Built things"},
		},
		ContactInfo: resume.ContactInfo{Email: "jane@example.com"},
		Theme:       "modern",
	}
}

func TestGetDocumentReturnsDefaultsWhenEmpty(t *testing.T) {
	db := newHandlerDB(t)
	h := NewDocumentHandler(database.NewDocumentStore(db), database.NewTemplateStore(db))

	c, w := jsonContext(t, http.MethodGet, "/v1/document", nil)
	h.GetDocument(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var doc resume.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.Theme != "modern" || doc.PageTarget != "auto" {
		t.Fatalf("expected normalized defaults, got %+v", doc)
	}
}

func TestSaveDocumentRoundTrip(t *testing.T) {
	db := newHandlerDB(t)
	h := NewDocumentHandler(database.NewDocumentStore(db), database.NewTemplateStore(db))

	c, w := jsonContext(t, http.MethodPut, "/v1/document", sampleDocument())
	h.SaveDocument(c)
	if w.Code != http.StatusOK {
		t.Fatalf("save: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	c, w = jsonContext(t, http.MethodGet, "/v1/document", nil)
	h.GetDocument(c)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", w.Code)
	}
	var doc resume.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(doc.Sections) != 2 || doc.ContactInfo.Email != "jane@example.com" {
		t.Fatalf("round trip lost data: %+v", doc)
	}
}

func TestSaveDocumentOverwrites(t *testing.T) {
	db := newHandlerDB(t)
	h := NewDocumentHandler(database.NewDocumentStore(db), database.NewTemplateStore(db))

	c, w := jsonContext(t, http.MethodPut, "/v1/document", sampleDocument())
	h.SaveDocument(c)
	if w.Code != http.StatusOK {
		t.Fatalf("first save: %d", w.Code)
	}

	updated := sampleDocument()
	updated.Sections = updated.Sections[:1]
	c, w = jsonContext(t, http.MethodPut, "/v1/document", updated)
	h.SaveDocument(c)
	if w.Code != http.StatusOK {
		t.Fatalf("second save: %d", w.Code)
	}

	c, w = jsonContext(t, http.MethodGet, "/v1/document", nil)
	h.GetDocument(c)
	var doc resume.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected overwrite to single section, got %d", len(doc.Sections))
	}
}

func TestPreviewDocumentRendersSections(t *testing.T) {
	db := newHandlerDB(t)
	h := NewDocumentHandler(database.NewDocumentStore(db), database.NewTemplateStore(db))

	c, w := jsonContext(t, http.MethodPost, "/v1/document/preview", sampleDocument())
	h.PreviewDocument(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.HTML, "Jane Doe") || !strings.Contains(resp.HTML, "jane@example.com") {
		t.Fatal("preview missing rendered content")
	}
}
