package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"vibrantResume/internal/database"
	"vibrantResume/internal/storage"
)

type fakeStorage struct {
	uploaded map[string][]byte
	deleted  []string
	objects  []storage.ObjectMeta
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	b, _ := io.ReadAll(reader)
	s.uploaded[objectName] = b
	return &minio.UploadInfo{}, nil
}

func (s *fakeStorage) GeneratePresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://example.invalid/" + objectKey, nil
}

func (s *fakeStorage) ListObjects(_ context.Context, prefix string, _ int) ([]storage.ObjectMeta, error) {
	return s.objects, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	delete(s.uploaded, objectKey)
	return nil
}

func newAssetTestHandler(t *testing.T) (*AssetHandler, *fakeStorage) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.User{}, &database.Asset{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	fake := newFakeStorage()
	return &AssetHandler{
		Storage: fake,
		Assets:  database.NewAssetStore(db),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, fake
}

func newMultipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func assetTestContext(t *testing.T, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("userID", uint(1))
	return c, w
}

func TestUploadAssetRejectsUnsupportedExtension(t *testing.T) {
	h, _ := newAssetTestHandler(t)

	body, contentType := newMultipartUpload(t, "resume.exe", []byte("MZ"))
	req := httptest.NewRequest(http.MethodPost, "/v1/assets/upload", body)
	req.Header.Set("Content-Type", contentType)

	c, w := assetTestContext(t, req)
	h.UploadAsset(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetAssetURLDeniesForeignKey(t *testing.T) {
	h, _ := newAssetTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/assets/view?key=user-assets/2/pic.png", nil)
	c, w := assetTestContext(t, req)
	h.GetAssetURL(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetAssetURLDeniesTraversal(t *testing.T) {
	h, _ := newAssetTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/assets/view?key=user-assets/1/../2/pic.png", nil)
	c, w := assetTestContext(t, req)
	h.GetAssetURL(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetAssetURLSignsOwnKey(t *testing.T) {
	h, _ := newAssetTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/assets/view?key=user-assets/1/pic.png", nil)
	c, w := assetTestContext(t, req)
	h.GetAssetURL(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("user-assets/1/pic.png")) {
		t.Fatalf("expected signed url in body, got %s", w.Body.String())
	}
}

func TestDeleteAssetRemovesObjectAndRecord(t *testing.T) {
	h, fake := newAssetTestHandler(t)
	ctx := context.Background()

	objectKey := "user-assets/1/pic.png"
	if err := h.Assets.Create(ctx, database.Asset{UserID: 1, ObjectKey: objectKey}); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/assets?key="+objectKey, nil)
	c, w := assetTestContext(t, req)
	h.DeleteAsset(c)
	c.Writer.WriteHeaderNow()

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d body=%s", w.Code, w.Body.String())
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != objectKey {
		t.Fatalf("expected object deleted, got %v", fake.deleted)
	}
	count, err := h.Assets.CountByUser(ctx, 1)
	if err != nil {
		t.Fatalf("count assets: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected record removed, count=%d", count)
	}
}
