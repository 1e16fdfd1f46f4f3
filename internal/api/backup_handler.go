package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vibrantResume/internal/api/middleware"
	"vibrantResume/internal/database"
	"vibrantResume/internal/markdown"
	"vibrantResume/internal/resume"
	"vibrantResume/internal/storage"
)

const (
	maxBackupBytes   = 2 << 20
	backupURLExpiry  = 15 * time.Minute
	maxBackupListing = 100
)

var backupNameRe = regexp.MustCompile(`^[a-zA-Z0-9._ -]{1,128}$`)

// BackupHandler 负责工作文档的云端备份。
// 备份以 Markdown 形式存入对象存储的每用户前缀下。
type BackupHandler struct {
	storage   *storage.Client
	documents *database.DocumentStore
	logger    *slog.Logger
}

// NewBackupHandler 构造备份处理器。
func NewBackupHandler(storageClient *storage.Client, documents *database.DocumentStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{storage: storageClient, documents: documents, logger: logger}
}

type createBackupRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateBackup 把当前工作文档序列化为 Markdown 并上传。
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req createBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if !backupNameRe.MatchString(name) {
		BadRequest(c, "invalid backup name")
		return
	}

	ctx := c.Request.Context()
	record, err := h.documents.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			Conflict(c, "nothing to back up")
			return
		}
		Internal(c, "failed to load document")
		return
	}

	var doc resume.Document
	if err := json.Unmarshal(record.Content, &doc); err != nil {
		Internal(c, "failed to decode document")
		return
	}

	md := doc.Markdown()
	objectKey := storage.BackupKey(userID, name)
	if _, err := h.storage.UploadFile(ctx, objectKey, strings.NewReader(md), int64(len(md)), "text/markdown"); err != nil {
		middleware.LoggerFromContext(c).Error("upload backup failed", slog.Any("error", err))
		Internal(c, "failed to upload backup")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"objectKey": objectKey})
}

// ListBackups 返回备份列表及预签名下载链接。
func (h *BackupHandler) ListBackups(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	prefix := storage.UserPrefix(storage.BackupPrefix, userID)
	objects, err := h.storage.ListObjects(ctx, prefix, maxBackupListing)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list backups failed", slog.Any("error", err))
		Internal(c, "failed to list backups")
		return
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	items := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		url, err := h.storage.GeneratePresignedURL(ctx, obj.Key, backupURLExpiry)
		if err != nil {
			middleware.LoggerFromContext(c).Error("presign backup failed",
				slog.String("objectKey", obj.Key),
				slog.Any("error", err),
			)
			continue
		}
		items = append(items, gin.H{
			"objectKey":    obj.Key,
			"name":         backupDisplayName(obj.Key),
			"downloadUrl":  url,
			"size":         obj.Size,
			"lastModified": obj.LastModified,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type restoreBackupRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// RestoreBackup 把备份内容切分后写回工作文档。
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req restoreBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if !h.ownsBackup(userID, req.ObjectKey) {
		Forbidden(c, "access denied")
		return
	}

	ctx := c.Request.Context()
	object, err := h.storage.GetObject(ctx, req.ObjectKey)
	if err != nil {
		Internal(c, "failed to fetch backup")
		return
	}
	defer object.Close()

	data, err := io.ReadAll(io.LimitReader(object, maxBackupBytes))
	if err != nil {
		if storage.IsNoSuchKey(err) || storage.IsNoSuchBucket(err) {
			NotFound(c, "backup not found")
			return
		}
		middleware.LoggerFromContext(c).Error("read backup failed", slog.Any("error", err))
		Internal(c, "failed to read backup")
		return
	}

	// 备份只保存 Markdown，恢复时重建区块结构，其余字段保留现状。
	var doc resume.Document
	if record, err := h.documents.Get(ctx, userID); err == nil {
		if err := json.Unmarshal(record.Content, &doc); err != nil {
			doc = resume.Document{}
		}
	}
	doc.Sections = markdown.Split(string(data))
	doc.Normalize()

	content, err := json.Marshal(doc)
	if err != nil {
		Internal(c, "failed to encode document")
		return
	}
	if _, err := h.documents.Save(ctx, userID, content); err != nil {
		middleware.LoggerFromContext(c).Error("restore backup failed", slog.Any("error", err))
		Internal(c, "failed to restore backup")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// DeleteBackup 删除一份备份，幂等。
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}
	if !h.ownsBackup(userID, objectKey) {
		Forbidden(c, "access denied")
		return
	}

	if err := h.storage.DeleteObject(c.Request.Context(), objectKey); err != nil {
		middleware.LoggerFromContext(c).Error("delete backup failed", slog.Any("error", err))
		Internal(c, "failed to delete backup")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BackupHandler) ownsBackup(userID uint, objectKey string) bool {
	prefix := storage.UserPrefix(storage.BackupPrefix, userID)
	return strings.HasPrefix(objectKey, prefix) &&
		!strings.Contains(objectKey, "..") &&
		!strings.Contains(objectKey, "//")
}

func backupDisplayName(objectKey string) string {
	base := objectKey[strings.LastIndex(objectKey, "/")+1:]
	return strings.TrimSuffix(base, ".md")
}
