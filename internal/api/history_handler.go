package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"vibrantResume/internal/api/middleware"
	"vibrantResume/internal/database"
	"vibrantResume/internal/errcode"
	"vibrantResume/internal/markdown"
	"vibrantResume/internal/resume"
)

// HistoryHandler 负责历史快照的保存、恢复与删除。
type HistoryHandler struct {
	history   *database.HistoryStore
	documents *database.DocumentStore
}

// NewHistoryHandler 构造历史快照处理器。
func NewHistoryHandler(history *database.HistoryStore, documents *database.DocumentStore) *HistoryHandler {
	return &HistoryHandler{history: history, documents: documents}
}

type saveSnapshotRequest struct {
	Document     resume.Document `json:"document" binding:"required"`
	Metrics      *resume.Metrics `json:"metrics"`
	ConfirmEvict bool            `json:"confirm_evict"`
}

type snapshotResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Document  json.RawMessage `json:"document"`
	Metrics   json.RawMessage `json:"metrics,omitempty"`
}

// ListSnapshots 按保存时间倒序返回全部快照。
func (h *HistoryHandler) ListSnapshots(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	snapshots, err := h.history.List(c.Request.Context(), userID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list snapshots failed", slog.Any("error", err))
		Internal(c, "failed to list history")
		return
	}

	items := make([]snapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		items = append(items, newSnapshotResponse(s))
	}
	c.JSON(http.StatusOK, items)
}

// SaveSnapshot 保存一条不可变快照。
// 达到上限且未确认淘汰时返回 409，列表保持不变。
func (h *HistoryHandler) SaveSnapshot(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req saveSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	req.Document.Normalize()

	content, err := json.Marshal(req.Document)
	if err != nil {
		Internal(c, "failed to encode snapshot")
		return
	}

	snap := &database.HistorySnapshot{
		UserID:  userID,
		Name:    snapshotName(req.Document),
		Content: datatypes.JSON(content),
	}
	if req.Metrics != nil {
		metrics, err := json.Marshal(req.Metrics)
		if err != nil {
			Internal(c, "failed to encode metrics")
			return
		}
		snap.Metrics = datatypes.JSON(metrics)
	}

	if err := h.history.Append(c.Request.Context(), snap, req.ConfirmEvict); err != nil {
		if errors.Is(err, database.ErrHistoryFull) {
			ErrorCode(c, http.StatusConflict, errcode.HistoryFull, "history_full")
			return
		}
		middleware.LoggerFromContext(c).Error("append snapshot failed", slog.Any("error", err))
		Internal(c, "failed to save snapshot")
		return
	}

	c.JSON(http.StatusCreated, newSnapshotResponse(*snap))
}

// RestoreSnapshot 把快照内容复制回工作文档。
func (h *HistoryHandler) RestoreSnapshot(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	snapshotID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid snapshot id")
		return
	}

	ctx := c.Request.Context()
	snap, err := h.history.Get(ctx, userID, uint(snapshotID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			NotFound(c, "snapshot not found")
			return
		}
		middleware.LoggerFromContext(c).Error("load snapshot failed", slog.Any("error", err))
		Internal(c, "failed to load snapshot")
		return
	}

	// 拷贝快照内容，快照本身保持不变。
	var doc resume.Document
	if err := json.Unmarshal(snap.Content, &doc); err != nil {
		Internal(c, "failed to decode snapshot")
		return
	}
	doc.Normalize()
	content, err := json.Marshal(doc)
	if err != nil {
		Internal(c, "failed to encode document")
		return
	}
	if _, err := h.documents.Save(ctx, userID, content); err != nil {
		middleware.LoggerFromContext(c).Error("restore snapshot failed", slog.Any("error", err))
		Internal(c, "failed to restore snapshot")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// RemoveSnapshot 删除单条快照。
func (h *HistoryHandler) RemoveSnapshot(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	snapshotID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid snapshot id")
		return
	}

	if err := h.history.Remove(c.Request.Context(), userID, uint(snapshotID)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			NotFound(c, "snapshot not found")
			return
		}
		middleware.LoggerFromContext(c).Error("remove snapshot failed", slog.Any("error", err))
		Internal(c, "failed to remove snapshot")
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearSnapshots 清空当前用户的全部快照。
func (h *HistoryHandler) ClearSnapshots(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	if err := h.history.Clear(c.Request.Context(), userID); err != nil {
		middleware.LoggerFromContext(c).Error("clear snapshots failed", slog.Any("error", err))
		Internal(c, "failed to clear history")
		return
	}
	c.Status(http.StatusNoContent)
}

func newSnapshotResponse(s database.HistorySnapshot) snapshotResponse {
	return snapshotResponse{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		Document:  json.RawMessage(s.Content),
		Metrics:   json.RawMessage(s.Metrics),
	}
}

// snapshotName 取第一段的标题文本作为展示名。
func snapshotName(doc resume.Document) string {
	for _, sec := range doc.Sections {
		if label := strings.TrimSpace(markdown.HeadingLabel(sec.Content)); label != "" {
			return label
		}
	}
	return "Content Block"
}
