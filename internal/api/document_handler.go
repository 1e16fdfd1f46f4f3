package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vibrantResume/internal/api/middleware"
	"vibrantResume/internal/database"
	"vibrantResume/internal/render"
	"vibrantResume/internal/resume"
	"vibrantResume/internal/theme"
)

// DocumentHandler 负责工作文档的读写与实时预览。
type DocumentHandler struct {
	documents *database.DocumentStore
	templates *database.TemplateStore
}

// NewDocumentHandler 构造工作文档处理器。
func NewDocumentHandler(documents *database.DocumentStore, templates *database.TemplateStore) *DocumentHandler {
	return &DocumentHandler{documents: documents, templates: templates}
}

// GetDocument 返回当前用户的工作文档，不存在时返回空文档缺省值。
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	record, err := h.documents.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			var doc resume.Document
			doc.Normalize()
			c.JSON(http.StatusOK, doc)
			return
		}
		middleware.LoggerFromContext(c).Error("load working document failed", slog.Any("error", err))
		Internal(c, "failed to load document")
		return
	}

	var doc resume.Document
	if err := json.Unmarshal(record.Content, &doc); err != nil {
		middleware.LoggerFromContext(c).Error("decode working document failed", slog.Any("error", err))
		Internal(c, "failed to decode document")
		return
	}
	doc.Normalize()
	c.JSON(http.StatusOK, doc)
}

// SaveDocument 覆盖写入当前用户的工作文档。
func (h *DocumentHandler) SaveDocument(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var doc resume.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		BadRequest(c, err.Error())
		return
	}
	doc.Normalize()

	content, err := json.Marshal(doc)
	if err != nil {
		Internal(c, "failed to encode document")
		return
	}

	if _, err := h.documents.Save(c.Request.Context(), userID, content); err != nil {
		middleware.LoggerFromContext(c).Error("save working document failed", slog.Any("error", err))
		Internal(c, "failed to save document")
		return
	}
	c.Status(http.StatusOK)
}

// PreviewDocument 把请求体中的文档渲染成预览 HTML。
// 不落库，编辑器每次内容变化都可调用。
func (h *DocumentHandler) PreviewDocument(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var doc resume.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		BadRequest(c, err.Error())
		return
	}
	doc.Normalize()

	bundle, pic := resolveDocumentTheme(c.Request.Context(), h.templates, userID, doc.Theme)
	html, err := render.Preview(render.Input{Doc: doc, Bundle: bundle, Pic: pic})
	if err != nil {
		middleware.LoggerFromContext(c).Error("render preview failed", slog.Any("error", err))
		Internal(c, "failed to render preview")
		return
	}

	c.JSON(http.StatusOK, gin.H{"html": html})
}

// resolveDocumentTheme 把主题标识解析为样式包。
// 非内置标识按当前用户的自定义模板 ID 解析，查不到时回退默认主题。
func resolveDocumentTheme(ctx context.Context, templates *database.TemplateStore, userID uint, name string) (theme.Bundle, *theme.ProfilePic) {
	if name == "" || theme.IsBuiltin(name) {
		return theme.Resolve(name, nil), nil
	}

	id, err := strconv.ParseUint(name, 10, 32)
	if err != nil {
		return theme.Resolve(theme.DefaultTheme, nil), nil
	}
	tpl, err := templates.Get(ctx, userID, uint(id))
	if err != nil {
		return theme.Resolve(theme.DefaultTheme, nil), nil
	}

	bundle, pic := theme.ResolveStored(name, theme.StoredTemplate{
		Name:         tpl.Name,
		HeadingColor: tpl.HeadingColor,
		AccentColor:  tpl.AccentColor,
		BgColor:      tpl.BgColor,
		TextColor:    tpl.TextColor,
		FontFamily:   tpl.FontFamily,
		ProfilePic:   tpl.ProfilePic,
	})
	return bundle, pic
}
