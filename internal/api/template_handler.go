package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"vibrantResume/internal/database"
	"vibrantResume/internal/theme"
)

// TemplateHandler 负责自定义模板的增删改查。
type TemplateHandler struct {
	templates *database.TemplateStore
}

func NewTemplateHandler(templates *database.TemplateStore) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type templateRequest struct {
	Name         string            `json:"name" binding:"required,max=255"`
	HeadingColor string            `json:"heading_color"`
	AccentColor  string            `json:"accent_color"`
	BgColor      string            `json:"bg_color"`
	TextColor    string            `json:"text_color"`
	FontFamily   string            `json:"font_family"`
	ProfilePic   *theme.ProfilePic `json:"profile_pic"`
}

type templateResponse struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	HeadingColor string            `json:"heading_color"`
	AccentColor  string            `json:"accent_color"`
	BgColor      string            `json:"bg_color"`
	TextColor    string            `json:"text_color"`
	FontFamily   string            `json:"font_family"`
	ProfilePic   *theme.ProfilePic `json:"profile_pic,omitempty"`
}

// POST /v1/templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	model, err := templateModel(userID, req)
	if err != nil {
		Internal(c, "failed to encode template")
		return
	}
	if err := h.templates.Create(c.Request.Context(), model); err != nil {
		Internal(c, "failed to create template")
		return
	}
	c.JSON(http.StatusCreated, newTemplateResponse(*model))
}

// GET /v1/templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	templates, err := h.templates.List(c.Request.Context(), userID)
	if err != nil {
		Internal(c, "failed to list templates")
		return
	}

	items := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		items = append(items, newTemplateResponse(t))
	}
	c.JSON(http.StatusOK, items)
}

// GET /v1/templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	id, err := parseTemplateID(c)
	if err != nil {
		BadRequest(c, "invalid template id")
		return
	}

	model, err := h.templates.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			NotFound(c, "template not found")
			return
		}
		Internal(c, "failed to query template")
		return
	}
	c.JSON(http.StatusOK, newTemplateResponse(*model))
}

// PUT /v1/templates/:id
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	id, err := parseTemplateID(c)
	if err != nil {
		BadRequest(c, "invalid template id")
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	model, err := h.templates.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			NotFound(c, "template not found")
			return
		}
		Internal(c, "failed to query template")
		return
	}

	updated, err := templateModel(userID, req)
	if err != nil {
		Internal(c, "failed to encode template")
		return
	}
	updated.ID = model.ID
	updated.CreatedAt = model.CreatedAt
	if err := h.templates.Update(ctx, updated); err != nil {
		Internal(c, "failed to update template")
		return
	}
	c.JSON(http.StatusOK, newTemplateResponse(*updated))
}

// DELETE /v1/templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	id, err := parseTemplateID(c)
	if err != nil {
		BadRequest(c, "invalid template id")
		return
	}

	if err := h.templates.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			NotFound(c, "template not found")
			return
		}
		Internal(c, "failed to delete template")
		return
	}
	c.Status(http.StatusNoContent)
}

func parseTemplateID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid template id")
	}
	return uint(id), nil
}

func templateModel(userID uint, req templateRequest) (*database.CustomTemplate, error) {
	model := &database.CustomTemplate{
		UserID:       userID,
		Name:         req.Name,
		HeadingColor: req.HeadingColor,
		AccentColor:  req.AccentColor,
		BgColor:      req.BgColor,
		TextColor:    req.TextColor,
		FontFamily:   req.FontFamily,
	}
	if req.ProfilePic != nil {
		data, err := json.Marshal(req.ProfilePic)
		if err != nil {
			return nil, err
		}
		model.ProfilePic = datatypes.JSON(data)
	}
	return model, nil
}

func newTemplateResponse(t database.CustomTemplate) templateResponse {
	resp := templateResponse{
		ID:           t.ID,
		Name:         t.Name,
		HeadingColor: t.HeadingColor,
		AccentColor:  t.AccentColor,
		BgColor:      t.BgColor,
		TextColor:    t.TextColor,
		FontFamily:   t.FontFamily,
	}
	if len(t.ProfilePic) > 0 {
		var pic theme.ProfilePic
		if json.Unmarshal(t.ProfilePic, &pic) == nil {
			resp.ProfilePic = &pic
		}
	}
	return resp
}
