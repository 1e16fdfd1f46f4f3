package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"vibrantResume/internal/api/middleware"
	"vibrantResume/internal/errcode"
	"vibrantResume/internal/parser"
)

const maxParseUploadBytes = 10 << 20

// ParseHandler 把上传的简历文件或网页转换成纯文本。
type ParseHandler struct{}

func NewParseHandler() *ParseHandler {
	return &ParseHandler{}
}

// ParseFile 接收 multipart 文件并抽取文本。
func (h *ParseHandler) ParseFile(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if file.Size > maxParseUploadBytes {
		BadRequest(c, "file too large")
		return
	}

	reader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxParseUploadBytes))
	if err != nil {
		Internal(c, "failed to read file")
		return
	}

	text, err := parser.ExtractText(file.Filename, file.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupportedType) {
			ErrorCode(c, http.StatusBadRequest, errcode.UnsupportedFile, "unsupported file type")
			return
		}
		middleware.LoggerFromContext(c).Error("extract text failed",
			slog.String("filename", file.Filename),
			slog.Any("error", err),
		)
		Internal(c, "failed to extract text")
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

type parseURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// ParseURL 抓取网页并还原成纯文本，常用于导入职位描述。
func (h *ParseHandler) ParseURL(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	var req parseURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	parsed, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		BadRequest(c, "invalid url")
		return
	}

	page, err := parser.FetchURL(c.Request.Context(), parsed.String())
	if err != nil {
		middleware.LoggerFromContext(c).Warn("fetch url failed",
			slog.String("url", parsed.String()),
			slog.Any("error", err),
		)
		ErrorCode(c, http.StatusBadGateway, errcode.SystemError, "failed to fetch url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": parser.StripHTML(page)})
}
