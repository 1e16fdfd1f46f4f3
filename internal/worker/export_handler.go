package worker

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"vibrantResume/internal/database"
	"vibrantResume/internal/docx"
	"vibrantResume/internal/errcode"
	"vibrantResume/internal/pdf"
	"vibrantResume/internal/render"
	"vibrantResume/internal/storage"
	"vibrantResume/internal/tasks"
	"vibrantResume/internal/theme"
)

const (
	downloadURLTTL  = 24 * time.Hour
	picFetchTimeout = 10 * time.Second

	pdfContentType  = "application/pdf"
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExportHandler 消费简历导出任务，生成 PDF/DOCX 并上传到对象存储。
// 完成或最终失败时通过 Redis Pub/Sub 通知前端。
type ExportHandler struct {
	templates   *database.TemplateStore
	storage     *storage.Client
	redisClient *redis.Client
	logger      *slog.Logger
	picClient   *http.Client
}

// NewExportHandler 创建任务处理器。
func NewExportHandler(
	templates *database.TemplateStore,
	storageClient *storage.Client,
	redisClient *redis.Client,
	logger *slog.Logger,
) *ExportHandler {
	return &ExportHandler{
		templates:   templates,
		storage:     storageClient,
		redisClient: redisClient,
		logger:      logger,
		picClient:   &http.Client{Timeout: picFetchTimeout},
	}
}

// ProcessTask 实现 asynq.Handler，按任务类型分派到对应的导出流程。
func (h *ExportHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	var payload tasks.ExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal export payload failed", slog.Any("error", err))
		return err
	}

	format := "pdf"
	if t.Type() == tasks.TypeDOCXExport {
		format = "docx"
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("user_id", uint64(payload.UserID)),
		slog.String("format", format),
	)
	log.Info("starting resume export task")

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}
		notify := ExportNotifyMessage{
			Status:        "error",
			Format:        format,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publishExportNotify(ctx, payload.UserID, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	bundle, pic := h.resolveTheme(ctx, payload.UserID, payload.Document.Theme)

	var (
		fileBytes []byte
		err       error
	)
	switch format {
	case "docx":
		fileBytes, err = h.buildDOCX(ctx, payload, bundle, pic, log)
	default:
		fileBytes, err = h.buildPDF(payload, bundle, pic)
	}
	if err != nil {
		log.Error("build export file failed", slog.Any("error", err))
		return err
	}

	objectKey := storage.ExportKey(payload.UserID, uuid.NewString()+"."+format)
	contentType := pdfContentType
	if format == "docx" {
		contentType = docxContentType
	}
	if _, err := h.storage.UploadFile(ctx, objectKey, bytes.NewReader(fileBytes), int64(len(fileBytes)), contentType); err != nil {
		log.Error("upload export file failed", slog.Any("error", err))
		return err
	}

	downloadURL, err := h.storage.GeneratePresignedURLWithParams(ctx, objectKey, downloadURLTTL, map[string]string{
		"response-content-disposition": fmt.Sprintf(`attachment; filename="resume.%s"`, format),
	})
	if err != nil {
		log.Error("presign export download failed", slog.Any("error", err))
		return err
	}

	notify := ExportNotifyMessage{
		Status:        "completed",
		Format:        format,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
		DownloadURL:   downloadURL,
	}
	if err := h.publishExportNotify(ctx, payload.UserID, notify); err != nil {
		log.Error("publish export notification failed", slog.Any("error", err))
		return err
	}

	log.Info("resume export task completed", slog.String("object_key", objectKey))
	return nil
}

func (h *ExportHandler) buildPDF(payload tasks.ExportPayload, bundle theme.Bundle, pic *theme.ProfilePic) ([]byte, error) {
	html, err := render.Print(render.Input{Doc: payload.Document, Bundle: bundle, Pic: pic})
	if err != nil {
		return nil, fmt.Errorf("render print html: %w", err)
	}
	return pdf.GeneratePDFFromHTML(html)
}

func (h *ExportHandler) buildDOCX(ctx context.Context, payload tasks.ExportPayload, bundle theme.Bundle, pic *theme.ProfilePic, log *slog.Logger) ([]byte, error) {
	var picData []byte
	if pic != nil && pic.URL != "" {
		data, err := h.fetchImage(ctx, pic.URL)
		if err != nil {
			// 头像拉取失败只降级为无图导出。
			log.Warn("fetch profile picture failed", slog.Any("error", err))
		} else {
			picData = data
		}
	}
	return docx.Build(docx.Input{Doc: payload.Document, Bundle: bundle, Pic: pic, PicData: picData})
}

// resolveTheme 将文档的主题标识解析成样式包。
// 非内置标识按自定义模板 ID 处理，查不到时回退默认主题。
func (h *ExportHandler) resolveTheme(ctx context.Context, userID uint, name string) (theme.Bundle, *theme.ProfilePic) {
	if name == "" || theme.IsBuiltin(name) {
		return theme.Resolve(name, nil), nil
	}

	id, err := strconv.ParseUint(name, 10, 32)
	if err != nil {
		return theme.Resolve(theme.DefaultTheme, nil), nil
	}
	tpl, err := h.templates.Get(ctx, userID, uint(id))
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

// fetchImage 支持 data URI 与 http(s) 两种头像来源。
func (h *ExportHandler) fetchImage(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "data:") {
		idx := strings.Index(url, "base64,")
		if idx < 0 {
			return nil, fmt.Errorf("unsupported data uri encoding")
		}
		return base64.StdEncoding.DecodeString(url[idx+len("base64,"):])
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.picClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}

func (h *ExportHandler) publishExportNotify(ctx context.Context, userID uint, notify ExportNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := tasks.UserNotifyChannel(userID)
	if err := h.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
