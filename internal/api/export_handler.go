package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"vibrantResume/internal/api/middleware"
	"vibrantResume/internal/resume"
	"vibrantResume/internal/tasks"
)

// ExportHandler 把导出任务入队并立即返回 202。
// 实际渲染由 worker 完成，结果通过 WebSocket 通知。
type ExportHandler struct {
	asynqClient *asynq.Client
	maxRetry    int
}

// NewExportHandler 构造导出处理器。
func NewExportHandler(asynqClient *asynq.Client, maxRetry int) *ExportHandler {
	return &ExportHandler{asynqClient: asynqClient, maxRetry: maxRetry}
}

// ExportPDF 入队 PDF 导出任务。
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	h.enqueue(c, tasks.NewPDFExportTask)
}

// ExportDOCX 入队 DOCX 导出任务。
func (h *ExportHandler) ExportDOCX(c *gin.Context) {
	h.enqueue(c, tasks.NewDOCXExportTask)
}

// enqueue 以请求体中的文档为快照入队，入队后的编辑不影响本次导出。
func (h *ExportHandler) enqueue(c *gin.Context, newTask func(uint, string, resume.Document) (*asynq.Task, error)) {
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

	correlationID := middleware.GetCorrelationID(c)
	task, err := newTask(userID, correlationID, doc)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(h.maxRetry))
	if err != nil {
		middleware.LoggerFromContext(c).Error("enqueue export task failed", slog.Any("error", err))
		Internal(c, "failed to enqueue export")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":        "export request accepted",
		"task_id":        info.ID,
		"correlation_id": correlationID,
	})
}
