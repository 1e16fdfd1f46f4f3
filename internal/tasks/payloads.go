package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"vibrantResume/internal/resume"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypePDFExport  = "export:pdf"
	TypeDOCXExport = "export:docx"
)

// UserNotifyChannel 返回某用户导出通知的 Redis Pub/Sub 频道名。
// worker 发布、API 的 WebSocket 端订阅，必须保持一致。
func UserNotifyChannel(userID uint) string {
	return fmt.Sprintf("user_notify:%d", userID)
}

// ExportPayload 携带导出任务所需的全部数据。
// 文档内容在入队时快照，之后的编辑不影响本次导出。
type ExportPayload struct {
	UserID        uint            `json:"user_id"`
	CorrelationID string          `json:"correlation_id"`
	Document      resume.Document `json:"document"`
}

// NewPDFExportTask 构造一个 PDF 导出任务。
func NewPDFExportTask(userID uint, correlationID string, doc resume.Document) (*asynq.Task, error) {
	payload, err := json.Marshal(ExportPayload{
		UserID:        userID,
		CorrelationID: correlationID,
		Document:      doc,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePDFExport, payload), nil
}

// NewDOCXExportTask 构造一个 DOCX 导出任务。
func NewDOCXExportTask(userID uint, correlationID string, doc resume.Document) (*asynq.Task, error) {
	payload, err := json.Marshal(ExportPayload{
		UserID:        userID,
		CorrelationID: correlationID,
		Document:      doc,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDOCXExport, payload), nil
}
