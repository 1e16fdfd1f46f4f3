package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：业务可恢复/告警类错误（例如历史已满需要确认后重试）
// - 5xxx：系统错误（需要中断流程）
const (
	OK              = 0
	HistoryFull     = 4001
	UnsupportedFile = 4002
	ResourceMissing = 4004
	LLMUnavailable  = 4005
	SystemError     = 5000
)
