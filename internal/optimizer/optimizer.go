package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ErrStaleGeneration 表示本次优化在进行期间被更新的请求取代，结果应被丢弃。
var ErrStaleGeneration = errors.New("optimization superseded by a newer request")

// generationStore 是代际栅栏需要的最小 Redis 能力。
type generationStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Service 组合 LLM 客户端与代际栅栏，提供优化与语法检查。
type Service struct {
	client *Client
	rdb    generationStore
}

// NewService 创建优化服务。rdb 为 nil 时不做代际校验。
func NewService(client *Client, rdb generationStore) *Service {
	return &Service{client: client, rdb: rdb}
}

// OptimizationResult 是一次优化的完整产出。
type OptimizationResult struct {
	OriginalScore   int      `json:"originalScore"`
	MatchScore      int      `json:"matchScore"`
	MissingKeywords []string `json:"missingKeywords"`
	OptimizedResume string   `json:"optimizedResume"`
	CommitedChanges []string `json:"commitedChanges"`
}

// GrammarIssue 是语法检查发现的单个问题。
type GrammarIssue struct {
	Original    string `json:"original"`
	Suggestion  string `json:"suggestion"`
	Type        string `json:"type"`
	Explanation string `json:"explanation"`
}

func generationKey(userID uint) string {
	return "optimize_gen:" + strconv.FormatUint(uint64(userID), 10)
}

// Optimize 调用 LLM 改写简历。每次调用推进该用户的代际计数，
// 响应返回后若计数已被更新的请求推进则返回 ErrStaleGeneration。
func (s *Service) Optimize(ctx context.Context, userID uint, candidateProfile, jobDescription string) (*OptimizationResult, error) {
	var gen int64
	if s.rdb != nil {
		var err error
		gen, err = s.rdb.Incr(ctx, generationKey(userID)).Result()
		if err != nil {
			return nil, fmt.Errorf("advance optimization generation: %w", err)
		}
	}

	raw, err := s.client.Chat(ctx, []ChatMessage{
		{Role: "user", Content: optimizePrompt(candidateProfile, jobDescription)},
	}, ChatOptions{Temperature: 0.6, MaxTokens: 4096, JSONMode: true})
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		current, err := s.rdb.Get(ctx, generationKey(userID)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("read optimization generation: %w", err)
		}
		if err == nil && current != gen {
			return nil, ErrStaleGeneration
		}
	}

	var result OptimizationResult
	if err := json.Unmarshal([]byte(CleanJSON(raw)), &result); err != nil {
		return nil, fmt.Errorf("parse optimization result: %w", err)
	}
	if strings.TrimSpace(result.OptimizedResume) == "" {
		return nil, errors.New("optimization result missing resume content")
	}
	return &result, nil
}

// CheckGrammar 调用 LLM 做语法检查。
// 模型输出无法解析时按无问题处理，返回空列表。
func (s *Service) CheckGrammar(ctx context.Context, text string) ([]GrammarIssue, error) {
	raw, err := s.client.Chat(ctx, []ChatMessage{
		{Role: "user", Content: grammarPrompt(text)},
	}, ChatOptions{Temperature: 0.3, MaxTokens: 2048})
	if err != nil {
		return nil, err
	}

	issues := []GrammarIssue{}
	if err := json.Unmarshal([]byte(CleanJSON(raw)), &issues); err != nil {
		return []GrammarIssue{}, nil
	}
	return issues, nil
}

// CleanJSON 去掉模型偶尔带上的 Markdown 代码块围栏。
func CleanJSON(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
