package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vibrantResume/internal/api/middleware"
	"vibrantResume/internal/errcode"
	"vibrantResume/internal/optimizer"
)

const optimizeRateLimitPerHour = 30

// OptimizeHandler 把优化与语法检查请求代理到 LLM。
type OptimizeHandler struct {
	service *optimizer.Service
	redis   redisRateCounter
}

// NewOptimizeHandler 构造 LLM 代理处理器。
func NewOptimizeHandler(service *optimizer.Service, redisClient redisRateCounter) *OptimizeHandler {
	return &OptimizeHandler{service: service, redis: redisClient}
}

type optimizeRequest struct {
	Resume         string `json:"resume" binding:"required"`
	JobDescription string `json:"job_description" binding:"required"`
}

// Optimize 调用 LLM 针对目标 JD 重写简历。
// 同一用户的新请求会使未完成的旧请求结果作废。
func (h *OptimizeHandler) Optimize(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.Uint64("user_id", uint64(userID)))

	// 速率限制：每用户每小时 30 次
	rateKey := hourlyRateKey("optimize", strconv.FormatUint(uint64(userID), 10))
	if count, err := incrWithTTL(ctx, h.redis, rateKey, time.Hour); err == nil && count > optimizeRateLimitPerHour {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	result, err := h.service.Optimize(ctx, userID, req.Resume, req.JobDescription)
	if err != nil {
		if errors.Is(err, optimizer.ErrStaleGeneration) {
			logger.Info("optimize result superseded by a newer request")
			Conflict(c, "superseded by a newer request")
			return
		}
		logger.Error("optimize failed", slog.Any("error", err))
		ErrorCode(c, http.StatusBadGateway, errcode.LLMUnavailable, "optimization service unavailable")
		return
	}

	c.JSON(http.StatusOK, result)
}

type grammarRequest struct {
	Text string `json:"text" binding:"required"`
}

// CheckGrammar 返回语法问题列表，解析失败时返回空列表。
func (h *OptimizeHandler) CheckGrammar(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req grammarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.Uint64("user_id", uint64(userID)))

	rateKey := hourlyRateKey("grammar", strconv.FormatUint(uint64(userID), 10))
	if count, err := incrWithTTL(ctx, h.redis, rateKey, time.Hour); err == nil && count > optimizeRateLimitPerHour {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	issues, err := h.service.CheckGrammar(ctx, req.Text)
	if err != nil {
		logger.Error("grammar check failed", slog.Any("error", err))
		ErrorCode(c, http.StatusBadGateway, errcode.LLMUnavailable, "grammar service unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues})
}
