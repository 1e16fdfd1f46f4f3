package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"vibrantResume/internal/config"
	"vibrantResume/internal/optimizer"
)

type fakeRateCounter struct {
	counts  map[string]int64
	preload int64
}

func newFakeRateCounter() *fakeRateCounter {
	return &fakeRateCounter{counts: map[string]int64{}}
}

func (f *fakeRateCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	return redis.NewIntResult(f.counts[key]+f.preload, nil)
}

func (f *fakeRateCounter) Expire(ctx context.Context, key string, _ time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func newOptimizeTestHandler(t *testing.T, llmResponse string) (*OptimizeHandler, *fakeRateCounter) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": llmResponse}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	client := optimizer.NewClient(config.LLMConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
	counter := newFakeRateCounter()
	return NewOptimizeHandler(optimizer.NewService(client, nil), counter), counter
}

func TestOptimizeReturnsParsedResult(t *testing.T) {
	h, _ := newOptimizeTestHandler(t, `{"originalScore":55,"matchScore":88,"missingKeywords":["Go"],"optimizedResume":"# Jane","commitedChanges":["added Go"]}`)

	c, w := jsonContext(t, http.MethodPost, "/v1/optimize", optimizeRequest{
		Resume:         "# Jane",
		JobDescription: "Go developer",
	})
	h.Optimize(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var result optimizer.OptimizationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.MatchScore != 88 || result.OptimizedResume != "# Jane" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestOptimizeBadGatewayOnMalformedResponse(t *testing.T) {
	h, _ := newOptimizeTestHandler(t, "not json at all")

	c, w := jsonContext(t, http.MethodPost, "/v1/optimize", optimizeRequest{
		Resume:         "# Jane",
		JobDescription: "Go developer",
	})
	h.Optimize(c)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != 4005 {
		t.Fatalf("expected llm error code, got %d", resp.Code)
	}
}

func TestOptimizeRateLimited(t *testing.T) {
	h, counter := newOptimizeTestHandler(t, `{"optimizedResume":"# Jane"}`)
	counter.preload = optimizeRateLimitPerHour

	c, w := jsonContext(t, http.MethodPost, "/v1/optimize", optimizeRequest{
		Resume:         "# Jane",
		JobDescription: "Go developer",
	})
	h.Optimize(c)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestCheckGrammarDegradesToEmptyList(t *testing.T) {
	h, _ := newOptimizeTestHandler(t, "garbage output")

	c, w := jsonContext(t, http.MethodPost, "/v1/grammar", grammarRequest{Text: "She have experience."})
	h.CheckGrammar(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Issues []optimizer.GrammarIssue `json:"issues"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Issues) != 0 {
		t.Fatalf("expected empty issue list, got %+v", resp.Issues)
	}
}
