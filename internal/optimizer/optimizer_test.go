package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/redis/go-redis/v9"
)

type fakeGenerationStore struct {
	counter int64
	current int64
}

func (f *fakeGenerationStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counter++
	if f.current == 0 {
		f.current = f.counter
	}
	return redis.NewIntResult(f.counter, nil)
}

func (f *fakeGenerationStore) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult(strconv.FormatInt(f.current, 10), nil)
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(url string) *Client {
	return &Client{
		BaseURL:    url,
		APIKey:     "test-key",
		Model:      "llama-3.3-70b-versatile",
		MaxTokens:  4096,
		HTTPClient: http.DefaultClient,
	}
}

func TestOptimizeParsesResult(t *testing.T) {
	payload := `{"originalScore":55,"matchScore":88,"missingKeywords":["Go","gRPC"],"optimizedResume":"# Jane Doe\n\n## Summary","commitedChanges":["Rewrote summary"]}`
	srv := chatServer(t, payload)
	defer srv.Close()

	svc := NewService(newTestClient(srv.URL), &fakeGenerationStore{})
	result, err := svc.Optimize(context.Background(), 1, "profile", "jd")
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if result.MatchScore != 88 || result.OriginalScore != 55 {
		t.Fatalf("scores = %d/%d, want 88/55", result.MatchScore, result.OriginalScore)
	}
	if len(result.MissingKeywords) != 2 {
		t.Fatalf("missing keywords = %v", result.MissingKeywords)
	}
	if result.OptimizedResume == "" {
		t.Fatal("optimized resume empty")
	}
}

func TestOptimizeStaleGenerationDiscarded(t *testing.T) {
	payload := `{"originalScore":50,"matchScore":80,"optimizedResume":"# X"}`
	srv := chatServer(t, payload)
	defer srv.Close()

	store := &fakeGenerationStore{current: 7}
	svc := NewService(newTestClient(srv.URL), store)
	_, err := svc.Optimize(context.Background(), 1, "profile", "jd")
	if !errors.Is(err, ErrStaleGeneration) {
		t.Fatalf("err = %v, want ErrStaleGeneration", err)
	}
}

func TestOptimizeRejectsEmptyResume(t *testing.T) {
	srv := chatServer(t, `{"originalScore":50,"matchScore":80,"optimizedResume":"  "}`)
	defer srv.Close()

	svc := NewService(newTestClient(srv.URL), nil)
	if _, err := svc.Optimize(context.Background(), 1, "profile", "jd"); err == nil {
		t.Fatal("blank resume content should be rejected")
	}
}

func TestCheckGrammarStripsFences(t *testing.T) {
	srv := chatServer(t, "```json\n[{\"original\":\"teh\",\"suggestion\":\"the\",\"type\":\"spelling\",\"explanation\":\"Typo.\"}]\n```")
	defer srv.Close()

	svc := NewService(newTestClient(srv.URL), nil)
	issues, err := svc.CheckGrammar(context.Background(), "teh resume")
	if err != nil {
		t.Fatalf("check grammar: %v", err)
	}
	if len(issues) != 1 || issues[0].Type != "spelling" {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestCheckGrammarUnparsableMeansNoIssues(t *testing.T) {
	srv := chatServer(t, "The text looks fine to me!")
	defer srv.Close()

	svc := NewService(newTestClient(srv.URL), nil)
	issues, err := svc.CheckGrammar(context.Background(), "clean text")
	if err != nil {
		t.Fatalf("check grammar: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("issues = %+v, want none", issues)
	}
}

func TestCleanJSON(t *testing.T) {
	in := "```json\n{\"a\":1}\n```"
	if got := CleanJSON(in); got != `{"a":1}` {
		t.Fatalf("CleanJSON = %q", got)
	}
	if got := CleanJSON("  {\"a\":1} "); got != `{"a":1}` {
		t.Fatalf("CleanJSON = %q", got)
	}
}
