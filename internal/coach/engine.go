// Package coach reviews learners' prompts with an AI model and suggests
// improvements.
package coach

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/p-n-ai/pai-academy/internal/ai"
	"github.com/p-n-ai/pai-academy/internal/analytics"
	"github.com/p-n-ai/pai-academy/internal/platform/cache"
	"github.com/p-n-ai/pai-academy/internal/platform/metrics"
	"github.com/p-n-ai/pai-academy/internal/tokens"
)

const (
	defaultCacheTTL        = time.Hour
	defaultMaxPromptTokens = 2000
	completionMaxTokens    = 512
)

// FallbackFeedback is returned when no AI provider could answer.
const FallbackFeedback = "프롬프트 분석 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."

// Analysis outcomes, also used as metric labels.
const (
	SourceAI       = "ai"
	SourceCached   = "cached"
	SourceFallback = "fallback"
	SourceBudget   = "budget"
)

var (
	ErrEmptyPrompt    = errors.New("prompt is empty")
	ErrPromptTooLong  = errors.New("prompt is too long")
	ErrBudgetExceeded = errors.New("daily AI budget exceeded")
)

// EngineConfig holds dependencies for the coach engine.
type EngineConfig struct {
	AIRouter        *ai.Router
	Cache           cache.Store
	CacheTTL        time.Duration
	Budget          ai.BudgetChecker
	Events          analytics.EventLogger
	Metrics         *metrics.Metrics
	MaxPromptTokens int // estimated tokens above which prompts are rejected (default 2000)
}

// Engine analyzes prompts.
type Engine struct {
	aiRouter        *ai.Router
	cache           cache.Store
	cacheTTL        time.Duration
	budget          ai.BudgetChecker
	events          analytics.EventLogger
	metrics         *metrics.Metrics
	maxPromptTokens int
}

// Analysis is the coach's answer for one prompt.
type Analysis struct {
	Feedback         string `json:"feedback"`
	Compressed       string `json:"compressed"`
	OriginalTokens   int    `json:"originalTokens"`
	CompressedTokens int    `json:"compressedTokens"`
	Source           string `json:"source"`
}

// NewEngine creates a new coach engine.
func NewEngine(cfg EngineConfig) *Engine {
	router := cfg.AIRouter
	if router == nil {
		router = ai.NewRouter()
	}
	c := cfg.Cache
	if c == nil {
		c = cache.NewMemory()
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	budget := cfg.Budget
	if budget == nil {
		budget = ai.NewInMemoryBudget(0)
	}
	events := cfg.Events
	if events == nil {
		events = analytics.NopEventLogger{}
	}
	maxTokens := cfg.MaxPromptTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxPromptTokens
	}
	return &Engine{
		aiRouter:        router,
		cache:           c,
		cacheTTL:        ttl,
		budget:          budget,
		events:          events,
		metrics:         cfg.Metrics,
		maxPromptTokens: maxTokens,
	}
}

// Analyze reviews prompt for userID. AI failures are not errors: the
// analysis carries FallbackFeedback instead. Errors are returned only for
// invalid input and exhausted budgets.
func (e *Engine) Analyze(ctx context.Context, userID, prompt string) (Analysis, error) {
	prompt, err := e.prepare(prompt)
	if err != nil {
		return Analysis{}, err
	}

	result := Analysis{Compressed: tokens.Compress(prompt)}
	result.OriginalTokens, result.CompressedTokens = tokens.Savings(prompt)

	slog.Info("analyzing prompt",
		"user_id", userID,
		"tokens", result.OriginalTokens,
	)

	text, source, err := e.complete(ctx, userID, ai.TaskPromptAnalysis, analysisSystemPrompt, prompt)
	if err != nil {
		e.metrics.PromptAnalyzed(SourceBudget)
		return Analysis{}, err
	}
	result.Feedback, result.Source = text, source
	if source == SourceFallback {
		result.Feedback = FallbackFeedback
	}

	e.metrics.PromptAnalyzed(result.Source)
	analytics.Log(ctx, e.events, userID, analytics.PromptAnalyzed, map[string]any{
		"source":            result.Source,
		"original_tokens":   result.OriginalTokens,
		"compressed_tokens": result.CompressedTokens,
	})
	return result, nil
}

// Rewrite is an improved version of a learner's prompt.
type Rewrite struct {
	Original        string `json:"original"`
	Prompt          string `json:"prompt"`
	OriginalTokens  int    `json:"originalTokens"`
	RewrittenTokens int    `json:"rewrittenTokens"`
	Source          string `json:"source"`
}

// Rewrite asks the model for a better version of prompt. When no provider
// answers, the locally compressed prompt is returned with SourceFallback.
func (e *Engine) Rewrite(ctx context.Context, userID, prompt string) (Rewrite, error) {
	prompt, err := e.prepare(prompt)
	if err != nil {
		return Rewrite{}, err
	}

	text, source, err := e.complete(ctx, userID, ai.TaskPromptRewrite, rewriteSystemPrompt, prompt)
	if err != nil {
		e.metrics.PromptRewritten(SourceBudget)
		return Rewrite{}, err
	}
	if source == SourceFallback {
		text = tokens.Compress(prompt)
	}

	result := Rewrite{
		Original:        prompt,
		Prompt:          tokens.Normalize(text),
		OriginalTokens:  tokens.Estimate(prompt),
		RewrittenTokens: tokens.Estimate(text),
		Source:          source,
	}
	e.metrics.PromptRewritten(source)
	analytics.Log(ctx, e.events, userID, analytics.PromptRewritten, map[string]any{
		"source":           source,
		"original_tokens":  result.OriginalTokens,
		"rewritten_tokens": result.RewrittenTokens,
	})
	return result, nil
}

// prepare normalizes prompt and enforces the size limit.
func (e *Engine) prepare(prompt string) (string, error) {
	prompt = tokens.Normalize(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	if n := tokens.Estimate(prompt); n > e.maxPromptTokens {
		return "", fmt.Errorf("%w: %d tokens (max %d)", ErrPromptTooLong, n, e.maxPromptTokens)
	}
	return prompt, nil
}

// complete answers prompt for task from the cache or the AI router. Only an
// exhausted budget is an error; a router failure yields SourceFallback with
// empty text.
func (e *Engine) complete(ctx context.Context, userID string, task ai.TaskType, system, prompt string) (string, string, error) {
	key := cacheKey(task, prompt)
	if cached, ok := e.lookup(ctx, key); ok {
		return cached, SourceCached, nil
	}

	ok, err := e.budget.Check(ctx, userID)
	if err != nil {
		slog.Warn("budget check failed, allowing request", "user_id", userID, "error", err)
		ok = true
	}
	if !ok {
		return "", "", ErrBudgetExceeded
	}

	resp, err := e.aiRouter.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Task:      task,
		MaxTokens: completionMaxTokens,
	})
	if err != nil {
		slog.Error("AI completion failed", "user_id", userID, "task", task.String(), "error", err)
		return "", SourceFallback, nil
	}

	if err := e.budget.Record(ctx, userID, resp.TotalTokens()); err != nil {
		slog.Warn("failed to record token usage", "user_id", userID, "error", err)
	}
	if err := e.cache.Set(ctx, key, resp.Content, e.cacheTTL); err != nil {
		slog.Warn("failed to cache completion", "task", task.String(), "error", err)
	}
	return resp.Content, SourceAI, nil
}

func (e *Engine) lookup(ctx context.Context, key string) (string, bool) {
	v, err := e.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("analysis cache read failed", "error", err)
		}
		return "", false
	}
	return v, true
}

// cacheKey derives the cache key from the task and normalized prompt.
func cacheKey(task ai.TaskType, prompt string) string {
	sum := blake2b.Sum256([]byte(prompt))
	return "coach:" + task.String() + ":" + hex.EncodeToString(sum[:])
}

const analysisSystemPrompt = `너는 P&AI 아카데미의 프롬프트 코치야. 학생이 AI에게 보낼 프롬프트를 검토해.

다음 네 가지 기준으로 평가해:
- 역할(Role): AI에게 어떤 역할을 맡겼는가
- 맥락(Context): 배경 정보가 충분한가
- 행동(Action): 원하는 결과가 구체적인가
- 형식(Format): 답변 형식을 지정했는가

규칙:
- 학생의 눈높이에 맞춰 친절하고 짧게 설명해
- 잘한 점 한 가지와 고칠 점 두 가지 이내로 말해
- 마지막에 개선된 프롬프트 예시를 한 줄로 보여 줘
- 학생이 쓴 언어로 답해`

const rewriteSystemPrompt = `너는 P&AI 아카데미의 프롬프트 코치야. 학생이 쓴 프롬프트를 더 좋은 프롬프트로 다시 써 줘.

규칙:
- 역할, 맥락, 행동, 형식이 모두 드러나게 써
- 학생의 원래 의도를 바꾸지 마
- 설명 없이 다시 쓴 프롬프트만 출력해
- 학생이 쓴 언어로 써`
