package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"gitgpt/internal/llm"
	"gitgpt/internal/service"
)

type mockUpstream struct {
	body []byte
	err  error
	last []llm.ChatMessage
}

func (m *mockUpstream) Forward(_ context.Context, messages []llm.ChatMessage) ([]byte, error) {
	m.last = messages
	return m.body, m.err
}

type mockLimiter struct {
	decision service.RateDecision
	lastKey  string
	lastCtx  context.Context
}

func (m *mockLimiter) Allow(ctx context.Context, key string) service.RateDecision {
	m.lastCtx = ctx
	m.lastKey = key
	return m.decision
}

func TestProxyHandlerChat_ForwardsVerbatim(t *testing.T) {
	const upstreamBody = `{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hi"}}]}`
	up := &mockUpstream{body: []byte(upstreamBody)}
	r := setupRouter(&llm.MockClient{}, up, nil)

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": "hola"},
			{"role": "assistant", "content": "[CODE_BLOCK_0]"},
			{"role": "user", "content": "otra"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != upstreamBody {
		t.Fatalf("expected verbatim body, got %s", rec.Body.String())
	}
	if len(up.last) != 3 || up.last[2].Content != "otra" {
		t.Fatalf("unexpected forwarded messages %+v", up.last)
	}
}

func TestProxyHandlerChat_UpstreamFailure(t *testing.T) {
	r := setupRouter(&llm.MockClient{}, &mockUpstream{err: errors.New("llm http error: status=401")}, nil)

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hola"}},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Body.String() != proxyFailureText {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain, got %q", ct)
	}
}

func TestProxyHandlerChat_InvalidRequest(t *testing.T) {
	up := &mockUpstream{body: []byte(`{}`)}
	r := setupRouter(&llm.MockClient{}, up, nil)

	cases := map[string]any{
		"sin mensajes": map[string]any{},
		"lista vacia":  map[string]any{"messages": []map[string]string{}},
		"rol invalido": map[string]any{"messages": []map[string]string{{"role": "system", "content": "x"}}},
		"rol ausente":  map[string]any{"messages": []map[string]string{{"content": "x"}}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := performRequest(r, http.MethodPost, "/api/chat", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
	if up.last != nil {
		t.Fatalf("upstream must not be called for invalid requests")
	}
}

func TestProxyHandlerChat_RateLimited(t *testing.T) {
	up := &mockUpstream{body: []byte(`{}`)}
	limiter := &mockLimiter{decision: service.RateDecision{Limit: 30, RetryAfter: 12300 * time.Millisecond}}
	r := setupRouter(&llm.MockClient{}, up, limiter)

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hola"}},
	})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if limiter.lastKey == "" {
		t.Fatalf("expected client ip as limiter key")
	}
	if limiter.lastCtx == nil {
		t.Fatalf("expected request context to reach the limiter")
	}
	if got := rec.Header().Get("Retry-After"); got != "13" {
		t.Fatalf("expected Retry-After rounded up to 13, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected remaining 0, got %q", got)
	}
	if up.last != nil {
		t.Fatalf("upstream must not be called when rate limited")
	}
}

func TestProxyHandlerChat_RateLimitHeaders(t *testing.T) {
	t.Run("dentro del limite", func(t *testing.T) {
		up := &mockUpstream{body: []byte(`{}`)}
		limiter := &mockLimiter{decision: service.RateDecision{Allowed: true, Limit: 30, Remaining: 29}}
		r := setupRouter(&llm.MockClient{}, up, limiter)

		rec := performRequest(r, http.MethodPost, "/api/chat", map[string]any{
			"messages": []map[string]string{{"role": "user", "content": "hola"}},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "30" || rec.Header().Get("X-RateLimit-Remaining") != "29" {
			t.Fatalf("unexpected rate limit headers %v", rec.Header())
		}
		if rec.Header().Get("Retry-After") != "" {
			t.Fatalf("Retry-After only belongs on 429")
		}
	})

	t.Run("sin conteo", func(t *testing.T) {
		up := &mockUpstream{body: []byte(`{}`)}
		r := setupRouter(&llm.MockClient{}, up, &mockLimiter{decision: service.RateDecision{Allowed: true}})

		rec := performRequest(r, http.MethodPost, "/api/chat", map[string]any{
			"messages": []map[string]string{{"role": "user", "content": "hola"}},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 when the limiter fails open, got %d", rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "" {
			t.Fatalf("no headers expected without a count")
		}
	})

	t.Run("retry after minimo", func(t *testing.T) {
		if got := retryAfterSeconds(0); got != 1 {
			t.Fatalf("expected at least one second, got %d", got)
		}
	})
}
