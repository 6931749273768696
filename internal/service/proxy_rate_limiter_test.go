package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRateEvaler struct {
	calls    int
	lastCtx  context.Context
	lastKeys []string
	lastArgs []interface{}
	reply    interface{}
	err      error
}

func (f *fakeRateEvaler) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	f.calls++
	f.lastCtx = ctx
	f.lastKeys = keys
	f.lastArgs = args
	cmd := redis.NewCmd(ctx)
	switch {
	case ctx.Err() != nil:
		cmd.SetErr(ctx.Err())
	case f.err != nil:
		cmd.SetErr(f.err)
	default:
		cmd.SetVal(f.reply)
	}
	return cmd
}

func counted(count, pttlMillis int64) []interface{} {
	return []interface{}{count, pttlMillis}
}

func TestProxyRateLimiter_CountsPerClient(t *testing.T) {
	fake := &fakeRateEvaler{reply: counted(3, 42000)}
	l := newProxyRateLimiter(fake, time.Minute, 5)

	got := l.Allow(context.Background(), "2001:DB8::1")
	if !got.Allowed || got.Limit != 5 || got.Remaining != 2 || got.RetryAfter != 0 {
		t.Fatalf("unexpected decision %+v", got)
	}
	if len(fake.lastKeys) != 1 || fake.lastKeys[0] != "proxy:rl:2001:DB8::1" {
		t.Fatalf("client key must be used as given, got %v", fake.lastKeys)
	}
	if len(fake.lastArgs) != 1 || fake.lastArgs[0] != int64(60000) {
		t.Fatalf("expected window in milliseconds, got %v", fake.lastArgs)
	}
}

func TestProxyRateLimiter_OverLimitReportsRetryAfter(t *testing.T) {
	l := newProxyRateLimiter(&fakeRateEvaler{reply: counted(6, 12500)}, time.Minute, 5)

	got := l.Allow(context.Background(), "10.0.0.7")
	if got.Allowed {
		t.Fatalf("expected deny past the limit")
	}
	if got.Remaining != 0 {
		t.Fatalf("remaining must not go negative, got %d", got.Remaining)
	}
	if got.RetryAfter != 12500*time.Millisecond {
		t.Fatalf("expected retry after from key ttl, got %v", got.RetryAfter)
	}
}

func TestProxyRateLimiter_FailsOpen(t *testing.T) {
	cases := []struct {
		name      string
		fake      *fakeRateEvaler
		key       string
		wantCalls int
	}{
		{name: "sin ip de cliente", fake: &fakeRateEvaler{reply: counted(99, 1000)}, key: "", wantCalls: 0},
		{name: "redis caido", fake: &fakeRateEvaler{err: errors.New("connection refused")}, key: "10.0.0.7", wantCalls: 1},
		{name: "respuesta ilegible", fake: &fakeRateEvaler{reply: int64(7)}, key: "10.0.0.7", wantCalls: 1},
		{name: "respuesta incompleta", fake: &fakeRateEvaler{reply: []interface{}{int64(7)}}, key: "10.0.0.7", wantCalls: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newProxyRateLimiter(tc.fake, time.Minute, 1)
			got := l.Allow(context.Background(), tc.key)
			if !got.Allowed || got.Limit != 0 {
				t.Fatalf("expected uncounted pass, got %+v", got)
			}
			if tc.fake.calls != tc.wantCalls {
				t.Fatalf("expected %d redis calls, got %d", tc.wantCalls, tc.fake.calls)
			}
		})
	}

	t.Run("limitador nil", func(t *testing.T) {
		var l *proxyRateLimiter
		if !l.Allow(context.Background(), "10.0.0.7").Allowed {
			t.Fatalf("expected nil limiter to pass")
		}
	})
}

func TestProxyRateLimiter_UsesRequestContext(t *testing.T) {
	fake := &fakeRateEvaler{reply: counted(1, 60000)}
	l := newProxyRateLimiter(fake, time.Minute, 5)

	ctx, cancel := context.WithCancel(context.Background())
	l.Allow(ctx, "10.0.0.7")
	if _, ok := fake.lastCtx.Deadline(); !ok {
		t.Fatalf("expected a bounded redis call")
	}

	cancel()
	got := l.Allow(ctx, "10.0.0.7")
	if !errors.Is(fake.lastCtx.Err(), context.Canceled) {
		t.Fatalf("expected redis call to inherit request cancellation, got %v", fake.lastCtx.Err())
	}
	if !got.Allowed {
		t.Fatalf("a cancelled request must not be counted as over the limit")
	}
}

func TestNewRedisRateLimiter_Defaults(t *testing.T) {
	if NewRedisRateLimiter(nil, time.Minute, 3) != nil {
		t.Fatalf("expected nil limiter without redis client")
	}
	l := newProxyRateLimiter(&fakeRateEvaler{}, 0, 0)
	if l.window != time.Minute || l.limit != 1 || l.timeout != defaultRateLimitTimeout {
		t.Fatalf("unexpected defaults %+v", l)
	}
}
