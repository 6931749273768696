package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateDecision es el resultado de contar una petición al proxy.
// Limit en cero indica que no hubo conteo (limitador ausente o Redis caído).
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter decide si un cliente del proxy puede seguir enviando conversaciones.
type RateLimiter interface {
	Allow(ctx context.Context, clientKey string) RateDecision
}

const defaultRateLimitTimeout = 300 * time.Millisecond

// Devuelve {conteo, pttl}. Una clave sin expiración se repara con la ventana completa.
const proxyRateLimitScript = `
local current = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type proxyRateLimiter struct {
	client  redisEvaler
	window  time.Duration
	limit   int
	timeout time.Duration
}

// NewRedisRateLimiter cuenta peticiones por cliente en una ventana fija compartida entre réplicas.
func NewRedisRateLimiter(client *redis.Client, window time.Duration, limit int) RateLimiter {
	if client == nil {
		return nil
	}
	return newProxyRateLimiter(client, window, limit)
}

func newProxyRateLimiter(client redisEvaler, window time.Duration, limit int) *proxyRateLimiter {
	if window < time.Millisecond {
		window = time.Minute
	}
	if limit <= 0 {
		limit = 1
	}
	return &proxyRateLimiter{
		client:  client,
		window:  window,
		limit:   limit,
		timeout: defaultRateLimitTimeout,
	}
}

// Allow nunca bloquea al cliente por fallas propias: sin clave, sin Redis o con
// una respuesta ilegible la petición pasa.
func (l *proxyRateLimiter) Allow(ctx context.Context, clientKey string) RateDecision {
	if l == nil || l.client == nil || clientKey == "" {
		return RateDecision{Allowed: true}
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	reply, err := l.client.Eval(ctx, proxyRateLimitScript, []string{"proxy:rl:" + clientKey}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(reply) != 2 {
		return RateDecision{Allowed: true}
	}

	count, ttl := int(reply[0]), time.Duration(reply[1])*time.Millisecond
	decision := RateDecision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
	}
	if !decision.Allowed {
		decision.RetryAfter = ttl
	}
	return decision
}
