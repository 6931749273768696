package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio y del cliente de terminal.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8081"`

	// Endpoint al que el requester envía la conversación (normalmente el proxy /api/chat).
	CompletionURL         string        `env:"COMPLETION_URL" envDefault:"http://localhost:8081/api/chat"`
	CompletionTimeout     time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"10s"`
	RepositoryDelay       time.Duration `env:"REPOSITORY_DELAY" envDefault:"1s"`
	RepositorySelectDelay time.Duration `env:"REPOSITORY_SELECT_DELAY" envDefault:"800ms"`

	// Upstream del proxy. La credencial llega por entorno.
	LLMAPIKey  string `env:"LLM_API_KEY"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ProxyRateLimit  int           `env:"PROXY_RATE_LIMIT" envDefault:"30"`
	ProxyRateWindow time.Duration `env:"PROXY_RATE_WINDOW" envDefault:"1m"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
