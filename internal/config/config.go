package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"dadataclean/cleansing"
)

// Config конфигурация клиента стандартизации и HTTP-фасада
type Config struct {
	// Сервер
	Port string `env:"SERVER_PORT" envDefault:"9999"`

	// DaData
	AccessToken  string        `env:"DADATA_API_KEY"`
	SecretKey    string        `env:"DADATA_SECRET_KEY"`
	EndpointURL  string        `env:"DADATA_CLEAN_URL" envDefault:"https://dadata.ru/api/v1/clean"`
	DebugCapture bool          `env:"DADATA_DEBUG_CAPTURE" envDefault:"false"`
	Timeout      time.Duration `env:"DADATA_TIMEOUT" envDefault:"5s"`

	// Защита сервиса
	RateLimitPerSec float64 `env:"DADATA_RATE_LIMIT_PER_SEC" envDefault:"0"`
	BreakerEnabled  bool    `env:"DADATA_BREAKER_ENABLED" envDefault:"false"`

	// Логирование
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Перед этим подхватываются .env файлы из envFiles (или ./.env, если список пуст).
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv подгружает .env; отсутствие файла по умолчанию не считается ошибкой
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// ClientOptions переводит конфигурацию в опции клиента
func (c *Config) ClientOptions() []cleansing.Option {
	opts := []cleansing.Option{
		cleansing.WithEndpointURL(c.EndpointURL),
		cleansing.WithDebugCapture(c.DebugCapture),
		cleansing.WithTimeout(c.Timeout),
	}
	if c.SecretKey != "" {
		opts = append(opts, cleansing.WithSecretKey(c.SecretKey))
	}
	return opts
}

// NewRateLimiter создает лимитер запросов или nil, если ограничение выключено
func (c *Config) NewRateLimiter() *rate.Limiter {
	if c.RateLimitPerSec <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RateLimitPerSec), 1)
}

// NewCircuitBreaker создает circuit breaker или nil, если он выключен
func (c *Config) NewCircuitBreaker() *cleansing.CircuitBreaker {
	if !c.BreakerEnabled {
		return nil
	}
	return cleansing.NewCircuitBreaker()
}

// ClientFactory возвращает фабрику клиентов для HTTP-фасада.
// Все клиенты фабрики разделяют HTTP-транспорт, лимитер и circuit breaker;
// диагностика у каждого своя.
func (c *Config) ClientFactory(extra ...cleansing.Option) func() (*cleansing.Client, error) {
	shared := []cleansing.Option{
		cleansing.WithHTTPClient(cleansing.NewHTTPClient(c.Timeout, c.Timeout)),
	}
	if limiter := c.NewRateLimiter(); limiter != nil {
		shared = append(shared, cleansing.WithRateLimiter(limiter))
	}
	if breaker := c.NewCircuitBreaker(); breaker != nil {
		shared = append(shared, cleansing.WithCircuitBreaker(breaker))
	}

	opts := append(c.ClientOptions(), shared...)
	opts = append(opts, extra...)

	return func() (*cleansing.Client, error) {
		return cleansing.New(c.AccessToken, opts...)
	}
}
