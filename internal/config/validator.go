package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// Валидация доступа к DaData
	if c.AccessToken == "" {
		errors = append(errors, "DADATA_API_KEY is required")
	}
	if c.EndpointURL == "" {
		errors = append(errors, "endpoint url is required")
	} else if u, err := url.Parse(c.EndpointURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid endpoint url: %s", c.EndpointURL))
	}

	if c.Timeout <= 0 {
		errors = append(errors, "timeout must be positive")
	}
	if c.RateLimitPerSec < 0 {
		errors = append(errors, "rate limit must not be negative")
	}

	// Валидация уровня логирования
	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
