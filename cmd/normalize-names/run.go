package main

import (
	"context"
	"log/slog"
	"sort"

	"dadataclean/cleansing"
	"dadataclean/internal/config"
	"dadataclean/internal/export"
)

// nameNormalizer то, что нужно пакетной обработке от клиента
type nameNormalizer interface {
	NormalizeFullName(ctx context.Context, fullName string, strict bool) (*cleansing.CleansedField, error)
	LastRawResponseBody() ([]byte, error)
}

// newClient собирает клиент пакетной обработки с теми же защитами, что и у сервера
func newClient(cfg *config.Config, logger *slog.Logger, debug bool) (*cleansing.Client, error) {
	opts := cfg.ClientOptions()
	opts = append(opts, cleansing.WithLogger(logger), cleansing.WithDebugCapture(cfg.DebugCapture || debug))
	if limiter := cfg.NewRateLimiter(); limiter != nil {
		opts = append(opts, cleansing.WithRateLimiter(limiter))
	}
	if breaker := cfg.NewCircuitBreaker(); breaker != nil {
		opts = append(opts, cleansing.WithCircuitBreaker(breaker))
	}
	return cleansing.New(cfg.AccessToken, opts...)
}

// normalizeAll обрабатывает имена последовательно и останавливается при отмене ctx
func normalizeAll(ctx context.Context, client nameNormalizer, names []string, strict bool, logger *slog.Logger) []export.NameResult {
	results := make([]export.NameResult, 0, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}

		field, err := client.NormalizeFullName(ctx, name, strict)
		res := export.NameResult{Input: name, Field: field, Err: err}
		if err != nil {
			attrs := []any{"input", name, "error", err, "kind", cleansing.KindOf(err).String()}
			if body, bodyErr := client.LastRawResponseBody(); bodyErr == nil && body != nil {
				attrs = append(attrs, "raw_response", string(body))
			}
			logger.Debug("Name rejected", attrs...)
		}
		results = append(results, res)
	}
	return results
}

type runSummary struct {
	Total    int
	Accepted int
	Failed   map[string]int
}

func summarize(results []export.NameResult) runSummary {
	s := runSummary{Total: len(results), Failed: map[string]int{}}
	for _, r := range results {
		if r.Err == nil {
			s.Accepted++
			continue
		}
		s.Failed[r.Status()]++
	}
	return s
}

// kinds возвращает виды ошибок в алфавитном порядке
func (s runSummary) kinds() []string {
	kinds := make([]string, 0, len(s.Failed))
	for k := range s.Failed {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
