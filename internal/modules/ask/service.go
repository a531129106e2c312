package ask

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/metropolia-apps/faq-core/internal/config"
	"github.com/metropolia-apps/faq-core/internal/pkg/monitoring"
	"github.com/metropolia-apps/faq-core/internal/upstream"
	"github.com/metropolia-apps/faq-core/internal/validate"
)

// generateFunc runs one upstream completion. Tests substitute a fake;
// the default is upstream.Generate.
type generateFunc func(ctx context.Context, provider upstream.Provider, systemPrompt, prompt string) (string, error)

// Service relays validated queries to the configured answer provider.
type Service struct {
	cfg      *config.Store
	logger   *zap.Logger
	generate generateFunc
}

func NewService(cfg *config.Store, logger *zap.Logger) *Service {
	return &Service{
		cfg:      cfg,
		logger:   logger,
		generate: upstream.Generate,
	}
}

// Ask runs one full exchange: prompt build, a single provider call,
// answer relay. The answer is trimmed but otherwise returned verbatim.
func (s *Service) Ask(ctx context.Context, q validate.Query) (string, error) {
	cfg := s.cfg.Current()
	provider := upstream.Provider{
		Type:     cfg.Upstream.Type,
		APIKey:   cfg.Upstream.APIKey,
		Endpoint: cfg.Upstream.Endpoint,
		Model:    cfg.Upstream.Model,
	}

	systemPrompt := cfg.Prompt.System
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultSystemPrompt
	}

	start := time.Now()
	answer, err := s.generate(ctx, provider, systemPrompt, buildUserPrompt(q))
	monitoring.ObserveUpstream(provider.Type, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("upstream call: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
