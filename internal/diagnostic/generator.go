// Package diagnostic turns a vibration reading into a maintenance diagnostic
// by prompting an external text-generation model.
package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/parth238/VibraVision/internal/config"
	"github.com/parth238/VibraVision/internal/metrics"
	"github.com/parth238/VibraVision/internal/modules/telemetry/types"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("no text content in response")

// Generator produces the diagnostic report for one reading.
type Generator interface {
	Generate(ctx context.Context, frequency, intensity float64) (string, error)
}

// Completer sends a single prompt to a model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
}

// PromptGenerator builds the GenTwin prompt and hands it to a Completer.
type PromptGenerator struct {
	completer Completer
	assetID   string
	logger    *slog.Logger
}

func NewPromptGenerator(completer Completer, assetID string, logger *slog.Logger) *PromptGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptGenerator{completer: completer, assetID: assetID, logger: logger}
}

func (g *PromptGenerator) Generate(ctx context.Context, frequency, intensity float64) (string, error) {
	prompt := BuildPrompt(g.assetID, frequency, intensity)

	start := time.Now()
	text, err := g.completer.Complete(ctx, prompt)
	duration := time.Since(start)
	metrics.RecordGeneration(g.completer.Provider(), duration.Seconds(), err)
	if err != nil {
		g.logger.Error("diagnostic generation failed",
			"provider", g.completer.Provider(),
			"duration", duration,
			"error", err,
		)
		return "", fmt.Errorf("%s: %w", g.completer.Provider(), err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", g.completer.Provider(), ErrEmptyResponse)
	}

	g.logger.Debug("diagnostic generated",
		"provider", g.completer.Provider(),
		"duration", duration,
		"report_len", len(text),
	)
	return text, nil
}

// BuildPrompt renders the fixed diagnostic prompt for one reading.
func BuildPrompt(assetID string, frequency, intensity float64) string {
	threshold := strconv.FormatFloat(types.CriticalIntensity, 'f', 3, 64)
	return fmt.Sprintf(`You are GenTwin, an expert industrial reliability AI. An edge sensor on a heavy factory fan (Asset %s) just reported a structural sway frequency of %s Hz and a displacement intensity of %s AU.

Rule 1: If intensity is > %s AU, treat it as a CRITICAL LOOSENESS ALARM caused by vibrating mounting bolts.
Rule 2: If intensity is <= %s AU, treat it as HEALTHY baseline sway.

Generate a concise, 3-sentence diagnostic report and recommend one immediate maintenance action. Be highly professional, technical, and do not use markdown formatting.`,
		assetID, formatNumber(frequency), formatNumber(intensity), threshold, threshold)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// New builds the Generator for the configured provider.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (Generator, error) {
	var (
		completer Completer
		err       error
	)
	switch cfg.AIProvider {
	case config.ProviderAnthropic:
		completer, err = NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AIMaxTokens, cfg.AIBaseURL)
	case config.ProviderGemini:
		completer, err = NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AIBaseURL)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
	if err != nil {
		return nil, err
	}
	return NewPromptGenerator(completer, cfg.AssetID, logger), nil
}
