package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/parth238/VibraVision/internal/diagnostic"
	"github.com/parth238/VibraVision/internal/metrics"
	"github.com/parth238/VibraVision/internal/modules/telemetry/store"
	"github.com/parth238/VibraVision/internal/modules/telemetry/types"
)

// ErrGeneration marks an ingest that failed because no diagnostic could be produced.
var ErrGeneration = errors.New("AI pipeline failed")

type Service struct {
	store     store.TelemetryStore
	generator diagnostic.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

func NewService(store store.TelemetryStore, generator diagnostic.Generator, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, generator: generator, timeout: timeout, logger: logger}
}

// Ingest generates a diagnostic for the reading and, on success, replaces the
// stored record. On failure the store is left untouched.
//
// The generation call is detached from ctx cancellation: a client that hangs
// up does not abort it. It is bounded by the service timeout only.
func (s *Service) Ingest(ctx context.Context, source string, reading types.Reading) (types.Record, error) {
	s.logger.Info("telemetry received",
		"source", source,
		"frequency", reading.Frequency,
		"intensity", reading.Intensity,
	)

	genCtx := context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(genCtx, s.timeout)
		defer cancel()
	}

	report, err := s.generator.Generate(genCtx, reading.Frequency, reading.Intensity)
	if err != nil {
		metrics.RecordIngest(source, metrics.OutcomeGenerationFailed)
		s.logger.Error("AI generation error", "source", source, "error", err)
		return types.Record{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	record := types.Record{
		Frequency: reading.Frequency,
		Intensity: reading.Intensity,
		Status:    types.Classify(reading.Intensity),
		AIReport:  report,
	}
	s.store.Set(record)

	metrics.RecordIngest(source, metrics.OutcomeOK)
	metrics.RecordAsset(record.Frequency, record.Intensity, record.Status == types.StatusCritical)
	s.logger.Info("AI report generated", "source", source, "status", record.Status)
	return record, nil
}

// Latest returns the currently stored record.
func (s *Service) Latest() types.Record {
	return s.store.Get()
}
