package telemetry

import (
	"context"
	"log/slog"

	"github.com/parth238/VibraVision/internal/metrics"
	"github.com/parth238/VibraVision/internal/modules/telemetry/types"
	"github.com/parth238/VibraVision/internal/mqtt"
	shared "github.com/parth238/VibraVision/shared/types"
)

type MQTTSubscriber = mqtt.MQTTSubscriber

type ingester interface {
	Ingest(ctx context.Context, source string, reading types.Reading) (types.Record, error)
}

// registerMQTTHandler runs broker messages through the same pipeline as HTTP posts.
func registerMQTTHandler(subscriber MQTTSubscriber, svc ingester, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	subscriber.SetMessageHandler(func(ctx context.Context, telemetry shared.VibrationTelemetry) error {
		logger.Debug("processing telemetry message",
			"sensor_id", telemetry.SensorID,
			"timestamp", telemetry.Timestamp,
		)

		reading := types.Reading{Frequency: *telemetry.Frequency, Intensity: *telemetry.Intensity}
		if _, err := svc.Ingest(ctx, metrics.SourceMQTT, reading); err != nil {
			return err
		}
		return nil
	})
}
