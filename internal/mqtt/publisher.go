package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/parth238/VibraVision/internal/config"
	shared "github.com/parth238/VibraVision/shared/types"
)

// Publisher sends sensor readings to the broker, standing in for an edge device.
type Publisher struct {
	*link
	topic string
}

func NewPublisher(cfg config.Config, logger *slog.Logger) *Publisher {
	p := &Publisher{link: newLink(logger), topic: cfg.MQTTTopic}
	p.client = mqtt.NewClient(p.options(cfg, cfg.MQTTClientID+"-sender", nil))
	return p
}

func (p *Publisher) Connect(ctx context.Context) error {
	return p.connect(ctx)
}

// PublishTelemetry publishes one reading to the telemetry topic.
func (p *Publisher) PublishTelemetry(ctx context.Context, telemetry shared.VibrationTelemetry) error {
	if !p.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	if telemetry.Timestamp.IsZero() {
		telemetry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(telemetry)
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := waitToken(ctx, p.client.Publish(p.topic, 1, false, data), p.stopCh); err != nil {
		p.logger.Error("failed to publish telemetry", "topic", p.topic, "error", err)
		return fmt.Errorf("publish telemetry: %w", err)
	}

	p.logger.Debug("published telemetry", "topic", p.topic, "sensor_id", telemetry.SensorID)
	return nil
}

// Disconnect closes the connection. Idempotent.
func (p *Publisher) Disconnect() {
	p.disconnect()
	p.logger.Info("mqtt publisher disconnected")
}
