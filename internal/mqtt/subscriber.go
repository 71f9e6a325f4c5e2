package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/parth238/VibraVision/internal/config"
	"github.com/parth238/VibraVision/internal/metrics"
	shared "github.com/parth238/VibraVision/shared/types"
)

// MessageHandler is called for each valid telemetry message.
type MessageHandler func(ctx context.Context, telemetry shared.VibrationTelemetry) error

// MQTTSubscriber interface for attaching message handlers
type MQTTSubscriber interface {
	SetMessageHandler(handler MessageHandler)
}

type Subscriber struct {
	*link
	topic string

	handlerMu sync.RWMutex
	handler   MessageHandler
}

func NewSubscriber(cfg config.Config, logger *slog.Logger) *Subscriber {
	s := &Subscriber{link: newLink(logger), topic: cfg.MQTTTopic}
	opts := s.options(cfg, cfg.MQTTClientID, func(c mqtt.Client) {
		// Clean sessions drop subscriptions, so resubscribe on every connect.
		if err := s.subscribe(c); err != nil {
			s.logger.Error("mqtt subscribe failed", "topic", s.topic, "error", err)
		}
	})
	// Each generation call can take seconds; handle messages concurrently.
	opts.SetOrderMatters(false)
	s.client = mqtt.NewClient(opts)
	return s
}

// SetMessageHandler sets the message handler for telemetry messages.
// Set it before Connect so queued messages are not dropped.
func (s *Subscriber) SetMessageHandler(handler MessageHandler) {
	s.handlerMu.Lock()
	s.handler = handler
	s.handlerMu.Unlock()
}

// Connect establishes connection to the MQTT broker. The topic subscription
// happens in the connect callback.
func (s *Subscriber) Connect(ctx context.Context) error {
	return s.connect(ctx)
}

func (s *Subscriber) subscribe(c mqtt.Client) error {
	const qos = byte(1) // At least once delivery

	token := c.Subscribe(s.topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", s.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.topic, err)
	}

	s.logger.Info("subscribed to mqtt topic", "topic", s.topic, "qos", qos)
	return nil
}

func (s *Subscriber) handleMessage(topic string, payload []byte) {
	s.logger.Debug("received mqtt message", "topic", topic, "size", len(payload))

	telemetry, err := ParseTelemetry(payload)
	if err != nil {
		metrics.RecordIngest(metrics.SourceMQTT, metrics.OutcomeInvalid)
		s.logger.Warn("invalid telemetry message",
			"topic", topic,
			"error", err,
			"payload", string(payload),
		)
		return
	}

	s.handlerMu.RLock()
	handler := s.handler
	s.handlerMu.RUnlock()
	if handler == nil {
		return
	}

	if err := handler(context.Background(), telemetry); err != nil {
		s.logger.Error("message handler failed",
			"topic", topic,
			"sensor_id", telemetry.SensorID,
			"error", err,
		)
		return
	}
	s.logger.Debug("processed telemetry message",
		"sensor_id", telemetry.SensorID,
		"timestamp", telemetry.Timestamp,
	)
}

// ParseTelemetry decodes a broker payload and checks that both readings are present.
func ParseTelemetry(payload []byte) (shared.VibrationTelemetry, error) {
	var t shared.VibrationTelemetry
	if err := json.Unmarshal(payload, &t); err != nil {
		return shared.VibrationTelemetry{}, fmt.Errorf("parse telemetry: %w", err)
	}
	if t.Frequency == nil {
		return shared.VibrationTelemetry{}, fmt.Errorf("frequency is required")
	}
	if t.Intensity == nil {
		return shared.VibrationTelemetry{}, fmt.Errorf("intensity is required")
	}
	return t, nil
}

// Disconnect stops the subscriber and closes the MQTT connection.
// Idempotent and safe to call multiple times.
func (s *Subscriber) Disconnect() {
	if s.IsConnected() {
		token := s.client.Unsubscribe(s.topic)
		token.WaitTimeout(2 * time.Second)
	}
	s.disconnect()
	s.logger.Info("mqtt subscriber disconnected")
}
