package telemetry

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/parth238/VibraVision/internal/diagnostic"
	"github.com/parth238/VibraVision/internal/modules/telemetry/controller"
	"github.com/parth238/VibraVision/internal/modules/telemetry/service"
	"github.com/parth238/VibraVision/internal/modules/telemetry/store"
)

// RegisterFeature wires the telemetry store, service and routes. subscriber
// may be nil when MQTT ingest is disabled.
func RegisterFeature(mux *http.ServeMux, generator diagnostic.Generator, timeout time.Duration, subscriber MQTTSubscriber, logger *slog.Logger) *service.Service {
	telemetryStore := store.NewMemoryStore()
	telemetryService := service.NewService(telemetryStore, generator, timeout, logger)
	controller.NewTelemetryController(telemetryService).RegisterRoutes(mux)
	if subscriber != nil {
		registerMQTTHandler(subscriber, telemetryService, logger)
	}
	return telemetryService
}
