package controller

import (
	"context"
	"net/http"

	"github.com/parth238/VibraVision/internal/modules/telemetry/types"
)

// Ingester runs one reading through the diagnostic pipeline.
type Ingester interface {
	Ingest(ctx context.Context, source string, reading types.Reading) (types.Record, error)
	Latest() types.Record
}

type TelemetryController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type telemetryControllerImpl struct {
	service Ingester
}

func NewTelemetryController(service Ingester) TelemetryController {
	return &telemetryControllerImpl{service: service}
}

func (c *telemetryControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/telemetry", c.handleIngest)
	mux.HandleFunc("GET /api/telemetry", c.handleLatest)
}
