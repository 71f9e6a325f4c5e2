package controller

import (
	"log/slog"
	"net/http"

	"github.com/parth238/VibraVision/internal/metrics"
	"github.com/parth238/VibraVision/internal/utils"
)

const ingestSuccessMessage = "Telemetry processed by GenTwin AI"

type ingestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *telemetryControllerImpl) handleIngest(w http.ResponseWriter, r *http.Request) {
	reading, err := ParseTelemetryInput(w, r)
	if err != nil {
		metrics.RecordIngest(metrics.SourceHTTP, metrics.OutcomeInvalid)
		slog.Warn("rejected telemetry payload", "error", err)
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := c.service.Ingest(r.Context(), metrics.SourceHTTP, reading); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "AI pipeline failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, ingestResponse{Success: true, Message: ingestSuccessMessage})
}

func (c *telemetryControllerImpl) handleLatest(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.service.Latest())
}
