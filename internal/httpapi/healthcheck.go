package httpapi

import (
	"net/http"

	"github.com/parth238/VibraVision/internal/utils"
)

// LinkStatus reports the broker connection for /healthz.
type LinkStatus interface {
	Status() string
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	mqtt LinkStatus
}

// NewHealthchecker builds the /healthz handler. A nil mqtt means MQTT ingest is disabled.
func NewHealthchecker(mqtt LinkStatus) healthchecker {
	return &healthcheckerImpl{mqtt: mqtt}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	mqttStatus := "disabled"
	if h.mqtt != nil {
		mqttStatus = h.mqtt.Status()
	}
	// A broker outage degrades ingest but the HTTP API keeps serving.
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "mqtt": mqttStatus})
}

func registerHealthcheck(mux *http.ServeMux, mqtt LinkStatus) {
	healthchecker := NewHealthchecker(mqtt)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
