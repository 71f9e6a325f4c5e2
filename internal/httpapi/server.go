package httpapi

import (
	"net/http"
	"time"

	"github.com/parth238/VibraVision/internal/config"
)

func NewServer(cfg config.Config, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(cfg, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler wraps mux with CORS and request logging.
func NewHandler(cfg config.Config, mux *http.ServeMux) http.Handler {
	return corsHandler(cfg.CORSAllowedOrigins)(requestLogger(mux))
}
