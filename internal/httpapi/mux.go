package httpapi

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux registers the ambient routes. Feature modules add their own.
// The dashboard is served from staticDir at / when the directory exists.
func NewMux(staticDir string, mqtt LinkStatus) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, mqtt)
	mux.Handle("GET /metrics", promhttp.Handler())

	if staticDir != "" {
		if fi, err := os.Stat(staticDir); err == nil && fi.IsDir() {
			mux.Handle("GET /", http.FileServer(http.Dir(staticDir)))
		} else {
			slog.Warn("static dir not found, dashboard disabled", "dir", staticDir)
		}
	}
	return mux
}
