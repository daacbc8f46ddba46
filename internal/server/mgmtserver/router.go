package mgmtserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/netkeep-go/internal/server/mgmtserver/handler"
	"github.com/yndnr/netkeep-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the management router.
type RouterConfig struct {
	// App serves every API operation.
	App handler.App

	// Metrics backs /metrics and the request counters.
	Metrics *metric.Registry

	Logger *slog.Logger

	// RateLimit is the global request rate per second; zero disables it.
	RateLimit float64
	Burst     int
}

// NewRouter creates the management handler with its middleware.
//
// Order: Recover -> RequestID -> RateLimit -> AccessLog -> routes
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(cfg.App, cfg.Metrics, log)

	return Chain(h,
		Recover(log),
		RequestID(),
		RateLimit(cfg.RateLimit, cfg.Burst),
		AccessLog(log, cfg.Metrics),
	)
}
