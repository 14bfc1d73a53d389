package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "matte/internal/common/errors"
	"matte/internal/common/logger"
	"matte/internal/transport/rest/handler"
	"matte/internal/transport/rest/middleware"
)

// Container holds everything the router needs.
type Container struct {
	Responder handler.Responder
	Analyzer  handler.Analyzer
	Tokens    middleware.TokenValidator
	Deps      map[string]handler.Pinger
	Logger    logger.Logger
	// Metrics defaults to the default Prometheus registry.
	Metrics http.Handler
}

func NewRouter(c *Container) http.Handler {
	log := c.Logger.With(map[string]interface{}{"component": "rest"})
	errHandler := apperrors.NewErrorHandler(log)

	askHandler := handler.NewAskHandler(c.Responder, c.Analyzer, errHandler)
	healthHandler := handler.NewHealthHandler(c.Deps, 0)
	authMW := middleware.NewAuth(c.Tokens, errHandler)

	metricsHandler := c.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging(log, errHandler))

	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", healthHandler.Ready).Methods(http.MethodGet)
	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	// Registered on the root router so a wrong method on a known path is a 405.
	r.Handle("/api/matte/ask", authMW.RequireTenant(http.HandlerFunc(askHandler.Ask))).Methods(http.MethodPost)
	r.Handle("/api/matte/classify", authMW.RequireTenant(http.HandlerFunc(askHandler.Classify))).Methods(http.MethodPost)

	return r
}
