package web

import (
	"context"
	"net/http"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/internal/metrics"
	"github.com/sopiot/scheduling-framework-sub001/web/broker"
	"github.com/sopiot/scheduling-framework-sub001/web/middleware"

	log "github.com/activeshadow/libminimega/minilog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Start serves the REST API, the trial status WebSocket and Prometheus
// metrics until the context is done.
func Start(ctx context.Context, opts ...ServeOption) error {
	o := newServerOptions(opts...)

	log.Info("Starting websockets broker")

	go broker.Start(ctx)

	server := &http.Server{Addr: o.endpoint, Handler: newRouter(ctx, o)}

	go func() {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		server.Shutdown(shutdown)
	}()

	log.Info("Starting HTTP server on %s", o.endpoint)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serving HTTP")
	}

	return nil
}

func newRouter(ctx context.Context, o serverOptions) *mux.Router {
	var (
		router = mux.NewRouter().StrictSlash(true)
		h      = handlers{ctx: ctx, options: o}
	)

	router.Handle("/metrics", metrics.Handler())

	api := router.PathPrefix("/api/v1").Subrouter()

	// OPTIONS method needed for CORS
	api.HandleFunc("/results", h.GetResults).Methods("GET", "OPTIONS")
	api.HandleFunc("/results/{id}", h.GetResult).Methods("GET", "OPTIONS")
	api.HandleFunc("/results/{id}", h.DeleteResult).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/ranking", h.GetRanking).Methods("GET", "OPTIONS")
	api.HandleFunc("/configs", h.GetConfigs).Methods("GET", "OPTIONS")
	api.HandleFunc("/runs", h.CreateRun).Methods("POST", "OPTIONS")
	api.HandleFunc("/runs/latest", h.GetLatestRun).Methods("GET", "OPTIONS")
	api.HandleFunc("/ws", broker.ServeWS).Methods("GET")

	if o.allowCORS {
		log.Info("CORS is enabled on HTTP API endpoints")
		api.Use(middleware.AllowCORS)
	}

	if o.logs {
		log.Info("requests-only HTTP logging is enabled")
		api.Use(middleware.LogRequests)
	}

	return router
}
