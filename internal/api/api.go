package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
	"github.com/willie68/go_tileloader/internal/config"
	"github.com/willie68/go_tileloader/internal/tilecache"
	"github.com/willie68/go_tileloader/internal/utils/measurement"
)

const (
	TilesPath       = "/tiles"
	MeasurementPath = "/api/v1/measurement"
	MetricsPath     = "/metrics"
	LivezPath       = "/livez"
)

// APIRoutes the routes of the local tile server
func APIRoutes(inj do.Injector) (*chi.Mux, error) {
	cache, err := do.Invoke[*tilecache.Cache](inj)
	if err != nil {
		return nil, err
	}
	ms, err := do.Invoke[*measurement.Service](inj)
	if err != nil {
		return nil, err
	}
	ver, err := do.Invoke[config.Version](inj)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RealIP,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}),
	)
	router.Mount(TilesPath, NewXYZHandler(cache, ms))
	router.Mount(MeasurementPath, measurement.Routes(ms))
	router.Handle(MetricsPath, promhttp.Handler())
	router.Get(LivezPath, livezHandler(ver))
	return router, nil
}

func livezHandler(ver config.Version) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{
			"status":  "ok",
			"version": ver.Version,
		})
	}
}
