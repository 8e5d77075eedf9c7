package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Tiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tileloader_tiles_total",
		Help: "Total number of processed tiles by result (downloaded, cached, failed)",
	}, []string{"result"})

	SourceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tileloader_source_requests_total",
		Help: "Total number of requests to a tile source by result (ok, error)",
	}, []string{"source", "result"})

	SourceLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tileloader_source_latency_seconds",
		Help:    "Latency of tile source requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	ServedTiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tileloader_served_tiles_total",
		Help: "Total number of tiles served by the local tile server (hit, miss)",
	}, []string{"result"})
)
