package qrcode

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decodeCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrscan_decode_calls_total",
			Help: "Total number of bitmap decode calls",
		},
		[]string{"status"}, // status: found, empty, error
	)

	candidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrscan_candidates_total",
			Help: "Total number of finder corners evaluated",
		},
		[]string{"outcome"}, // outcome: decoded or the stage that rejected it
	)

	decodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qrscan_decode_duration_seconds",
			Help:    "Bitmap decode duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)
)
