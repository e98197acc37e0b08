package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialweb_api_requests_total",
			Help: "Total number of backend API requests",
		},
		[]string{"method", "operation", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialweb_api_request_duration_seconds",
			Help:    "Duration of backend API requests in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "operation"},
	)
)

// recordRequest - status: код ответа либо вид ошибки (network, timeout)
func recordRequest(method, operation string, status int, kind ErrorKind, duration time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 {
		label = kind.String()
	}
	apiRequestsTotal.WithLabelValues(method, operation, label).Inc()
	apiRequestDuration.WithLabelValues(method, operation).Observe(duration.Seconds())
}
