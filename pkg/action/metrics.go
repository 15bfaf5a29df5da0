package action

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registry = prometheus.NewRegistry()

	requestFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jenkins_request_failures_total",
			Help: "Total number of failed requests against the controller per collector",
		},
		[]string{"collector"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "jenkins_request_duration_seconds",
			Help: "Duration of requests against the controller per collector",
		},
		[]string{"collector"},
	)
)

func init() {
	registry.MustRegister(requestFailures)
	registry.MustRegister(requestDuration)
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// promLogger adapts the logger to the error log used by promhttp.
type promLogger struct {
	logger *slog.Logger
}

func (l promLogger) Println(v ...interface{}) {
	l.logger.Error("metrics handler failed",
		"err", v,
	)
}
