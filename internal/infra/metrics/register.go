package metrics

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	once       sync.Once
	collected  []prometheus.Collector
	registry   = prometheus.NewRegistry()
	runtimeReg sync.Once
)

// register is called by init() in each metrics file to enqueue collectors.
func register(cs ...prometheus.Collector) {
	collected = append(collected, cs...)
}

// MustRegister registers ALL enqueued collectors exactly once.
func MustRegister() {
	once.Do(func() {
		if len(collected) > 0 {
			registry.MustRegister(collected...)
		}
	})
}

// RegisterRuntime adds Go runtime and process collectors; long-running
// services call it, the one-shot CLI does not.
func RegisterRuntime() {
	runtimeReg.Do(func() {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// Gatherer exposes the package registry.
func Gatherer() prometheus.Gatherer { return registry }

// Handler serves the package registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer(), promhttp.HandlerOpts{})
}

// Push sends the current state of the registry to a Pushgateway under job.
func Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(Gatherer()).PushContext(ctx)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
