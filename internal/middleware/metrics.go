package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// TasksEnqueued counts tasks submitted to the queue by task type.
	TasksEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_tasks_enqueued_total",
		Help: "Total number of background tasks enqueued",
	}, []string{"task"})

	// TasksProcessed counts tasks consumed by the worker by task type and outcome.
	TasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_tasks_processed_total",
		Help: "Total number of background tasks processed",
	}, []string{"task", "outcome"})

	// PostDetailViews counts post detail fetches, which drive the views counter.
	PostDetailViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quill_post_detail_views_total",
		Help: "Total number of post detail fetches",
	})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for the given service name.
// The underlying collectors register against the default registry, so the
// middleware is created once and shared.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}
