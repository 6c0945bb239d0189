package metrics_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"tripcrew/internal/metrics"
)

var Module = fx.Provide(ProvideRegistry, ProvidePipelineMetrics)

func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func ProvidePipelineMetrics(reg *prometheus.Registry) *metrics.PipelineMetrics {
	return metrics.NewPipelineMetrics(reg)
}
