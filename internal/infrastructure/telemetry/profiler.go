package telemetry

import (
	"errors"
	"fmt"
	"os"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/otel"
)

// startProfiler starts continuous CPU and memory profiling and links CPU
// samples to trace spans.
func (p *Providers) startProfiler() error {
	if p.config.PyroscopeURL == "" {
		return errors.New("telemetry.pyroscope_url is required when profiling is enabled")
	}

	tags := map[string]string{}
	if hostname, err := os.Hostname(); err == nil {
		tags["hostname"] = hostname
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: p.config.ServiceName,
		ServerAddress:   p.config.PyroscopeURL,
		Logger:          p.logger.Named("pyroscope").Sugar(),
		Tags:            tags,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start profiler: %w", err)
	}
	p.profiler = profiler

	if p.traces != nil {
		otel.SetTracerProvider(otelpyroscope.NewTracerProvider(p.traces))
	}
	return nil
}
