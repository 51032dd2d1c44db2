// Package telemetry installs OpenTelemetry trace and metric providers that
// export to rotated files. When disabled the global no-op providers stay in
// place.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/multierr"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "careerbot"

// ShutdownFunc flushes and closes the exporters.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init sets the global tracer and meter providers when enabled. Traces go to
// <dir>/careerbot_traces.log and metrics to <dir>/careerbot_metrics.log.
func Init(ctx context.Context, enabled bool, dir string) (ShutdownFunc, error) {
	if !enabled {
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	traceFile := rotatedFile(filepath.Join(dir, serviceName+"_traces.log"))
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(traceFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	metricsFile := rotatedFile(filepath.Join(dir, serviceName+"_metrics.log"))
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(metricsFile))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(10*time.Second))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		err = multierr.Append(err, mp.Shutdown(ctx))
		err = multierr.Append(err, traceFile.Close())
		return multierr.Append(err, metricsFile.Close())
	}, nil
}

func rotatedFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}
