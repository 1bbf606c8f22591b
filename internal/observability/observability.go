// Package observability bundles the logger, tracer and metrics registry
// handed to every module.
package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "skillgrid"

// Config controls how observability components are built.
type Config struct {
	Environment    string
	MetricsAddress string
	LogLevel       string
}

// Observability is the set of observability handles shared across modules.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry

	metricsServer *http.Server
}

// New builds a JSON logger, the global otel tracer and a fresh Prometheus registry.
func New(cfg Config) *Observability {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("service", serviceName),
		slog.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obs := &Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(serviceName),
		Registry: registry,
	}

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		obs.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return obs
}

// OperationMetrics returns registry-backed metrics for a subsystem, or noop
// metrics when the registry cannot take them.
func (o *Observability) OperationMetrics(subsystem string) OperationMetrics {
	if o.Registry == nil {
		return NewNoop()
	}
	m, err := NewOperationMetrics(o.Registry, subsystem)
	if err != nil {
		o.Logger.Warn("Falling back to noop metrics", slog.String("subsystem", subsystem), slog.String("error", err.Error()))
		return NewNoop()
	}
	return m
}

// ServeMetrics blocks serving /metrics until the context is cancelled.
// It returns immediately when no metrics address is configured.
func (o *Observability) ServeMetrics(ctx context.Context) error {
	if o.metricsServer == nil {
		return nil
	}

	errCh := make(chan error, 1)
	go func() {
		o.Logger.Info("Metrics server listening", slog.String("address", o.metricsServer.Addr))
		errCh <- o.metricsServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return o.metricsServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
