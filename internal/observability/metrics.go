package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// Submission outcomes recorded by RecordSubmission
const (
	OutcomeRegistered = "registered"
	OutcomeFailed     = "failed"
	OutcomeInvalid    = "invalid"
	OutcomeBusy       = "busy"
)

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	PrometheusPath string `mapstructure:"prometheus_path"`
}

// DefaultMetricsConfig returns default metrics configuration
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled:        true,
		ServiceName:    "arcana-onboarding-go",
		PrometheusPath: "/metrics",
	}
}

// MetricsProvider manages OpenTelemetry metrics.
// All Record methods are safe on a nil or disabled provider.
type MetricsProvider struct {
	config        *MetricsConfig
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	logger        *zap.Logger
	registry      *prometheus.Registry
	handler       http.Handler

	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	formsOpened         metric.Int64Counter
	validationFailures  metric.Int64Counter
	submissionsTotal    metric.Int64Counter
	submissionDuration  metric.Float64Histogram
	activeSockets       metric.Int64UpDownCounter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(config *MetricsConfig, logger *zap.Logger) (*MetricsProvider, error) {
	if !config.Enabled {
		return &MetricsProvider{
			config: config,
			meter:  otel.Meter(config.ServiceName),
			logger: logger,
		}, nil
	}

	registry := prometheus.NewRegistry()

	exporter, err := otelprometheus.New(
		otelprometheus.WithRegisterer(registry),
	)
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	mp := &MetricsProvider{
		config:        config,
		meterProvider: meterProvider,
		meter:         meterProvider.Meter(config.ServiceName),
		logger:        logger,
		registry:      registry,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	if err := mp.initMetrics(); err != nil {
		return nil, err
	}

	logger.Info("OpenTelemetry metrics initialized",
		zap.String("service", config.ServiceName),
		zap.String("prometheus_path", config.PrometheusPath),
	)

	return mp, nil
}

func (mp *MetricsProvider) initMetrics() error {
	var err error

	mp.httpRequestsTotal, err = mp.meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return err
	}

	mp.httpRequestDuration, err = mp.meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	mp.formsOpened, err = mp.meter.Int64Counter(
		"registration_forms_opened_total",
		metric.WithDescription("Total number of registration forms opened"),
	)
	if err != nil {
		return err
	}

	mp.validationFailures, err = mp.meter.Int64Counter(
		"registration_validation_failures_total",
		metric.WithDescription("Failed field rules on submit attempts"),
	)
	if err != nil {
		return err
	}

	mp.submissionsTotal, err = mp.meter.Int64Counter(
		"registration_submissions_total",
		metric.WithDescription("Submit attempts by outcome"),
	)
	if err != nil {
		return err
	}

	mp.submissionDuration, err = mp.meter.Float64Histogram(
		"registration_submission_duration_seconds",
		metric.WithDescription("Time spent waiting on the registration capability"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	mp.activeSockets, err = mp.meter.Int64UpDownCounter(
		"registration_event_sockets",
		metric.WithDescription("Open form event WebSocket connections"),
	)
	return err
}

// RecordHTTPRequest records an HTTP request metric
func (mp *MetricsProvider) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if mp == nil || mp.httpRequestsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		AttrHTTPMethod.String(method),
		AttrHTTPRoute.String(path),
		AttrHTTPStatusCode.Int(statusCode),
	)

	mp.httpRequestsTotal.Add(ctx, 1, attrs)
	mp.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordFormOpened counts a newly opened form
func (mp *MetricsProvider) RecordFormOpened(ctx context.Context, locale string) {
	if mp == nil || mp.formsOpened == nil {
		return
	}
	mp.formsOpened.Add(ctx, 1, metric.WithAttributes(AttrLocale.String(locale)))
}

// RecordValidationFailure counts one failing field on a submit attempt
func (mp *MetricsProvider) RecordValidationFailure(ctx context.Context, field string) {
	if mp == nil || mp.validationFailures == nil {
		return
	}
	mp.validationFailures.Add(ctx, 1, metric.WithAttributes(AttrFormField.String(field)))
}

// RecordSubmission counts a submit attempt; duration is zero when the registrar was not called
func (mp *MetricsProvider) RecordSubmission(ctx context.Context, outcome string, duration time.Duration) {
	if mp == nil || mp.submissionsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(AttrOutcome.String(outcome))
	mp.submissionsTotal.Add(ctx, 1, attrs)
	if duration > 0 {
		mp.submissionDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// IncrementSockets increments open event sockets
func (mp *MetricsProvider) IncrementSockets(ctx context.Context) {
	if mp == nil || mp.activeSockets == nil {
		return
	}
	mp.activeSockets.Add(ctx, 1)
}

// DecrementSockets decrements open event sockets
func (mp *MetricsProvider) DecrementSockets(ctx context.Context) {
	if mp == nil || mp.activeSockets == nil {
		return
	}
	mp.activeSockets.Add(ctx, -1)
}

// Handler returns an HTTP handler for Prometheus metrics
func (mp *MetricsProvider) Handler() http.Handler {
	if mp != nil && mp.handler != nil {
		return mp.handler
	}
	return http.NotFoundHandler()
}

// Path returns where the Prometheus handler should be mounted
func (mp *MetricsProvider) Path() string {
	if mp == nil || mp.config.PrometheusPath == "" {
		return "/metrics"
	}
	return mp.config.PrometheusPath
}

// Enabled reports whether metrics are exported
func (mp *MetricsProvider) Enabled() bool {
	return mp != nil && mp.config.Enabled
}

// Meter returns the meter for creating custom metrics
func (mp *MetricsProvider) Meter() metric.Meter {
	return mp.meter
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	if mp != nil && mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}
