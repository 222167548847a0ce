package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	StorageOperationsTotal          metric.Int64Counter
	StorageOperationDurationSeconds metric.Float64Histogram
	StorageErrorsTotal              metric.Int64Counter
	StorageObjects                  metric.Int64Gauge
	ConsoleCommandsTotal            metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// Instruments are created from the global MeterProvider, so they start
// exporting as soon as a real provider is installed with otel.SetMeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("hbnb")
		var err error
		m := &AppMetrics{}

		m.StorageOperationsTotal, err = meter.Int64Counter(
			"storage_operations_total",
			metric.WithDescription("Total number of storage engine operations"),
			metric.WithUnit("{operation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create storage_operations_total: %v", err)
		}

		m.StorageOperationDurationSeconds, err = meter.Float64Histogram(
			"storage_operation_duration_seconds",
			metric.WithDescription("Duration of storage save/reload operations in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create storage_operation_duration_seconds: %v", err)
		}

		m.StorageErrorsTotal, err = meter.Int64Counter(
			"storage_errors_total",
			metric.WithDescription("Total number of failed storage operations"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create storage_errors_total: %v", err)
		}

		m.StorageObjects, err = meter.Int64Gauge(
			"storage_objects",
			metric.WithDescription("Number of objects held by the storage engine after the last save or reload"),
			metric.WithUnit("{object}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create storage_objects: %v", err)
		}

		m.ConsoleCommandsTotal, err = meter.Int64Counter(
			"console_commands_total",
			metric.WithDescription("Total number of commands executed by the console"),
			metric.WithUnit("{command}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create console_commands_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global AppMetrics, initializing it on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
