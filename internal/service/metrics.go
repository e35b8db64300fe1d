package service

import "time"

// MetricsRecorder receives business-level measurements from the services
type MetricsRecorder interface {
	BudgetRejected(rule string)
	ObserveAnalytics(operation string, elapsed time.Duration)
}

// NoOpMetrics discards all measurements
type NoOpMetrics struct{}

// BudgetRejected does nothing
func (NoOpMetrics) BudgetRejected(string) {}

// ObserveAnalytics does nothing
func (NoOpMetrics) ObserveAnalytics(string, time.Duration) {}
