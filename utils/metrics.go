package utils

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// BookingOperationsCounter counts lifecycle operations by op and result.
	BookingOperationsCounter *prometheus.CounterVec

	// TutorCacheCounter counts tutor listing cache hits and misses.
	TutorCacheCounter *prometheus.CounterVec

	metricsOnce sync.Once
)

// InitMetrics registers the collectors on the default registry. Only the first
// call has an effect.
func InitMetrics(prefix string) {
	metricsOnce.Do(func() {
		if prefix == "" {
			prefix = "studybuddy"
		}

		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		BookingOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_booking_operations_total",
				Help: "Total number of booking lifecycle operations",
			},
			[]string{"operation", "result"},
		)

		TutorCacheCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_tutor_cache_total",
				Help: "Tutor listing cache lookups",
			},
			[]string{"result"},
		)
	})
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

// RecordBookingOperation records the outcome of create/cancel/reschedule/complete.
func RecordBookingOperation(operation string, err error) {
	if BookingOperationsCounter == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	BookingOperationsCounter.WithLabelValues(operation, result).Inc()
}

func RecordTutorCache(hit bool) {
	if TutorCacheCounter == nil {
		return
	}
	if hit {
		TutorCacheCounter.WithLabelValues("hit").Inc()
		return
	}
	TutorCacheCounter.WithLabelValues("miss").Inc()
}
