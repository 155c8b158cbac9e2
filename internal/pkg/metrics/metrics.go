package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Attendance
	PunchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_punch_total",
			Help: "Total number of punch attempts by action and result",
		},
		[]string{"action", "result"}, // action: IN, OUT
	)

	GeofenceDistance = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attendance_geofence_distance_meters",
			Help:    "Distance between an office punch and its branch center",
			Buckets: []float64{10, 25, 50, 100, 200, 500, 1000, 5000, 20000},
		},
	)

	OpenRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attendance_open_records",
			Help: "Attendance records currently waiting for a punch-out",
		},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Punch results
const (
	ResultSuccess         = "success"
	ResultMissingLocation = "missing_location"
	ResultOutsideGeofence = "outside_geofence"
	ResultInvalidState    = "invalid_state"
	ResultNotFound        = "not_found"
	ResultError           = "error"
)

func RecordPunch(action, result string) {
	PunchTotal.WithLabelValues(action, result).Inc()
}

func ObserveGeofenceDistance(meters float64) {
	GeofenceDistance.Observe(meters)
}

func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
