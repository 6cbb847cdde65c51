package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TotalRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auditlog_http_requests_total",
		Help: "Number of http requests.",
	},
	[]string{"path", "code", "method"},
)

var HttpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "auditlog_http_request_duration_seconds_historgram",
		Buckets: []float64{
			0.1, // 100 ms
			0.2,
			0.25,
			0.5,
			1,
			1.5,
			3,
			5,
			10,
		},
	},
	[]string{"path", "code", "method"},
)

var RetentionRunsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auditlog_retention_runs_total",
		Help: "Number of finished retention runs.",
	},
	[]string{"run_type", "status"},
)

var RecordsArchivedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auditlog_records_archived_total",
		Help: "Number of records copied to the archive.",
	},
	[]string{},
)

var RecordsDeletedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auditlog_records_deleted_total",
		Help: "Number of records deleted from the activity log.",
	},
	[]string{},
)

var RetentionRunDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "auditlog_retention_run_duration_seconds",
		Buckets: []float64{
			1,
			5,
			15,
			30,
			60,
			120,
			300,
			600,
		},
	},
	[]string{"run_type"},
)

var BackupSizeBytes = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "auditlog_last_backup_size_bytes",
		Help: "Size of the last created backup artifact",
	},
	[]string{},
)

var BackupsStoredCount = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "auditlog_backups_stored_count",
		Help: "Number of backup artifacts currently registered",
	},
	[]string{},
)

func RegisterAllPrometheusApplicationMetrics() {
	prometheus.Register(TotalRequests)
	prometheus.Register(HttpDuration)
	prometheus.Register(RetentionRunsTotal)
	prometheus.Register(RecordsArchivedTotal)
	prometheus.Register(RecordsDeletedTotal)
	prometheus.Register(RetentionRunDuration)
	prometheus.Register(BackupSizeBytes)
	prometheus.Register(BackupsStoredCount)
}
