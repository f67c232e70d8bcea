package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job names used as metric labels.
const (
	JobRefresh = "refresh"
	JobSweep   = "sweep"
)

// Job outcomes.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailure = "failure"
)

// Metrics tracks scheduled job execution.
//
//   - worker_job_runs_total{job,status}
//   - worker_job_duration_seconds{job}
//   - worker_job_last_success_timestamp{job}
//   - worker_sources_refreshed_total{status}
type Metrics struct {
	JobRunsTotal     *prometheus.CounterVec
	JobDuration      *prometheus.HistogramVec
	JobLastSuccess   *prometheus.GaugeVec
	SourcesRefreshed *prometheus.CounterVec
}

// NewMetrics creates the worker metrics and registers them with reg.
// A nil reg falls back to the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		JobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Scheduled job runs by job and status",
		}, []string{"job", "status"}),

		JobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Scheduled job duration in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}, []string{"job"}),

		JobLastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run per job",
		}, []string{"job"}),

		SourcesRefreshed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_sources_refreshed_total",
			Help: "Source refreshes attempted by the worker, by status",
		}, []string{"status"}),
	}
}

// RecordJob records one finished run of job.
func (m *Metrics) RecordJob(job, status string, duration time.Duration, finished time.Time) {
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
	m.JobDuration.WithLabelValues(job).Observe(duration.Seconds())
	if status == StatusSuccess {
		m.JobLastSuccess.WithLabelValues(job).Set(float64(finished.Unix()))
	}
}

// RecordSources adds the refreshed and failed source counts of one run.
func (m *Metrics) RecordSources(succeeded, failed int) {
	m.SourcesRefreshed.WithLabelValues(StatusSuccess).Add(float64(succeeded))
	m.SourcesRefreshed.WithLabelValues(StatusFailure).Add(float64(failed))
}
