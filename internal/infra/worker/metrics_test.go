package worker

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordJob(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	finished := time.Unix(1_700_000_000, 0)

	m.RecordJob(JobRefresh, StatusSuccess, 2*time.Second, finished)
	m.RecordJob(JobRefresh, StatusFailure, time.Second, finished.Add(time.Hour))
	m.RecordJob(JobSweep, StatusSuccess, 10*time.Millisecond, finished)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues(JobRefresh, StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues(JobRefresh, StatusFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues(JobSweep, StatusSuccess)))

	// A failed run leaves the last success untouched.
	assert.Equal(t, float64(finished.Unix()), testutil.ToFloat64(m.JobLastSuccess.WithLabelValues(JobRefresh)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.JobDuration))
}

func TestMetrics_RecordSources(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordSources(3, 0)
	m.RecordSources(1, 2)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.SourcesRefreshed.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SourcesRefreshed.WithLabelValues(StatusFailure)))
}

func TestNewMetrics_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordJob(JobSweep, StatusSuccess, time.Second, time.Now())

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["worker_job_runs_total"])
	assert.True(t, names["worker_job_duration_seconds"])
	assert.True(t, names["worker_job_last_success_timestamp"])

	// A second registration on the same registry collides.
	assert.Panics(t, func() { NewMetrics(reg) })
}
