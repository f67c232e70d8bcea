package metrics

import "time"

// Ingest results.
const (
	ResultInserted  = "inserted"
	ResultDuplicate = "duplicate"
	ResultFailed    = "failed"
	ResultInvalid   = "invalid"
)

// Resolution outcomes.
const (
	OutcomeCached           = "cached"
	OutcomeResolved         = "resolved"
	OutcomeExtractionFailed = "extraction_failed"
	OutcomeTransportError   = "transport_error"
)

// RecordPageFetch records one outbound fetch.
func RecordPageFetch(outcome string, duration time.Duration) {
	PageFetchesTotal.WithLabelValues(outcome).Inc()
	PageFetchDuration.Observe(duration.Seconds())
}

// SetCircuitOpen flags whether the named breaker is open.
func SetCircuitOpen(name string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	CircuitOpen.WithLabelValues(name).Set(v)
}

// RecordIngest records the per-stub results of one ingestion batch.
func RecordIngest(tag string, inserted, duplicated, failed, invalid int) {
	IngestedStubsTotal.WithLabelValues(tag, ResultInserted).Add(float64(inserted))
	IngestedStubsTotal.WithLabelValues(tag, ResultDuplicate).Add(float64(duplicated))
	IngestedStubsTotal.WithLabelValues(tag, ResultFailed).Add(float64(failed))
	IngestedStubsTotal.WithLabelValues(tag, ResultInvalid).Add(float64(invalid))
}

// RecordResolution records the outcome of one body resolution.
func RecordResolution(tag, outcome string) {
	ResolutionsTotal.WithLabelValues(tag, outcome).Inc()
}

// RecordSweep records a completed retention sweep.
func RecordSweep(deleted int64) {
	SweptArticlesTotal.Add(float64(deleted))
}

// RecordSweepDenied records a sweep rejected for lack of privilege.
func RecordSweepDenied() {
	SweepDenialsTotal.Inc()
}

// UpdateArticlesStored sets the stored article gauge.
func UpdateArticlesStored(count int64) {
	ArticlesStored.Set(float64(count))
}
