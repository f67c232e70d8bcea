// Package metrics provides the Prometheus metrics of the HTTP surface and of the
// scraping pipeline. All metrics register with the default registry and are
// exposed on /metrics.
//
//	metrics.RecordIngest("science", stats.Inserted, stats.Duplicated, stats.Failed, stats.Invalid)
//	metrics.RecordResolution("society", metrics.OutcomeCached)
package metrics
