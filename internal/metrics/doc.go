// Package metrics exposes session counters in the Prometheus text format.
//
// There is no registry: every scrape builds fresh client_model metric
// families from the live counters and encodes them with expfmt.
package metrics
