// Package resilience groups the fault tolerance helpers used around outbound HTTP.
//
//   - circuitbreaker: per-site breakers in front of page fetches
//   - retry: exponential backoff for the scheduled refresh job
package resilience
