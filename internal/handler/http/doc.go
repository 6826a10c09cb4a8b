// Package http serves the client's local observability endpoints:
// Prometheus metrics, a health probe and the build version.
//
// Every request gets a trace ID (taken from X-Trace-ID or generated) that is
// attached to the request-scoped logger, and is access-logged on completion.
package http
