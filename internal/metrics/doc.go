// Package metrics declares the Prometheus collectors of plparse and the
// adapters feeding them: a resolver observer and HTTP middleware.
package metrics
