// Package api serves the resolver over HTTP.
//
// Routes are registered on a gorilla/mux router:
//
//	GET /api/resolve?uri=&base=&fallback=&shallow=   resolve and return the events
//	GET /api/classify?uri=                           type and dispatch behaviour
//	GET /api/history                                 recent runs (?limit=)
//	GET /api/history/{id}                            one run with its events
//	GET /api/health                                  liveness summary
//	GET /metrics                                     Prometheus exposition
//
// Every resolution served by /api/resolve is recorded in the history store
// when one is configured. DTOs use snake_case JSON tags matching the history
// store's Run encoding; events use the plparser.Event wire form.
package api
