// Package events publishes task lifecycle events to interested handlers.
//
// TaskService emits an event after every successful mutation. Handlers are
// registered once at startup on an InMemoryEventEmitter; the package ships a
// LoggingHandler and a CounterHandler that feeds Prometheus.
package events
