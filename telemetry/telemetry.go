// Package telemetry exposes named counters for the search, mirroring the
// teacher's pkg/stat.Val registry but backed by Prometheus instead of the
// teacher's bespoke graphing server. The package never opens a socket: it
// only builds an inert http.Handler that a host process may choose to
// mount on its own listener.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Val is a single named counter, safe for concurrent use from multiple
// chains.
type Val struct {
	name string
	c    prometheus.Counter
}

// Add increments the counter by delta. delta must be non-negative, as with
// any Prometheus counter.
func (v *Val) Add(delta float64) {
	if v == nil {
		return
	}
	v.c.Add(delta)
}

// Name returns the counter's registered name.
func (v *Val) Name() string {
	if v == nil {
		return ""
	}
	return v.name
}

// Registry owns a set of Vals and the Prometheus registry backing them.
// Chains obtain Vals through New; a nil *Registry is valid and yields
// no-op Vals, so instrumentation stays optional end to end.
type Registry struct {
	mu   sync.Mutex
	reg  *prometheus.Registry
	vals map[string]*Val
}

// NewRegistry builds an empty, unstarted metrics registry.
func NewRegistry() *Registry {
	return &Registry{reg: prometheus.NewRegistry(), vals: make(map[string]*Val)}
}

// New registers and returns a named counter, or returns the existing one
// if name was already registered; the existing counter keeps the help
// string it was first registered with.
func (r *Registry) New(name, help string) *Val {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vals[name]; ok {
		return v
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: sanitizeName(name),
		Help: help,
	})
	r.reg.MustRegister(c)
	v := &Val{name: name, c: c}
	r.vals[name] = v
	return v
}

// Handler returns an http.Handler serving this registry's metrics in the
// Prometheus exposition format, wrapped with the teacher's gzip and panic
// recovery middleware. The caller is responsible for mounting it on a
// listener; this package never does so itself.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	h := promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
	return handlers.RecoveryHandler()(handlers.CompressHandler(h))
}

func sanitizeName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
