package facade

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/avos-io/facade/internal/metrics"
)

// StubOption is an option used when constructing a NewStub.
type StubOption interface {
	apply(*Stub)
}

type stubOptFunc func(*Stub)

func (fn stubOptFunc) apply(s *Stub) {
	fn(s)
}

// WithoutSuffixFallback returns a StubOption that makes the stub resolve
// fully qualified method names only.
func WithoutSuffixFallback() StubOption {
	return stubOptFunc(func(s *Stub) {
		s.suffixFallback = false
	})
}

// RegisterMetrics registers the facade's Prometheus collectors with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	return metrics.Register(reg)
}
