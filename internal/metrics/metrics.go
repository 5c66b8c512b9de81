// Package metrics holds the Prometheus collectors of the facade.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "facade"

var (
	// TranslatedErrors counts errors crossing the facade boundary, by public
	// error kind.
	TranslatedErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translated_errors_total",
			Help:      "RPC errors translated into the public error vocabulary.",
		},
		[]string{"kind"},
	)

	// MethodResolutions counts stub method lookups, by the path that
	// resolved them: "exact", "suffix" or "unknown".
	MethodResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "method_resolutions_total",
			Help:      "Stub method lookups by resolution path.",
		},
		[]string{"path"},
	)
)

// Register registers every facade collector with reg. Collectors that are
// already registered with reg are left as they are.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{TranslatedErrors, MethodResolutions} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return errors.Wrap(err, "metrics: register")
		}
	}
	return nil
}
