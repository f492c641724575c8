// Package fetch holds the clients for the hospital backend endpoints the
// session core depends on: the permission listing and the panel catalogue.
// Both run behind a circuit breaker so a flapping backend degrades to the
// persisted-snapshot path instead of queueing retries.
package fetch

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerSettings builds the circuit-breaker settings shared by the
// backend clients. The breaker opens after five consecutive failures and
// probes again after the timeout.
func BreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}
