package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SessionMetrics counts session reloads and denied access checks. It plugs
// into session.Manager through its Metrics option.
type SessionMetrics struct {
	reloads metric.Int64Counter
	denials metric.Int64Counter
}

// NewSessionMetrics creates the session counters on the given meter name.
func NewSessionMetrics(serviceName string) (*SessionMetrics, error) {
	meter := otel.Meter(serviceName)

	reloads, err := meter.Int64Counter(
		"session.reloads",
		metric.WithDescription("Permission reloads, labelled by outcome"),
	)
	if err != nil {
		return nil, err
	}

	denials, err := meter.Int64Counter(
		"session.access_denied",
		metric.WithDescription("Access checks that answered no, labelled by check kind"),
	)
	if err != nil {
		return nil, err
	}

	return &SessionMetrics{reloads: reloads, denials: denials}, nil
}

// ReloadCompleted records one finished reload.
func (m *SessionMetrics) ReloadCompleted(ctx context.Context, success bool) {
	m.reloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// AccessDenied records one denied access check.
func (m *SessionMetrics) AccessDenied(ctx context.Context, kind string) {
	m.denials.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
