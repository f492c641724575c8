package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GinMiddleware creates a Gin middleware for automatic tracing.
func GinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceHandler wraps a handler function with tracing.
func TraceHandler(obs ObservabilityIface, handlerName string, handler func(*gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := obs.StartSpan(c.Request.Context(), handlerName,
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", c.FullPath()),
				attribute.String("http.url", c.Request.URL.String()),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		handler(c)
		duration := time.Since(start)

		span.SetAttributes(
			attribute.Int("http.status_code", c.Writer.Status()),
			attribute.Int64("http.duration_ms", duration.Milliseconds()),
		)

		if c.Writer.Status() >= 400 {
			span.SetStatus(codes.Error, "HTTP error")
		} else {
			span.SetStatus(codes.Ok, "Success")
		}
	}
}

// TraceBackendCall traces a call to one of the hospital backend services.
func TraceBackendCall(ctx context.Context, obs ObservabilityIface, serviceName string, method string, url string) (context.Context, trace.Span) {
	ctx, span := obs.StartSpan(ctx, fmt.Sprintf("http.%s", serviceName),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", url),
			attribute.String("peer.service", serviceName),
		),
	)
	return ctx, span
}

// TraceReload traces one permission reload for a user and filial.
func TraceReload(ctx context.Context, obs ObservabilityIface, usuarioID, filialID int) (context.Context, trace.Span) {
	return obs.StartSpan(ctx, "session.reload",
		trace.WithAttributes(
			AttrUsuarioID.Int(usuarioID),
			AttrFilialID.Int(filialID),
		),
	)
}
