package router

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

var tracer = otel.Tracer("waypoint.router")

func startNavigationSpan(ctx context.Context, id string, trig trigger, target string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "router.Navigate",
		trace.WithAttributes(
			attribute.String("navigation.id", id),
			attribute.String("navigation.trigger", string(trig)),
			attribute.String("navigation.target", target),
		),
	)
}

// endNavigationSpan closes span. Cancellations and redirects are expected
// outcomes and are recorded as events rather than errors.
func endNavigationSpan(span trace.Span, loc *route.Location, err error, redirected bool) {
	defer span.End()

	if redirected {
		span.AddEvent("redirected")
	}

	switch {
	case err == nil:
		if loc != nil {
			span.SetAttributes(attribute.String("navigation.committed", loc.FullPath))
		}
		span.SetStatus(codes.Ok, "")
	case IsCancelled(err):
		span.AddEvent("cancelled")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
