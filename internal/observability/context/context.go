package context

import (
	"context"
	"strings"
)

const (
	ResourceCustomer = "customer"
	ResourceRecord   = "record"
	ResourceReport   = "report"
	ResourceProbe    = "probe"
	ResourceUnknown  = "unknown"
)

type requestIDKey struct{}

type resourceKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDKey{}).(string); ok {
		return value
	}
	return ""
}

// WithResource tags the context with the ledger resource a request touches.
func WithResource(ctx context.Context, resource string) context.Context {
	if resource == "" || resource == ResourceUnknown {
		return ctx
	}
	return context.WithValue(ctx, resourceKey{}, resource)
}

func ResourceFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(resourceKey{}).(string); ok {
		return value
	}
	return ""
}

// ResourceFromRoute maps a gin route template to its resource name.
func ResourceFromRoute(route string) string {
	route = strings.TrimSpace(route)
	switch {
	case route == "/health" || route == "/metrics":
		return ResourceProbe
	case strings.HasPrefix(route, "/customers"):
		return ResourceCustomer
	case strings.HasPrefix(route, "/records"):
		return ResourceRecord
	case strings.HasPrefix(route, "/reports"):
		return ResourceReport
	default:
		return ResourceUnknown
	}
}
