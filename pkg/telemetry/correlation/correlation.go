package correlation

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
)

// HeaderName carries the correlation id between callers and this service.
const HeaderName = "X-Correlation-Id"

const maxLength = 64

type correlationKey struct{}

// ExtractCorrelationID fetches a correlation ID from the context if present.
func ExtractCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(correlationKey{}).(string); ok {
		return val
	}
	return ""
}

// ContextWithCorrelationID stores id on the context. Ids that are empty, too
// long, or carry characters outside [A-Za-z0-9._-] are ignored.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if !Valid(id) {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// FromHeader adopts the caller's correlation id when it is usable and mints
// a ULID otherwise. An id already on the context wins over the header.
func FromHeader(ctx context.Context, header string) (context.Context, string) {
	if cid := ExtractCorrelationID(ctx); cid != "" {
		return ctx, cid
	}
	header = strings.TrimSpace(header)
	if !Valid(header) {
		header = ulid.Make().String()
	}
	return context.WithValue(ctx, correlationKey{}, header), header
}

func Valid(id string) bool {
	if id == "" || len(id) > maxLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
