package correlation

import (
	"context"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestFromHeaderAdoptsValidID(t *testing.T) {
	ctx, cid := FromHeader(context.Background(), " route-7.a_b ")
	assert.Equal(t, "route-7.a_b", cid)
	assert.Equal(t, cid, ExtractCorrelationID(ctx))
}

func TestFromHeaderMintsULIDForUnusableInput(t *testing.T) {
	for _, header := range []string{"", "has space", "new\nline", strings.Repeat("x", 65)} {
		_, cid := FromHeader(context.Background(), header)
		_, err := ulid.ParseStrict(cid)
		assert.NoError(t, err, "header %q", header)
	}
}

func TestFromHeaderKeepsExistingID(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "upstream")
	_, cid := FromHeader(ctx, "other")
	assert.Equal(t, "upstream", cid)
}

func TestContextWithCorrelationIDIgnoresInvalid(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "bad id")
	assert.Empty(t, ExtractCorrelationID(ctx))
}
