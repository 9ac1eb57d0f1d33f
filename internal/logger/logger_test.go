package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)

	// must not panic and must not write anywhere
	l.Info().Str("k", "v").Msg("dropped")
}

func TestChild_InheritsParent(t *testing.T) {
	parent := Nop()
	child := parent.Child()

	require.NotNil(t, child)
	assert.NotSame(t, parent, child)
}

func TestFromContext_WithoutLogger(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	l.Debug().Msg("global fallback")
}

func TestFromRequest_RoundTrip(t *testing.T) {
	l := Nop()

	r := httptest.NewRequest("GET", "/session", nil)
	r = r.WithContext(l.WithContext(r.Context()))

	got := FromRequest(r)
	require.NotNil(t, got)
	got.Info().Msg("request scoped")
}
