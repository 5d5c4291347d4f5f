package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"labeler/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "sess-123")
	ctx = services.WithItemIndex(ctx, 4)
	ctx = services.WithComponent(ctx, "organizer")

	id, ok := services.SessionIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "sess-123", id)

	idx, ok := services.ItemIndexFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, 4, idx)

	component, ok := services.ComponentFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "organizer", component)
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "")
	ctx = services.WithComponent(ctx, "")

	_, ok := services.SessionIDFromContext(ctx)
	assert.False(t, ok)
	_, ok = services.ComponentFromContext(ctx)
	assert.False(t, ok)
	_, ok = services.ItemIndexFromContext(ctx)
	assert.False(t, ok)
}
