package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "menu:t1")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "menu:t1", []byte("[]"), time.Minute))
	got, err := m.Get(ctx, "menu:t1")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), got)

	require.NoError(t, m.Delete(ctx, "menu:t1"))
	_, err = m.Get(ctx, "menu:t1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(2 * time.Minute)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}
