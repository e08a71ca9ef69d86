package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.SetClock(func() time.Time { return fixedNow })

	a, err := m.Create(ctx, "first")
	require.NoError(t, err)
	b, err := m.Create(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.Completed)
	assert.Equal(t, fixedNow, a.CreatedAt)

	later := fixedNow.Add(time.Minute)
	m.SetClock(func() time.Time { return later })
	done, err := m.UpdateCompleted(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, later, done.UpdatedAt)
	assert.Equal(t, fixedNow, done.CreatedAt)

	all, err := m.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Text)
	assert.True(t, all[1].Completed)

	// mutating the returned slice must not leak into the store
	all[0].Text = "changed"
	got, err := m.Find(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Text)

	_, err = m.Find(ctx, 99)
	assert.True(t, IsNotFound(err))
	_, err = m.UpdateCompleted(ctx, 99)
	assert.True(t, IsNotFound(err))

	require.NoError(t, m.DestroyAll(ctx))
	all, err = m.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	c, err := m.Create(ctx, "after destroy")
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
}

func TestMemorySatisfiesBackend(t *testing.T) {
	var _ Backend = NewMemory()
	var _ Backend = (*Store)(nil)
}
