package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/calendar-assistant/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ident, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, ident)

	require.NoError(t, s.Save(ctx, model.Identity{UserID: 7, Login: "alice", Description: "note"}))

	ident, err = s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, ident)
	assert.Equal(t, int64(7), ident.UserID)
	assert.Equal(t, "alice", ident.Login)

	// Saving again overwrites the single slot.
	require.NoError(t, s.Save(ctx, model.Identity{UserID: 8, Login: "bob"}))
	ident, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", ident.Login)

	require.NoError(t, s.Clear(ctx))
	ident, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, ident)
}

func TestManagerLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m, err := NewManager(ctx, s)
	require.NoError(t, err)
	assert.Nil(t, m.Current())

	require.NoError(t, m.SignIn(ctx, model.Identity{UserID: 7, Login: "alice"}))
	require.NotNil(t, m.Current())
	assert.Equal(t, "alice", m.Current().Login)

	// A fresh manager sees the persisted identity.
	m2, err := NewManager(ctx, s)
	require.NoError(t, err)
	require.NotNil(t, m2.Current())
	assert.Equal(t, int64(7), m2.Current().UserID)

	require.NoError(t, m.UpdateDescription(ctx, "new note"))
	assert.Equal(t, "new note", m.Current().Description)

	require.NoError(t, m.SignOut(ctx))
	assert.Nil(t, m.Current())
}
