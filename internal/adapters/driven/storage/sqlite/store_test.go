package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-io/docchat/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_Migrates(t *testing.T) {
	store := newTestStore(t)

	// Migrations must be idempotent across reopen.
	path := store.Path()
	require.NoError(t, store.Close())

	reopened, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer reopened.Close()

	assert.NotEmpty(t, path)
}

func TestCreateAndGetSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "alice", "What is Go?")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Positive(t, created.ID)
	assert.Equal(t, "alice", created.Owner)
	assert.Equal(t, "What is Go?", created.Title)

	got, err := store.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, "What is Go?", got.Title)
}

func TestGetSession_NotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetSession(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Nil(t, got)
}

func TestSaveMessage_BumpsSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "alice", "t")
	require.NoError(t, err)

	msg, err := store.SaveMessage(ctx, session.ID, domain.RoleUser, "hello")
	require.NoError(t, err)
	assert.Positive(t, msg.ID)
	assert.Equal(t, session.ID, msg.SessionID)
	assert.Equal(t, domain.RoleUser, msg.Role)

	updated, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(session.UpdatedAt))
}

func TestRecentMessages_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "alice", "t")
	require.NoError(t, err)

	for _, content := range []string{"one", "two", "three", "four"} {
		_, err := store.SaveMessage(ctx, session.ID, domain.RoleUser, content)
		require.NoError(t, err)
	}

	recent, err := store.RecentMessages(ctx, session.ID, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "four", recent[0].Content)
	assert.Equal(t, "three", recent[1].Content)
	assert.Equal(t, "two", recent[2].Content)
}

func TestSessionMessages_Chronological(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "alice", "t")
	require.NoError(t, err)

	_, err = store.SaveMessage(ctx, session.ID, domain.RoleUser, "question")
	require.NoError(t, err)
	_, err = store.SaveMessage(ctx, session.ID, domain.RoleAssistant, "answer")
	require.NoError(t, err)

	msgs, err := store.SessionMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, "question", msgs[0].Content)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "answer", msgs[1].Content)
}

func TestSessionsForOwner_Isolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateSession(ctx, "alice", "a1")
	require.NoError(t, err)
	_, err = store.CreateSession(ctx, "bob", "b1")
	require.NoError(t, err)
	_, err = store.CreateSession(ctx, "alice", "a2")
	require.NoError(t, err)

	sessions, err := store.SessionsForOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		assert.Equal(t, "alice", s.Owner)
	}

	none, err := store.SessionsForOwner(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteSession_CascadesAndScopes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "alice", "t")
	require.NoError(t, err)
	_, err = store.SaveMessage(ctx, session.ID, domain.RoleUser, "hello")
	require.NoError(t, err)

	// Wrong owner deletes nothing.
	deleted, err := store.DeleteSession(ctx, session.ID, "bob")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.DeleteSession(ctx, session.ID, "alice")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	msgs, err := store.SessionMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestPing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
