package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/folio-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/folio-agent/internal/app/chat"
	"github.com/PabloGalante/folio-agent/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := memory.NewSessionStore(2)

	a := chat.NewController("a", nil)
	b := chat.NewController("b", nil)
	require.NoError(t, store.CreateSession(a))
	require.NoError(t, store.CreateSession(b))

	assert.ErrorIs(t, store.CreateSession(chat.NewController("a", nil)), domain.ErrSessionExists)
	assert.ErrorIs(t, store.CreateSession(chat.NewController("c", nil)), domain.ErrTooManySessions)

	got, err := store.GetSession("a")
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Len(t, store.ListSessions(), 2)

	removed, err := store.DeleteSession("a")
	require.NoError(t, err)
	assert.Same(t, a, removed)

	_, err = store.GetSession("a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = store.DeleteSession("a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, store.CreateSession(chat.NewController("c", nil)))
}
