package session

import (
	"testing"

	"github.com/gentleman753/campuseats/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_SameSessionSameStore(t *testing.T) {
	m := NewManager()
	id := m.NewSessionID()

	store := m.Cart(id)
	err := store.AddItem(domain.MenuItem{ID: "i1", CanteenID: "c1", Price: 40}, 1)
	require.NoError(t, err)

	again := m.Cart(id)
	assert.Same(t, store, again)
	assert.Equal(t, 1, again.Snapshot().ItemCount)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	m := NewManager()

	a := m.Cart(m.NewSessionID())
	b := m.Cart(m.NewSessionID())
	require.NoError(t, a.AddItem(domain.MenuItem{ID: "i1", CanteenID: "c1", Price: 40}, 1))

	assert.True(t, b.Snapshot().IsEmpty())
}

func TestEnd_RetiresStore(t *testing.T) {
	m := NewManager()
	id := m.NewSessionID()

	store := m.Cart(id)
	require.NoError(t, store.AddItem(domain.MenuItem{ID: "i1", CanteenID: "c1", Price: 40}, 1))

	m.End(id)

	fresh := m.Cart(id)
	assert.NotSame(t, store, fresh)
	assert.True(t, fresh.Snapshot().IsEmpty())
}
