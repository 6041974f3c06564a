package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites(t *testing.T) {
	s := newTestStore(t)
	a := seedItem(t, s, "Item A", "Partner One", 50)
	b := seedItem(t, s, "Item B", "Partner Two", 30)

	require.NoError(t, s.AddFavorite("account:1", a.ID))
	require.NoError(t, s.AddFavorite("account:1", b.ID))
	// Favoriting twice is a no-op.
	require.NoError(t, s.AddFavorite("account:1", a.ID))

	items, err := s.GetFavorites("account:1")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	ids, err := s.GetFavoriteIDs("account:1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{a.ID, b.ID}, ids)

	require.NoError(t, s.RemoveFavorite("account:1", a.ID))
	ids, err = s.GetFavoriteIDs("account:1")
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids)

	// Other owners are unaffected.
	other, err := s.GetFavorites("account:2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAddFavoriteUnknownItem(t *testing.T) {
	s := newTestStore(t)
	err := s.AddFavorite("account:1", 9999)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}
