package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutAndGet(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("%PDF-1.4 fake")
	require.NoError(t, store.Put(ctx, "pitch_decks/acme.pdf", data))

	got, err := store.Get(ctx, "pitch_decks/acme.pdf")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalStore_GetMissingKey(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "pitch_decks/gone.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{
		"../outside.pdf",
		"../../etc/passwd",
		"/etc/passwd",
		"pitch_decks/../../outside.pdf",
	} {
		_, err := store.Get(ctx, key)
		assert.Error(t, err, "key %q must be rejected", key)
		assert.NotErrorIs(t, err, ErrNotFound)

		err = store.Put(ctx, key, []byte("x"))
		assert.Error(t, err, "key %q must be rejected", key)
	}
}
