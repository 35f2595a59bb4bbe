package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/storage"
	"github.com/rbt-academy/trainer/internal/storage/memory"
)

func TestReadJSON(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	var entries []model.LedgerEntry
	err := storage.ReadJSON(ctx, store, storage.KeyLedger, &entries)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, store.Set(ctx, storage.KeyLedger, []byte("{not json")))
	err = storage.ReadJSON(ctx, store, storage.KeyLedger, &entries)
	assert.ErrorIs(t, err, storage.ErrCorrupt)

	require.NoError(t, storage.WriteJSON(ctx, store, storage.KeyLedger, []model.LedgerEntry{{XP: 5}}))
	require.NoError(t, storage.ReadJSON(ctx, store, storage.KeyLedger, &entries))
	assert.Equal(t, 5, entries[0].XP)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "active_session:objection", storage.SessionKey(model.KindObjection))
}
