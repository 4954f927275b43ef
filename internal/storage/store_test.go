package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenSQLite("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(db))
	return NewStore(db)
}

func TestList_SortedByName(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()
	require.NoError(t, s.Upsert(Holding{Symbol: "SOL", Name: "Solana", Amount: 3, UpdatedAt: now}))
	require.NoError(t, s.Upsert(Holding{Symbol: "BTC", Name: "Bitcoin", Amount: 1, UpdatedAt: now}))
	require.NoError(t, s.Upsert(Holding{Symbol: "ETH", Name: "Ethereum", Amount: 2, UpdatedAt: now}))

	got, err := s.List()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Bitcoin", "Ethereum", "Solana"},
		[]string{got[0].Name, got[1].Name, got[2].Name})
}

func TestUpsert_MergesOnSymbol(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Upsert(Holding{Symbol: "BTC", Name: "Bitcoin", Amount: 1, PriceUSD: 40000, UpdatedAt: time.Now()}))
	require.NoError(t, s.Upsert(Holding{Symbol: "BTC", Name: "Bitcoin", Amount: 1.5, PriceUSD: 50000, UpdatedAt: time.Now()}))

	got, err := s.Get("BTC")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1.5, got.Amount)
	assert.Equal(t, 50000.0, got.PriceUSD)

	all, err := s.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGet_AbsentSymbolIsNil(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Get("XRP")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete_RemovesHolding(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Upsert(Holding{Symbol: "ADA", Name: "Cardano", Amount: 100, UpdatedAt: time.Now()}))
	require.NoError(t, s.Delete("ADA"))

	got, err := s.Get("ADA")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdatePrice_TouchesOnlyThePrice(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Upsert(Holding{Symbol: "BTC", Name: "Bitcoin", Amount: 2, PriceUSD: 100, UpdatedAt: time.Now()}))
	require.NoError(t, s.UpdatePrice("BTC", 123.45))

	got, err := s.Get("BTC")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2.0, got.Amount)
	assert.Equal(t, "Bitcoin", got.Name)
	assert.Equal(t, 123.45, got.PriceUSD)
}
