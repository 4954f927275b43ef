package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoKeepBot/internal/market"
	"cryptoKeepBot/internal/storage"
)

func TestValuate_ComputesTotalsAndChange(t *testing.T) {
	e := NewEngine()
	holdings := []storage.Holding{{Symbol: "BTC", Name: "Bitcoin", Amount: 2}}
	snap := market.Snapshot{"BTC": {Symbol: "BTCUSDT", LastPr: "50000", Open: "49000", Change24h: "0.0204"}}

	updated, s := e.Valuate(holdings, snap, 7.2)

	require.Len(t, updated, 1)
	assert.Equal(t, 50000.0, updated[0].PriceUSD)
	assert.InDelta(t, 720000.0, s.TotalValue, 1e-6)
	assert.InDelta(t, 14400.0, s.ChangeAmount, 1e-6)
	assert.InDelta(t, 2.0408, s.ChangePercent, 0.001)
}

func TestValuate_SymbolMissingFromSnapshotKeepsStalePrice(t *testing.T) {
	e := NewEngine()
	holdings := []storage.Holding{{Symbol: "ETH", Name: "Ethereum", Amount: 1, PriceUSD: 3000}}

	updated, s := e.Valuate(holdings, market.Snapshot{}, 7.2)

	assert.Equal(t, 3000.0, updated[0].PriceUSD)
	assert.InDelta(t, 21600.0, s.TotalValue, 1e-6)
	// no 24h baseline this cycle: the percentage guards to zero while the
	// change amount still spans the full stale total
	assert.Equal(t, 0.0, s.ChangePercent)
	assert.InDelta(t, 21600.0, s.ChangeAmount, 1e-6)
}

func TestValuate_UnparsablePriceBecomesZeroButHoldingStays(t *testing.T) {
	e := NewEngine()
	holdings := []storage.Holding{{Symbol: "DOGE", Name: "Dogecoin", Amount: 10, PriceUSD: 0.5}}
	snap := market.Snapshot{"DOGE": {LastPr: "garbage", Open: "nope", Change24h: ""}}

	updated, s := e.Valuate(holdings, snap, 7.2)

	require.Len(t, updated, 1)
	assert.Equal(t, 0.0, updated[0].PriceUSD)
	assert.Equal(t, 0.0, s.TotalValue)
	assert.Equal(t, 0.0, s.ChangePercent)
}

func TestValuate_MixedSnapshotCoverage(t *testing.T) {
	e := NewEngine()
	holdings := []storage.Holding{
		{Symbol: "BTC", Name: "Bitcoin", Amount: 1},
		{Symbol: "ETH", Name: "Ethereum", Amount: 2, PriceUSD: 3000},
	}
	snap := market.Snapshot{"BTC": {LastPr: "50000", Open: "49000", Change24h: "0.02"}}

	_, s := e.Valuate(holdings, snap, 1)

	// total counts the stale ETH value, the baseline counts only BTC
	assert.InDelta(t, 56000.0, s.TotalValue, 1e-6)
	assert.InDelta(t, 7000.0, s.ChangeAmount, 1e-6)
	assert.InDelta(t, 7000.0/49000.0*100, s.ChangePercent, 1e-6)
}

func TestPriceChange_RetainedWhenSnapshotOmitsSymbol(t *testing.T) {
	e := NewEngine()
	holdings := []storage.Holding{{Symbol: "BTC", Name: "Bitcoin", Amount: 1}}
	e.Valuate(holdings, market.Snapshot{"BTC": {LastPr: "100", Open: "90", Change24h: "0.111"}}, 1)

	pc, ok := e.PriceChange("BTC")
	require.True(t, ok)
	assert.InDelta(t, 11.1, pc, 1e-9)

	e.Valuate(holdings, market.Snapshot{}, 1)
	pc, ok = e.PriceChange("BTC")
	require.True(t, ok)
	assert.InDelta(t, 11.1, pc, 1e-9)
}
