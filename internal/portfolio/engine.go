package portfolio

import (
	"sync"

	"cryptoKeepBot/internal/market"
	"cryptoKeepBot/internal/storage"
)

// Summary is one refresh cycle's aggregate valuation in local currency.
type Summary struct {
	TotalValue    float64
	ChangeAmount  float64
	ChangePercent float64
}

// Engine merges holdings with a market snapshot. It also keeps the last
// known 24h change per symbol for row-level display; entries survive
// refreshes that omit the symbol.
type Engine struct {
	mu      sync.Mutex
	changes map[string]float64
}

func NewEngine() *Engine {
	return &Engine{changes: map[string]float64{}}
}

// Valuate overwrites each holding's unit price from the snapshot and
// returns the holdings together with the aggregate summary.
//
// A holding present in the snapshot gets the quoted last price, even when
// that price is unparsable (it then becomes 0; the holding is kept). A
// holding missing from the snapshot keeps its previous price and still
// counts toward the total, but is excluded from the 24h open baseline, so
// the change amount compares the full total against a snapshot-only
// baseline while the percentage guards on a zero baseline.
func (e *Engine) Valuate(holdings []storage.Holding, snap market.Snapshot, rate float64) ([]storage.Holding, Summary) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var totalUSD, openUSD float64
	for i := range holdings {
		h := &holdings[i]
		if q, ok := snap[h.Symbol]; ok {
			price, _ := q.Price()
			h.PriceUSD = price
			open, _ := q.OpenPrice()
			openUSD += h.Amount * open
			if pc, ok := q.ChangePercent(); ok {
				e.changes[h.Symbol] = pc
			}
		}
		totalUSD += h.Amount * h.PriceUSD
	}

	changeAmount := (totalUSD - openUSD) * rate
	changePercent := 0.0
	if openUSD > 0 {
		changePercent = changeAmount / (openUSD * rate) * 100
	}
	return holdings, Summary{
		TotalValue:    totalUSD * rate,
		ChangeAmount:  changeAmount,
		ChangePercent: changePercent,
	}
}

// PriceChange returns the last known 24h change for symbol, if any was ever
// observed.
func (e *Engine) PriceChange(symbol string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pc, ok := e.changes[symbol]
	return pc, ok
}
