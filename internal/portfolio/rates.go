package portfolio

import (
	"context"
	"log"
	"sync"
)

// DefaultUSDToCNY seeds the conversion rate until the first successful
// refresh from the FX endpoint.
const DefaultUSDToCNY = 7.15

// Rates owns the process-wide USD to local-currency conversion rate.
type Rates struct {
	mu   sync.Mutex
	rate float64
}

func NewRates() *Rates { return &Rates{rate: DefaultUSDToCNY} }

func (r *Rates) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rate
}

type fxSource interface {
	FetchConversionRate(ctx context.Context) (float64, error)
}

// Refresh updates the rate from src. On failure the previous rate is kept;
// the default is never restored mid-session.
func (r *Rates) Refresh(ctx context.Context, src fxSource) {
	rate, err := src.FetchConversionRate(ctx)
	if err != nil {
		log.Printf("rates: refresh failed, keeping %.4f: %v", r.Rate(), err)
		return
	}
	r.mu.Lock()
	r.rate = rate
	r.mu.Unlock()
	log.Printf("rates: usd/cny updated to %.4f", rate)
}
