package portfolio

import (
	"context"
	"log"
	"sync"
	"time"

	"cryptoKeepBot/internal/market"
	"cryptoKeepBot/internal/storage"
)

// Gateway is the slice of the market client the scheduler needs.
type Gateway interface {
	FetchPrices(ctx context.Context) (market.Snapshot, error)
}

// Store is the slice of the holdings store the scheduler needs.
type Store interface {
	List() ([]storage.Holding, error)
	UpdatePrice(symbol string, price float64) error
}

// Update is what subscribers receive after a successful refresh.
type Update struct {
	Holdings []storage.Holding
	Summary  Summary
}

// Scheduler drives periodic and on-demand price refreshes. At most one
// refresh runs at a time; a trigger that arrives mid-refresh is dropped, not
// queued. Failures leave subscribers at their previous state and are retried
// on the next natural trigger.
type Scheduler struct {
	gateway  Gateway
	store    Store
	engine   *Engine
	rates    *Rates
	interval time.Duration

	mu         sync.Mutex
	refreshing bool
	subs       []func(Update)
}

func NewScheduler(gateway Gateway, store Store, engine *Engine, rates *Rates, interval time.Duration) *Scheduler {
	return &Scheduler{
		gateway:  gateway,
		store:    store,
		engine:   engine,
		rates:    rates,
		interval: interval,
	}
}

// Subscribe registers fn for refresh results. Subscribers run sequentially
// on the refresh goroutine, in registration order.
func (s *Scheduler) Subscribe(fn func(Update)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Trigger requests a refresh and returns immediately. It is a no-op while a
// refresh is already in flight.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		return
	}
	s.refreshing = true
	s.mu.Unlock()
	go s.refresh()
}

// Run triggers once immediately, then on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	s.Trigger()
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Trigger()
		}
	}
}

func (s *Scheduler) refresh() {
	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	snap, err := s.gateway.FetchPrices(ctx)
	if err != nil {
		log.Printf("refresh: price fetch failed: %v", err)
		return
	}
	holdings, err := s.store.List()
	if err != nil {
		log.Printf("refresh: holdings load failed: %v", err)
		return
	}
	holdings, summary := s.engine.Valuate(holdings, snap, s.rates.Rate())
	for _, h := range holdings {
		if err := s.store.UpdatePrice(h.Symbol, h.PriceUSD); err != nil {
			log.Printf("refresh: price persist for %s failed: %v", h.Symbol, err)
		}
	}

	s.mu.Lock()
	subs := make([]func(Update), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	u := Update{Holdings: holdings, Summary: summary}
	for _, fn := range subs {
		fn(u)
	}
	log.Printf("refresh: %d holdings, total %s (%+.2f%%)", len(holdings), FormatCNY(summary.TotalValue), summary.ChangePercent)
}
