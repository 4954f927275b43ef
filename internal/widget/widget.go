package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/vicanso/go-charts/v2"

	"cryptoKeepBot/internal/assets"
	"cryptoKeepBot/internal/market"
	"cryptoKeepBot/internal/portfolio"
	"cryptoKeepBot/internal/storage"
)

// CacheKey is where the rendered summary card lives in the asset cache.
const CacheKey = "widget/summary.png"

type Store interface {
	List() ([]storage.Holding, error)
}

type Gateway interface {
	FetchPrices(ctx context.Context) (market.Snapshot, error)
}

// Widget is the independent read path behind the summary card. It re-reads
// the holdings store and the quote feed on its own schedule, never through
// the app's refresh scheduler, and keeps its own valuation engine.
type Widget struct {
	store    Store
	gateway  Gateway
	rates    *portfolio.Rates
	engine   *portfolio.Engine
	cache    *assets.Cache
	interval time.Duration
}

func New(store Store, gateway Gateway, rates *portfolio.Rates, cache *assets.Cache, interval time.Duration) *Widget {
	return &Widget{
		store:    store,
		gateway:  gateway,
		rates:    rates,
		engine:   portfolio.NewEngine(),
		cache:    cache,
		interval: interval,
	}
}

// Summary rebuilds the valuation directly from the store and the feed.
func (w *Widget) Summary(ctx context.Context) ([]storage.Holding, portfolio.Summary, error) {
	holdings, err := w.store.List()
	if err != nil {
		return nil, portfolio.Summary{}, fmt.Errorf("load holdings: %w", err)
	}
	snap, err := w.gateway.FetchPrices(ctx)
	if err != nil {
		return nil, portfolio.Summary{}, fmt.Errorf("fetch prices: %w", err)
	}
	holdings, summary := w.engine.Valuate(holdings, snap, w.rates.Rate())
	return holdings, summary, nil
}

// Refresh rebuilds and renders the card, caching the result. On failure the
// previously cached card stays in place.
func (w *Widget) Refresh(ctx context.Context) {
	holdings, summary, err := w.Summary(ctx)
	if err != nil {
		log.Printf("widget: refresh failed, keeping previous card: %v", err)
		return
	}
	img, err := w.renderCard(holdings, summary)
	if err != nil {
		log.Printf("widget: render failed: %v", err)
		return
	}
	w.cache.Put(CacheKey, img)
}

// Run refreshes once, then on every tick until ctx is done.
func (w *Widget) Run(ctx context.Context) {
	w.Refresh(ctx)
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.Refresh(ctx)
		}
	}
}

// Card returns the latest rendered summary card, rendering one on demand
// when the cache is cold.
func (w *Widget) Card(ctx context.Context) ([]byte, bool) {
	if img, ok := w.cache.Get(CacheKey); ok {
		return img, true
	}
	w.Refresh(ctx)
	return w.cache.Get(CacheKey)
}

// Handler serves the summary card as PNG.
func (w *Widget) Handler(wr http.ResponseWriter, r *http.Request) {
	img, ok := w.Card(r.Context())
	if !ok {
		http.Error(wr, "no summary available", http.StatusServiceUnavailable)
		return
	}
	wr.Header().Set("Content-Type", "image/png")
	wr.Write(img)
}

// renderCard draws a horizontal bar card of per-holding values with the
// aggregate total and 24h change in the title.
func (w *Widget) renderCard(holdings []storage.Holding, summary portfolio.Summary) ([]byte, error) {
	if len(holdings) == 0 {
		return nil, errors.New("no holdings")
	}
	rate := w.rates.Rate()
	names := make([]string, 0, len(holdings))
	values := make([]float64, 0, len(holdings))
	for _, h := range holdings {
		names = append(names, h.Symbol)
		values = append(values, h.Amount*h.PriceUSD*rate)
	}

	title := "Portfolio " + portfolio.FormatCompactCNY(summary.TotalValue)
	subtitle := fmt.Sprintf("24h %+.2f%% (%s)", summary.ChangePercent, portfolio.FormatCompactCNY(summary.ChangeAmount))
	p, err := charts.HorizontalBarRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.YAxisDataOptionFunc(names),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(600),
		charts.HeightOptionFunc(400),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}
