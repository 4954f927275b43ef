package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var backoffs = []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second}

// Client talks to the quote feed and the FX reference-rate endpoint.
type Client struct {
	priceURL string
	fxURL    string
	http     *http.Client
}

func NewClient(priceURL, fxURL string) *Client {
	return &Client{
		priceURL: priceURL,
		fxURL:    fxURL,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchPrices returns the current quotes keyed by base symbol. The feed
// quotes USDT pairs; the pair suffix is stripped so holdings can look up
// their own symbol directly.
func (c *Client) FetchPrices(ctx context.Context) (Snapshot, error) {
	body, err := c.getJSON(ctx, c.priceURL)
	if err != nil {
		return nil, err
	}
	var pr priceResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("parse quote feed: %v; body: %s", err, preview(body))
	}
	snap := make(Snapshot, len(pr.Data))
	for _, q := range pr.Data {
		snap[strings.TrimSuffix(q.Symbol, "USDT")] = q
	}
	return snap, nil
}

// FetchConversionRate returns the USDT to CNY reference price.
func (c *Client) FetchConversionRate(ctx context.Context) (float64, error) {
	body, err := c.getJSON(ctx, c.fxURL)
	if err != nil {
		return 0, err
	}
	var env fxEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return 0, fmt.Errorf("parse fx response: %v; body: %s", err, preview(body))
	}
	for _, item := range env.Data {
		if strings.EqualFold(item.Asset, "USDT") && strings.EqualFold(item.Currency, "CNY") {
			if item.ReferencePrice <= 0 {
				return 0, fmt.Errorf("fx returned non-positive rate %f", item.ReferencePrice)
			}
			return item.ReferencePrice, nil
		}
	}
	return 0, errors.New("usdt/cny reference rate not found")
}

// getJSON fetches url with a few retries, rejecting bodies that are clearly
// not JSON (error pages, rate-limit banners).
func (c *Client) getJSON(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < len(backoffs)+1; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoffs[attempt-1]):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("feed returned %d: %s", resp.StatusCode, preview(body))
			continue
		}
		if strings.HasPrefix(string(body), "<") {
			lastErr = fmt.Errorf("feed returned non-json body: %s", preview(body))
			continue
		}
		return body, nil
	}
	return nil, lastErr
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
