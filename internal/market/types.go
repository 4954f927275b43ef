package market

import (
	"strconv"
	"strings"
)

// Quote mirrors one entry of the quote feed (trimmed to needed fields).
// Numeric fields arrive as strings and may be absent or garbage; the
// accessors report ok=false instead of failing the whole response.
type Quote struct {
	Symbol    string `json:"symbol"`
	LastPr    string `json:"lastPr"`
	Change24h string `json:"change24h"`
	Open      string `json:"open"`
}

// Price returns the last traded price in USD.
func (q Quote) Price() (float64, bool) {
	return parseField(q.LastPr)
}

// OpenPrice returns the 24h open price in USD.
func (q Quote) OpenPrice() (float64, bool) {
	return parseField(q.Open)
}

// ChangePercent converts the fractional change24h field to a percentage.
func (q Quote) ChangePercent() (float64, bool) {
	v, ok := parseField(q.Change24h)
	if !ok {
		return 0, false
	}
	return v * 100, true
}

func parseField(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Snapshot is one refresh cycle's quotes, keyed by base symbol.
type Snapshot map[string]Quote

type priceResponse struct {
	Code string  `json:"code"`
	Data []Quote `json:"data"`
}

type fxEnvelope struct {
	Code    string   `json:"code"`
	Data    []fxItem `json:"data"`
	Success bool     `json:"success"`
}

type fxItem struct {
	Asset          string  `json:"asset"`
	Currency       string  `json:"currency"`
	ReferencePrice float64 `json:"referencePrice"`
}
