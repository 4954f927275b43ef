package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPrices_KeysByBaseSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":"00000","data":[
			{"symbol":"BTCUSDT","lastPr":"50000","change24h":"0.0204","open":"49000"},
			{"symbol":"ETHUSDT","lastPr":"not-a-number","change24h":"","open":"3000"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	snap, err := c.FetchPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 2)

	btc := snap["BTC"]
	price, ok := btc.Price()
	require.True(t, ok)
	assert.Equal(t, 50000.0, price)
	open, ok := btc.OpenPrice()
	require.True(t, ok)
	assert.Equal(t, 49000.0, open)
	pc, ok := btc.ChangePercent()
	require.True(t, ok)
	assert.InDelta(t, 2.04, pc, 1e-9)

	// garbage numeric fields degrade to "no usable value", not an error
	eth := snap["ETH"]
	_, ok = eth.Price()
	assert.False(t, ok)
	_, ok = eth.ChangePercent()
	assert.False(t, ok)
	open, ok = eth.OpenPrice()
	require.True(t, ok)
	assert.Equal(t, 3000.0, open)
}

func TestFetchPrices_HTMLBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>rate limited</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	_, err := c.FetchPrices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-json")
}

func TestFetchConversionRate_FindsUSDTCNY(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":"00000","data":[
			{"asset":"USDT","currency":"EUR","referencePrice":0.91},
			{"asset":"usdt","currency":"cny","referencePrice":7.23}
		],"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	rate, err := c.FetchConversionRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7.23, rate)
}

func TestFetchConversionRate_MissingPairIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":"00000","data":[
			{"asset":"USDT","currency":"EUR","referencePrice":0.91}
		],"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	_, err := c.FetchConversionRate(context.Background())
	require.Error(t, err)
}
