package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeFX struct {
	rate float64
	err  error
}

func (f fakeFX) FetchConversionRate(context.Context) (float64, error) { return f.rate, f.err }

func TestRates_DefaultBeforeFirstRefresh(t *testing.T) {
	assert.Equal(t, DefaultUSDToCNY, NewRates().Rate())
}

func TestRefreshRate_KeepsPreviousValueOnFailure(t *testing.T) {
	r := NewRates()
	r.Refresh(context.Background(), fakeFX{rate: 7.32})
	assert.Equal(t, 7.32, r.Rate())

	r.Refresh(context.Background(), fakeFX{err: errors.New("fx down")})
	assert.Equal(t, 7.32, r.Rate())
}
