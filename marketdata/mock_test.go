package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockQuoteDeterministic(t *testing.T) {
	a := MockQuote("AAPL")
	b := MockQuote("aapl")

	assert.Equal(t, a.Symbol, b.Symbol)
	assert.Equal(t, a.Price, b.Price)
	assert.Equal(t, a.ChangePercent, b.ChangePercent)
	assert.Equal(t, "mock", a.Source)
	assert.Greater(t, a.Price, 0.0)
	assert.Greater(t, a.FiftyTwoWkHigh, a.FiftyTwoWkLow)

	other := MockQuote("MSFT")
	assert.NotEqual(t, a.Price, other.Price, "different symbols mock differently")
}

func TestMockQuoteChangeConsistent(t *testing.T) {
	q := MockQuote("NVDA")
	require.NotZero(t, q.PreviousClose)
	assert.InDelta(t, q.Price-q.PreviousClose, q.Change, 0.02)
}

func TestMockHistoryShape(t *testing.T) {
	s := MockHistory("TSLA", "1d")
	assert.Equal(t, "TSLA", s.Symbol)
	assert.Equal(t, "1d", s.Range)
	assert.Equal(t, "5m", s.Interval)
	assert.Len(t, s.Points, 79)

	for i := 1; i < len(s.Points); i++ {
		assert.Greater(t, s.Points[i].Timestamp, s.Points[i-1].Timestamp, "timestamps ascend")
		assert.Greater(t, s.Points[i].Close, 0.0)
	}
}

func TestMockMoversSplit(t *testing.T) {
	gainers, losers := MockMovers(moversUniverse)
	assert.NotEmpty(t, gainers)
	assert.NotEmpty(t, losers)

	for _, g := range gainers {
		assert.GreaterOrEqual(t, g.ChangePercent, 0.0)
	}
	for _, l := range losers {
		assert.Less(t, l.ChangePercent, 0.0)
	}

	// Sorted strongest first
	for i := 1; i < len(gainers); i++ {
		assert.LessOrEqual(t, gainers[i].ChangePercent, gainers[i-1].ChangePercent)
	}
	for i := 1; i < len(losers); i++ {
		assert.GreaterOrEqual(t, losers[i].ChangePercent, losers[i-1].ChangePercent)
	}
}

func TestMockFundamentalsDeterministic(t *testing.T) {
	a := MockFundamentals("KO")
	b := MockFundamentals("ko")
	assert.Equal(t, a, b)
	assert.Equal(t, "KO", a.Symbol)
	assert.NotZero(t, a.PE)
}
