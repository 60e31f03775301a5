package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	rmodels "github.com/polygon-io/client-go/rest/models"
)

// PolygonClient is the fallback quote/history source, wrapping the official
// REST client. Only daily aggregates are used, which keeps it inside the
// free-tier surface.
type PolygonClient struct {
	rest *polygonrest.Client
}

func NewPolygonClient(apiKey string) *PolygonClient {
	if apiKey == "" {
		return &PolygonClient{}
	}
	return &PolygonClient{
		rest: polygonrest.NewWithClient(apiKey, &http.Client{Timeout: 10 * time.Second}),
	}
}

// Enabled reports whether an API key was configured.
func (p *PolygonClient) Enabled() bool {
	return p != nil && p.rest != nil
}

// Quote derives a snapshot from the last two daily bars: latest close as the
// price, the bar before it as previous close.
func (p *PolygonClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	if !p.Enabled() {
		return nil, fmt.Errorf("polygon client not configured")
	}

	bars, err := p.dailyBars(ctx, symbol, 10)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrSymbolNotFound
	}

	last := bars[len(bars)-1]
	q := &Quote{
		Symbol:    strings.ToUpper(symbol),
		Price:     last.Close,
		Open:      last.Open,
		DayHigh:   last.High,
		DayLow:    last.Low,
		Volume:    int64(last.Volume),
		Currency:  "USD",
		Source:    "polygon",
		UpdatedAt: time.Time(last.Timestamp).Unix(),
	}
	if len(bars) >= 2 {
		prev := bars[len(bars)-2]
		q.PreviousClose = prev.Close
		q.Change = q.Price - prev.Close
		if prev.Close != 0 {
			q.ChangePercent = q.Change / prev.Close * 100
		}
	}
	return q, nil
}

// History returns a daily (weekly for 5y) close series covering the range.
func (p *PolygonClient) History(ctx context.Context, symbol, rng string) (*HistorySeries, error) {
	if !p.Enabled() {
		return nil, fmt.Errorf("polygon client not configured")
	}

	rng, _ = normalizeRange(rng)
	days, timespan := polygonSpan(rng)

	now := time.Now()
	params := &rmodels.ListAggsParams{
		Ticker:     strings.ToUpper(symbol),
		Multiplier: 1,
		Timespan:   timespan,
		From:       rmodels.Millis(now.AddDate(0, 0, -days)),
		To:         rmodels.Millis(now),
	}
	limit := 5000
	asc := rmodels.Asc
	adjusted := true
	params.Limit = &limit
	params.Order = &asc
	params.Adjusted = &adjusted

	series := &HistorySeries{
		Symbol:   strings.ToUpper(symbol),
		Range:    rng,
		Interval: string(timespan),
		Currency: "USD",
		Source:   "polygon",
	}

	iter := p.rest.ListAggs(ctx, params)
	for iter.Next() {
		a := iter.Item()
		series.Points = append(series.Points, PricePoint{
			Timestamp: time.Time(a.Timestamp).Unix(),
			Close:     a.Close,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon aggs failed: %v", err)
	}
	if len(series.Points) == 0 {
		return nil, ErrSymbolNotFound
	}
	if len(series.Points) >= 2 {
		series.PreviousClose = series.Points[0].Close
	}
	return series, nil
}

func (p *PolygonClient) dailyBars(ctx context.Context, symbol string, days int) ([]rmodels.Agg, error) {
	now := time.Now()
	params := &rmodels.ListAggsParams{
		Ticker:     strings.ToUpper(symbol),
		Multiplier: 1,
		Timespan:   rmodels.Day,
		From:       rmodels.Millis(now.AddDate(0, 0, -days)),
		To:         rmodels.Millis(now),
	}
	limit := days + 1
	asc := rmodels.Asc
	adjusted := true
	params.Limit = &limit
	params.Order = &asc
	params.Adjusted = &adjusted

	ctx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()

	var bars []rmodels.Agg
	iter := p.rest.ListAggs(ctx, params)
	for iter.Next() {
		bars = append(bars, iter.Item())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon aggs failed: %v", err)
	}
	return bars, nil
}

func polygonSpan(rng string) (int, rmodels.Timespan) {
	switch rng {
	case "1d":
		return 2, rmodels.Day
	case "5d":
		return 7, rmodels.Day
	case "1mo":
		return 31, rmodels.Day
	case "6mo":
		return 183, rmodels.Day
	case "1y":
		return 366, rmodels.Day
	case "5y":
		return 5 * 366, rmodels.Week
	default:
		return 31, rmodels.Day
	}
}
