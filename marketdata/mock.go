package marketdata

import (
	"hash/fnv"
	"strings"
	"time"

	"finboard/metrics"
)

// Mock data stands in when every provider fails or is rate limited. Values
// derive from a hash of the symbol so the same symbol always mocks the same
// way, which keeps the UI stable and the tests deterministic.

func mockBasePrice(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToUpper(symbol)))
	return 20.0 + float64(h.Sum32()%98000)/100.0
}

// MockQuote builds a deterministic quote snapshot for a symbol.
func MockQuote(symbol string) *Quote {
	symbol = strings.ToUpper(symbol)
	price := mockBasePrice(symbol)

	// Drift sign and size also come from the symbol hash
	h := fnv.New32a()
	h.Write([]byte(symbol + ":chg"))
	changePct := float64(h.Sum32()%500)/100.0 - 2.5
	prevClose := price / (1 + changePct/100)

	return &Quote{
		Symbol:         symbol,
		Price:          round2(price),
		Change:         round2(price - prevClose),
		ChangePercent:  round2(changePct),
		PreviousClose:  round2(prevClose),
		Open:           round2(prevClose * 1.001),
		DayHigh:        round2(price * 1.012),
		DayLow:         round2(price * 0.988),
		FiftyTwoWkHigh: round2(price * 1.35),
		FiftyTwoWkLow:  round2(price * 0.65),
		Volume:         int64(h.Sum32()%9000000) + 1000000,
		Currency:       "USD",
		Source:         "mock",
		UpdatedAt:      time.Now().Unix(),
	}
}

// MockHistory builds a deterministic close series for a symbol and range.
func MockHistory(symbol, rng string) *HistorySeries {
	symbol = strings.ToUpper(symbol)
	rng, interval := normalizeRange(rng)
	base := mockBasePrice(symbol) * 0.94

	points, step := mockSpan(rng)
	series := &HistorySeries{
		Symbol:        symbol,
		Range:         rng,
		Interval:      interval,
		Currency:      "USD",
		PreviousClose: round2(base),
		Source:        "mock",
	}

	now := time.Now()
	for i := points; i >= 0; i-- {
		fluctuation := float64(i%5) * base * 0.002
		if i%2 == 0 {
			fluctuation = -fluctuation
		}
		price := base + fluctuation + float64(points-i)*base*0.0004
		series.Points = append(series.Points, PricePoint{
			Timestamp: now.Add(-time.Duration(i) * step).Unix(),
			Close:     round2(price),
		})
	}
	return series
}

// MockMovers builds a deterministic gainers/losers board from the universe.
func MockMovers(symbols []string) ([]Mover, []Mover) {
	var gainers, losers []Mover
	for _, s := range symbols {
		q := MockQuote(s)
		m := Mover{
			Symbol:        q.Symbol,
			Price:         q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
		}
		if m.ChangePercent >= 0 {
			gainers = append(gainers, m)
		} else {
			losers = append(losers, m)
		}
	}
	sortMovers(gainers, losers)
	return gainers, losers
}

// MockProfile builds a placeholder company descriptor.
func MockProfile(symbol string) *CompanyProfile {
	symbol = strings.ToUpper(symbol)
	return &CompanyProfile{
		Symbol:      symbol,
		Name:        symbol + " Inc.",
		Exchange:    "NASDAQ",
		Industry:    "Diversified",
		Sector:      "Industrials",
		Country:     "US",
		Description: "Profile data is temporarily unavailable for this symbol.",
		MarketCap:   mockBasePrice(symbol) * 1e9,
		Beta:        1.0,
	}
}

// MockFundamentals builds deterministic registry inputs for a symbol.
func MockFundamentals(symbol string) *metrics.Fundamentals {
	symbol = strings.ToUpper(symbol)
	h := fnv.New32a()
	h.Write([]byte(symbol + ":fund"))
	seed := float64(h.Sum32() % 100)

	return &metrics.Fundamentals{
		Symbol:           symbol,
		PE:               10 + seed*0.4,
		PEG:              0.8 + seed*0.03,
		PriceToSales:     1 + seed*0.1,
		PriceToBook:      1 + seed*0.08,
		EVToEBITDA:       6 + seed*0.2,
		GrossMargin:      25 + seed*0.5,
		OperatingMargin:  8 + seed*0.3,
		NetMargin:        4 + seed*0.25,
		ROE:              5 + seed*0.3,
		ROA:              2 + seed*0.15,
		CurrentRatio:     0.8 + seed*0.02,
		QuickRatio:       0.5 + seed*0.018,
		DebtToEquity:     0.3 + seed*0.02,
		InterestCoverage: 2 + seed*0.2,
		RevenueGrowth:    -5 + seed*0.4,
		EPSGrowth:        -8 + seed*0.5,
		DividendYield:    seed * 0.06,
		FCFYield:         1 + seed*0.08,
	}
}

// MockMacro builds a static macro bundle with recent-looking observations.
func MockMacro() []MacroSeries {
	build := func(id, name, units string, latest, step float64) MacroSeries {
		series := MacroSeries{SeriesID: id, Name: name, Units: units, Latest: latest}
		now := time.Now()
		for i := 12; i >= 0; i-- {
			series.Points = append(series.Points, MacroPoint{
				Date:  now.AddDate(0, -i, 0).Format("2006-01-02"),
				Value: round2(latest - float64(i)*step),
			})
		}
		return series
	}

	return []MacroSeries{
		build("CPIAUCSL", "Consumer Price Index", "index", 314.2, 0.6),
		build("FEDFUNDS", "Federal Funds Rate", "percent", 5.33, 0.01),
		build("UNRATE", "Unemployment Rate", "percent", 4.1, 0.02),
		build("GDP", "Gross Domestic Product", "billions", 28600, 120),
		build("DGS10", "10-Year Treasury Yield", "percent", 4.2, 0.03),
	}
}

func mockSpan(rng string) (int, time.Duration) {
	switch rng {
	case "1d":
		return 78, 5 * time.Minute
	case "5d":
		return 130, 15 * time.Minute
	case "1mo":
		return 120, 4 * time.Hour
	case "6mo":
		return 126, 24 * time.Hour
	case "1y":
		return 252, 24 * time.Hour
	case "5y":
		return 260, 7 * 24 * time.Hour
	default:
		return 120, 4 * time.Hour
	}
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}
