package metrics

import "fmt"

// Fundamentals carries the per-symbol inputs the registry evaluates. Margin,
// growth and yield figures are percents, the rest plain ratios. A zero field
// means the upstream had nothing for it.
type Fundamentals struct {
	Symbol           string  `json:"symbol"`
	PE               float64 `json:"pe"`
	PEG              float64 `json:"peg"`
	PriceToSales     float64 `json:"priceToSales"`
	PriceToBook      float64 `json:"priceToBook"`
	EVToEBITDA       float64 `json:"evToEbitda"`
	GrossMargin      float64 `json:"grossMargin"`
	OperatingMargin  float64 `json:"operatingMargin"`
	NetMargin        float64 `json:"netMargin"`
	ROE              float64 `json:"roe"`
	ROA              float64 `json:"roa"`
	CurrentRatio     float64 `json:"currentRatio"`
	QuickRatio       float64 `json:"quickRatio"`
	DebtToEquity     float64 `json:"debtToEquity"`
	InterestCoverage float64 `json:"interestCoverage"`
	RevenueGrowth    float64 `json:"revenueGrowth"`
	EPSGrowth        float64 `json:"epsGrowth"`
	DividendYield    float64 `json:"dividendYield"`
	FCFYield         float64 `json:"fcfYield"`
}

type Direction string

const (
	HigherBetter Direction = "higher"
	LowerBetter  Direction = "lower"
)

type Format string

const (
	FormatRatio    Format = "ratio"
	FormatPercent  Format = "percent"
	FormatCurrency Format = "currency"
)

const (
	LabelGood    = "good"
	LabelNeutral = "neutral"
	LabelBad     = "bad"
)

const (
	CategoryValuation     = "valuation"
	CategoryProfitability = "profitability"
	CategoryLiquidity     = "liquidity"
	CategoryLeverage      = "leverage"
	CategoryGrowth        = "growth"
)

// Benchmark is the static threshold pair a value is labeled against. For
// HigherBetter the good bound sits above the bad one, for LowerBetter below.
type Benchmark struct {
	Good      float64   `json:"good"`
	Bad       float64   `json:"bad"`
	Direction Direction `json:"direction"`
}

// Metric is one registry entry.
type Metric struct {
	Key       string
	Name      string
	Category  string
	Format    Format
	Benchmark Benchmark
	Compute   func(Fundamentals) (float64, bool)
}

// Result is one evaluated metric.
type Result struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Value     float64   `json:"value"`
	Formatted string    `json:"formatted"`
	Label     string    `json:"label"`
	Benchmark Benchmark `json:"benchmark"`
}

func nonZero(v float64) (float64, bool) { return v, v != 0 }

// Registry is the ordered metric table. Categories group the board the way
// the symbol page renders it.
var Registry = []Metric{
	{
		Key: "pe", Name: "P/E Ratio", Category: CategoryValuation, Format: FormatRatio,
		Benchmark: Benchmark{Good: 15, Bad: 30, Direction: LowerBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.PE) },
	},
	{
		Key: "peg", Name: "PEG Ratio", Category: CategoryValuation, Format: FormatRatio,
		Benchmark: Benchmark{Good: 1, Bad: 2, Direction: LowerBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.PEG) },
	},
	{
		Key: "ps", Name: "Price/Sales", Category: CategoryValuation, Format: FormatRatio,
		Benchmark: Benchmark{Good: 2, Bad: 6, Direction: LowerBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.PriceToSales) },
	},
	{
		Key: "pb", Name: "Price/Book", Category: CategoryValuation, Format: FormatRatio,
		Benchmark: Benchmark{Good: 1.5, Bad: 4, Direction: LowerBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.PriceToBook) },
	},
	{
		Key: "ev_ebitda", Name: "EV/EBITDA", Category: CategoryValuation, Format: FormatRatio,
		Benchmark: Benchmark{Good: 10, Bad: 16, Direction: LowerBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.EVToEBITDA) },
	},
	{
		Key: "gross_margin", Name: "Gross Margin", Category: CategoryProfitability, Format: FormatPercent,
		Benchmark: Benchmark{Good: 40, Bad: 20, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.GrossMargin) },
	},
	{
		Key: "operating_margin", Name: "Operating Margin", Category: CategoryProfitability, Format: FormatPercent,
		Benchmark: Benchmark{Good: 15, Bad: 5, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.OperatingMargin) },
	},
	{
		Key: "net_margin", Name: "Net Margin", Category: CategoryProfitability, Format: FormatPercent,
		Benchmark: Benchmark{Good: 10, Bad: 3, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.NetMargin) },
	},
	{
		Key: "roe", Name: "Return on Equity", Category: CategoryProfitability, Format: FormatPercent,
		Benchmark: Benchmark{Good: 15, Bad: 5, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.ROE) },
	},
	{
		Key: "roa", Name: "Return on Assets", Category: CategoryProfitability, Format: FormatPercent,
		Benchmark: Benchmark{Good: 7, Bad: 2, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.ROA) },
	},
	{
		Key: "current_ratio", Name: "Current Ratio", Category: CategoryLiquidity, Format: FormatRatio,
		Benchmark: Benchmark{Good: 1.5, Bad: 1, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.CurrentRatio) },
	},
	{
		Key: "quick_ratio", Name: "Quick Ratio", Category: CategoryLiquidity, Format: FormatRatio,
		Benchmark: Benchmark{Good: 1, Bad: 0.5, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.QuickRatio) },
	},
	{
		Key: "debt_equity", Name: "Debt/Equity", Category: CategoryLeverage, Format: FormatRatio,
		Benchmark: Benchmark{Good: 0.5, Bad: 2, Direction: LowerBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.DebtToEquity) },
	},
	{
		Key: "interest_coverage", Name: "Interest Coverage", Category: CategoryLeverage, Format: FormatRatio,
		Benchmark: Benchmark{Good: 5, Bad: 1.5, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.InterestCoverage) },
	},
	{
		Key: "revenue_growth", Name: "Revenue Growth", Category: CategoryGrowth, Format: FormatPercent,
		Benchmark: Benchmark{Good: 10, Bad: 0, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.RevenueGrowth) },
	},
	{
		Key: "eps_growth", Name: "EPS Growth", Category: CategoryGrowth, Format: FormatPercent,
		Benchmark: Benchmark{Good: 10, Bad: 0, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.EPSGrowth) },
	},
	{
		Key: "dividend_yield", Name: "Dividend Yield", Category: CategoryValuation, Format: FormatPercent,
		Benchmark: Benchmark{Good: 3, Bad: 0.5, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.DividendYield) },
	},
	{
		Key: "fcf_yield", Name: "Free Cash Flow Yield", Category: CategoryValuation, Format: FormatPercent,
		Benchmark: Benchmark{Good: 5, Bad: 2, Direction: HigherBetter},
		Compute:   func(f Fundamentals) (float64, bool) { return nonZero(f.FCFYield) },
	},
}

// Evaluate runs the registry against f and returns the computable metrics in
// registry order. Metrics whose inputs are missing are skipped.
func Evaluate(f Fundamentals) []Result {
	results := make([]Result, 0, len(Registry))
	for _, m := range Registry {
		value, ok := m.Compute(f)
		if !ok {
			continue
		}
		results = append(results, Result{
			Key:       m.Key,
			Name:      m.Name,
			Category:  m.Category,
			Value:     value,
			Formatted: formatValue(value, m.Format),
			Label:     labelValue(value, m.Benchmark),
			Benchmark: m.Benchmark,
		})
	}
	return results
}

// labelValue applies the direction-aware threshold comparison.
func labelValue(v float64, b Benchmark) string {
	switch b.Direction {
	case HigherBetter:
		if v >= b.Good {
			return LabelGood
		}
		if v <= b.Bad {
			return LabelBad
		}
	case LowerBetter:
		if v <= b.Good {
			return LabelGood
		}
		if v >= b.Bad {
			return LabelBad
		}
	}
	return LabelNeutral
}

func formatValue(v float64, f Format) string {
	switch f {
	case FormatPercent:
		return fmt.Sprintf("%.2f%%", v)
	case FormatCurrency:
		return fmt.Sprintf("$%.2f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
