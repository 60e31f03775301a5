package marketdata

// Quote is the snapshot shape served by /api/market/quote and consumed by
// portfolio analytics and the alert sweep.
type Quote struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name,omitempty"`
	Price          float64 `json:"price"`
	Change         float64 `json:"change"`
	ChangePercent  float64 `json:"changePercent"`
	PreviousClose  float64 `json:"previousClose"`
	Open           float64 `json:"open,omitempty"`
	DayHigh        float64 `json:"dayHigh,omitempty"`
	DayLow         float64 `json:"dayLow,omitempty"`
	FiftyTwoWkHigh float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWkLow  float64 `json:"fiftyTwoWeekLow,omitempty"`
	Volume         int64   `json:"volume,omitempty"`
	MarketCap      float64 `json:"marketCap,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	Source         string  `json:"source"`
	Cached         bool    `json:"cached"`
	UpdatedAt      int64   `json:"updatedAt"`
}

// PricePoint is one sample in a history series.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
}

// HistorySeries is the chart payload for /api/market/history.
type HistorySeries struct {
	Symbol        string       `json:"symbol"`
	Range         string       `json:"range"`
	Interval      string       `json:"interval"`
	Currency      string       `json:"currency,omitempty"`
	PreviousClose float64      `json:"previousClose"`
	Points        []PricePoint `json:"points"`
	Source        string       `json:"source"`
}

// SearchResult is one match from symbol/name search.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
	Type     string `json:"type,omitempty"`
}

// CompanyProfile is the long-TTL company descriptor from FMP.
type CompanyProfile struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"companyName"`
	Exchange    string  `json:"exchange"`
	Industry    string  `json:"industry"`
	Sector      string  `json:"sector"`
	Website     string  `json:"website"`
	Description string  `json:"description"`
	CEO         string  `json:"ceo"`
	Country     string  `json:"country"`
	Employees   int64   `json:"employees"`
	MarketCap   float64 `json:"marketCap"`
	Beta        float64 `json:"beta"`
	Image       string  `json:"image"`
	IPODate     string  `json:"ipoDate"`
}

// MacroPoint is one observation of a FRED series.
type MacroPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// MacroSeries is one FRED series with its recent observations.
type MacroSeries struct {
	SeriesID string       `json:"seriesId"`
	Name     string       `json:"name"`
	Units    string       `json:"units"`
	Latest   float64      `json:"latest"`
	Points   []MacroPoint `json:"points"`
}

// Mover is one entry in the gainers/losers board.
type Mover struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// BatchResult carries the settled outcome of a concurrent multi-symbol fetch.
type BatchResult struct {
	Quotes []Quote  `json:"quotes"`
	Failed []string `json:"failed"`
}
