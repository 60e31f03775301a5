package marketdata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"finboard/config"
	"finboard/metrics"

	"github.com/go-resty/resty/v2"
)

// FmpClient fetches company profiles and TTM fundamentals from Financial
// Modeling Prep. The fundamentals feed the metrics registry.
type FmpClient struct {
	http    *resty.Client
	BaseURL string
	apiKey  string
}

type fmpProfile struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Exchange          string  `json:"exchangeShortName"`
	Industry          string  `json:"industry"`
	Sector            string  `json:"sector"`
	Website           string  `json:"website"`
	Description       string  `json:"description"`
	CEO               string  `json:"ceo"`
	Country           string  `json:"country"`
	FullTimeEmployees string  `json:"fullTimeEmployees"`
	MktCap            float64 `json:"mktCap"`
	Beta              float64 `json:"beta"`
	Price             float64 `json:"price"`
	LastDiv           float64 `json:"lastDiv"`
	Image             string  `json:"image"`
	IPODate           string  `json:"ipoDate"`
}

type fmpRatiosTTM struct {
	PERatioTTM                 float64 `json:"peRatioTTM"`
	PEGRatioTTM                float64 `json:"pegRatioTTM"`
	PriceToSalesRatioTTM       float64 `json:"priceToSalesRatioTTM"`
	PriceToBookRatioTTM        float64 `json:"priceToBookRatioTTM"`
	EnterpriseValueMultipleTTM float64 `json:"enterpriseValueMultipleTTM"`
	GrossProfitMarginTTM       float64 `json:"grossProfitMarginTTM"`
	OperatingProfitMarginTTM   float64 `json:"operatingProfitMarginTTM"`
	NetProfitMarginTTM         float64 `json:"netProfitMarginTTM"`
	ReturnOnEquityTTM          float64 `json:"returnOnEquityTTM"`
	ReturnOnAssetsTTM          float64 `json:"returnOnAssetsTTM"`
	CurrentRatioTTM            float64 `json:"currentRatioTTM"`
	QuickRatioTTM              float64 `json:"quickRatioTTM"`
	DebtEquityRatioTTM         float64 `json:"debtEquityRatioTTM"`
	InterestCoverageTTM        float64 `json:"interestCoverageTTM"`
	DividendYieldTTM           float64 `json:"dividendYielTTM"`
}

type fmpKeyMetricsTTM struct {
	FreeCashFlowYieldTTM float64 `json:"freeCashFlowYieldTTM"`
}

type fmpGrowth struct {
	RevenueGrowth float64 `json:"revenueGrowth"`
	EPSGrowth     float64 `json:"epsgrowth"`
}

func NewFmpClient(cfg config.Config) *FmpClient {
	return &FmpClient{
		http:    resty.New().SetTimeout(10 * time.Second),
		BaseURL: cfg.FmpBaseURL,
		apiKey:  cfg.FmpApiKey,
	}
}

func (f *FmpClient) Enabled() bool {
	return f != nil && f.apiKey != ""
}

// Profile fetches the company descriptor for one symbol.
func (f *FmpClient) Profile(symbol string) (*CompanyProfile, error) {
	var profiles []fmpProfile
	if err := f.getJSON("/api/v3/profile/"+strings.ToUpper(symbol), nil, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrSymbolNotFound
	}

	p := profiles[0]
	employees, _ := strconv.ParseInt(p.FullTimeEmployees, 10, 64)
	return &CompanyProfile{
		Symbol:      strings.ToUpper(p.Symbol),
		Name:        p.CompanyName,
		Exchange:    p.Exchange,
		Industry:    p.Industry,
		Sector:      p.Sector,
		Website:     p.Website,
		Description: p.Description,
		CEO:         p.CEO,
		Country:     p.Country,
		Employees:   employees,
		MarketCap:   p.MktCap,
		Beta:        p.Beta,
		Image:       p.Image,
		IPODate:     p.IPODate,
	}, nil
}

// Fundamentals assembles the metric registry input from the TTM ratio,
// key-metric and growth endpoints. Percent-style fields are converted from
// fractions to percents here so benchmarks read naturally.
func (f *FmpClient) Fundamentals(symbol string) (*metrics.Fundamentals, error) {
	symbol = strings.ToUpper(symbol)

	var ratios []fmpRatiosTTM
	if err := f.getJSON("/api/v3/ratios-ttm/"+symbol, nil, &ratios); err != nil {
		return nil, err
	}
	if len(ratios) == 0 {
		return nil, ErrSymbolNotFound
	}
	r := ratios[0]

	fund := &metrics.Fundamentals{
		Symbol:           symbol,
		PE:               r.PERatioTTM,
		PEG:              r.PEGRatioTTM,
		PriceToSales:     r.PriceToSalesRatioTTM,
		PriceToBook:      r.PriceToBookRatioTTM,
		EVToEBITDA:       r.EnterpriseValueMultipleTTM,
		GrossMargin:      r.GrossProfitMarginTTM * 100,
		OperatingMargin:  r.OperatingProfitMarginTTM * 100,
		NetMargin:        r.NetProfitMarginTTM * 100,
		ROE:              r.ReturnOnEquityTTM * 100,
		ROA:              r.ReturnOnAssetsTTM * 100,
		CurrentRatio:     r.CurrentRatioTTM,
		QuickRatio:       r.QuickRatioTTM,
		DebtToEquity:     r.DebtEquityRatioTTM,
		InterestCoverage: r.InterestCoverageTTM,
		DividendYield:    r.DividendYieldTTM * 100,
	}

	// The remaining endpoints enrich; their failure does not block.
	var keyMetrics []fmpKeyMetricsTTM
	if err := f.getJSON("/api/v3/key-metrics-ttm/"+symbol, nil, &keyMetrics); err == nil && len(keyMetrics) > 0 {
		fund.FCFYield = keyMetrics[0].FreeCashFlowYieldTTM * 100
	}

	var growth []fmpGrowth
	if err := f.getJSON("/api/v3/financial-growth/"+symbol, map[string]string{"limit": "1"}, &growth); err == nil && len(growth) > 0 {
		fund.RevenueGrowth = growth[0].RevenueGrowth * 100
		fund.EPSGrowth = growth[0].EPSGrowth * 100
	}

	return fund, nil
}

func (f *FmpClient) getJSON(path string, params map[string]string, out any) error {
	if !f.Enabled() {
		return fmt.Errorf("fmp client not configured")
	}

	req := f.http.R().SetQueryParam("apikey", f.apiKey)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(f.BaseURL + path)
	if err != nil {
		return fmt.Errorf("fmp request failed: %v", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("fmp returned status: %s", resp.Status())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode fmp response: %v", err)
	}
	return nil
}
