package marketdata

import (
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"finboard/config"

	"github.com/go-resty/resty/v2"
)

const yahooUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// YahooClient talks to the Yahoo Finance chart/search endpoints. Yahoo wants
// a browser-looking session: first a cookie from the home page, then a crumb
// token, then the data calls carry both.
type YahooClient struct {
	http    *resty.Client
	BaseURL string
	HomeURL string

	crumbMu      sync.Mutex
	crumb        string
	crumbFetched time.Time
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string  `json:"currency"`
				Symbol               string  `json:"symbol"`
				LongName             string  `json:"longName"`
				ShortName            string  `json:"shortName"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				PreviousClose        float64 `json:"previousClose"`
				RegularMarketTime    int64   `json:"regularMarketTime"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				RegularMarketVolume  int64   `json:"regularMarketVolume"`
				FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []float64 `json:"open"`
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooSearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		ExchDisp  string `json:"exchDisp"`
		TypeDisp  string `json:"typeDisp"`
	} `json:"quotes"`
}

func NewYahooClient(cfg config.Config) *YahooClient {
	jar, _ := cookiejar.New(nil)
	client := resty.New().
		SetCookieJar(jar).
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", yahooUserAgent)

	return &YahooClient{
		http:    client,
		BaseURL: cfg.YahooBaseURL,
		HomeURL: "https://finance.yahoo.com",
	}
}

// ensureCrumb refreshes the session cookie and crumb token when the cached
// crumb is stale. Yahoo rejects chart calls without a matching pair.
func (y *YahooClient) ensureCrumb() (string, error) {
	y.crumbMu.Lock()
	defer y.crumbMu.Unlock()

	if y.crumb != "" && time.Since(y.crumbFetched) < 30*time.Minute {
		return y.crumb, nil
	}

	if _, err := y.http.R().
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		Get(y.HomeURL); err != nil {
		return "", fmt.Errorf("failed to get cookie: %v", err)
	}

	resp, err := y.http.R().
		SetHeader("Origin", y.HomeURL).
		SetHeader("Referer", y.HomeURL+"/").
		Get(y.BaseURL + "/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("failed to get crumb: %v", err)
	}

	crumb := strings.TrimSpace(resp.String())
	if crumb == "" || strings.Contains(crumb, "html") {
		return "", fmt.Errorf("invalid crumb received")
	}

	y.crumb = crumb
	y.crumbFetched = time.Now()
	return crumb, nil
}

// Quote fetches a snapshot for one symbol from the chart endpoint's meta.
func (y *YahooClient) Quote(symbol string) (*Quote, error) {
	chart, err := y.fetchChart(symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}

	meta := chart.Chart.Result[0].Meta
	prevClose := meta.ChartPreviousClose
	if prevClose == 0 {
		prevClose = meta.PreviousClose
	}

	q := &Quote{
		Symbol:         strings.ToUpper(meta.Symbol),
		Name:           firstNonEmpty(meta.LongName, meta.ShortName),
		Price:          meta.RegularMarketPrice,
		PreviousClose:  prevClose,
		DayHigh:        meta.RegularMarketDayHigh,
		DayLow:         meta.RegularMarketDayLow,
		FiftyTwoWkHigh: meta.FiftyTwoWeekHigh,
		FiftyTwoWkLow:  meta.FiftyTwoWeekLow,
		Volume:         meta.RegularMarketVolume,
		Currency:       meta.Currency,
		Source:         "yahoo",
		UpdatedAt:      meta.RegularMarketTime,
	}
	if prevClose != 0 {
		q.Change = q.Price - prevClose
		q.ChangePercent = q.Change / prevClose * 100
	}
	return q, nil
}

// History fetches a close-price series. The interval is picked per range the
// same way the chart UI does.
func (y *YahooClient) History(symbol, rng string) (*HistorySeries, error) {
	rng, interval := normalizeRange(rng)

	chart, err := y.fetchChart(symbol, rng, interval)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	series := &HistorySeries{
		Symbol:        strings.ToUpper(result.Meta.Symbol),
		Range:         rng,
		Interval:      interval,
		Currency:      result.Meta.Currency,
		PreviousClose: result.Meta.ChartPreviousClose,
		Source:        "yahoo",
	}

	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}
	closes := result.Indicators.Quote[0].Close
	for i, ts := range result.Timestamp {
		if i < len(closes) && closes[i] != 0 {
			series.Points = append(series.Points, PricePoint{Timestamp: ts, Close: closes[i]})
		}
	}

	if series.PreviousClose == 0 && len(series.Points) > 0 {
		series.PreviousClose = series.Points[0].Close
	}
	return series, nil
}

// Search runs the symbol/name lookup endpoint.
func (y *YahooClient) Search(query string) ([]SearchResult, error) {
	crumb, err := y.ensureCrumb()
	if err != nil {
		return nil, err
	}

	resp, err := y.http.R().
		SetQueryParams(map[string]string{
			"q":           query,
			"quotesCount": "10",
			"newsCount":   "0",
			"crumb":       crumb,
		}).
		Get(y.BaseURL + "/v1/finance/search")
	if err != nil {
		return nil, fmt.Errorf("search request failed: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("yahoo search returned status: %s", resp.Status())
	}

	var parsed yahooSearchResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %v", err)
	}

	results := make([]SearchResult, 0, len(parsed.Quotes))
	for _, q := range parsed.Quotes {
		if q.Symbol == "" {
			continue
		}
		results = append(results, SearchResult{
			Symbol:   q.Symbol,
			Name:     firstNonEmpty(q.LongName, q.ShortName),
			Exchange: q.ExchDisp,
			Type:     q.TypeDisp,
		})
	}
	return results, nil
}

func (y *YahooClient) fetchChart(symbol, rng, interval string) (*yahooChartResponse, error) {
	crumb, err := y.ensureCrumb()
	if err != nil {
		return nil, err
	}

	escaped := url.QueryEscape(symbol)
	resp, err := y.http.R().
		SetQueryParams(map[string]string{
			"symbol":   escaped,
			"range":    rng,
			"interval": interval,
			"crumb":    crumb,
		}).
		Get(y.BaseURL + "/v8/finance/chart/" + escaped)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart: %v", err)
	}
	if resp.StatusCode() == 404 {
		return nil, ErrSymbolNotFound
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("yahoo api returned status: %s", resp.Status())
	}

	var parsed yahooChartResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %v", err)
	}
	if parsed.Chart.Error != nil {
		if parsed.Chart.Error.Code == "Not Found" {
			return nil, ErrSymbolNotFound
		}
		return nil, fmt.Errorf("yahoo chart error: %s", parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("no result in yahoo response")
	}
	return &parsed, nil
}

// normalizeRange maps an API range to the Yahoo range/interval pair.
func normalizeRange(rng string) (string, string) {
	switch strings.ToLower(rng) {
	case "1d":
		return "1d", "5m"
	case "5d":
		return "5d", "15m"
	case "1mo":
		return "1mo", "30m"
	case "6mo":
		return "6mo", "1d"
	case "1y":
		return "1y", "1d"
	case "5y":
		return "5y", "1wk"
	default:
		return "1mo", "30m"
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
