package marketdata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"finboard/config"
	"finboard/logger"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// fredSeries is the fixed macro bundle shown on the dashboard.
var fredSeries = []struct {
	ID    string
	Name  string
	Units string
}{
	{"CPIAUCSL", "Consumer Price Index", "index"},
	{"FEDFUNDS", "Federal Funds Rate", "percent"},
	{"UNRATE", "Unemployment Rate", "percent"},
	{"GDP", "Gross Domestic Product", "billions"},
	{"DGS10", "10-Year Treasury Yield", "percent"},
}

// FredClient fetches macro series observations from the St. Louis Fed API.
type FredClient struct {
	http    *resty.Client
	BaseURL string
	apiKey  string
}

type fredObservationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

func NewFredClient(cfg config.Config) *FredClient {
	return &FredClient{
		http:    resty.New().SetTimeout(10 * time.Second),
		BaseURL: cfg.FredBaseURL,
		apiKey:  cfg.FredApiKey,
	}
}

func (f *FredClient) Enabled() bool {
	return f != nil && f.apiKey != ""
}

// Series fetches the most recent observations for one series, newest first
// upstream, returned oldest first.
func (f *FredClient) Series(seriesID string, limit int) ([]MacroPoint, error) {
	if !f.Enabled() {
		return nil, fmt.Errorf("fred client not configured")
	}

	resp, err := f.http.R().
		SetQueryParams(map[string]string{
			"series_id":  seriesID,
			"api_key":    f.apiKey,
			"file_type":  "json",
			"sort_order": "desc",
			"limit":      strconv.Itoa(limit),
		}).
		Get(f.BaseURL + "/series/observations")
	if err != nil {
		return nil, fmt.Errorf("fred request failed: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fred returned status: %s", resp.Status())
	}

	var parsed fredObservationsResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode fred response: %v", err)
	}

	points := make([]MacroPoint, 0, len(parsed.Observations))
	for i := len(parsed.Observations) - 1; i >= 0; i-- {
		obs := parsed.Observations[i]
		// FRED reports missing observations as "."
		val, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		points = append(points, MacroPoint{Date: obs.Date, Value: val})
	}
	return points, nil
}

// MacroBundle fetches the dashboard series concurrently. Failed series are
// logged and dropped rather than failing the bundle.
func (f *FredClient) MacroBundle() ([]MacroSeries, error) {
	if !f.Enabled() {
		return nil, fmt.Errorf("fred client not configured")
	}

	var mu sync.Mutex
	out := make([]MacroSeries, 0, len(fredSeries))

	var g errgroup.Group
	for _, s := range fredSeries {
		s := s
		g.Go(func() error {
			points, err := f.Series(s.ID, 13)
			if err != nil {
				logger.Log.Warn().Err(err).Str("series", s.ID).Msg("fred series fetch failed")
				return nil
			}
			if len(points) == 0 {
				return nil
			}
			mu.Lock()
			out = append(out, MacroSeries{
				SeriesID: s.ID,
				Name:     s.Name,
				Units:    s.Units,
				Latest:   points[len(points)-1].Value,
				Points:   points,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(out) == 0 {
		return nil, fmt.Errorf("all fred series failed")
	}

	// Keep the bundle in declaration order
	ordered := make([]MacroSeries, 0, len(out))
	for _, s := range fredSeries {
		for _, m := range out {
			if m.SeriesID == s.ID {
				ordered = append(ordered, m)
				break
			}
		}
	}
	return ordered, nil
}
