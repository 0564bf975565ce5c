package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"marketlens/internal/model"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooSource implements Source using the Yahoo Finance public chart API.
type YahooSource struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	Log       logrus.FieldLogger
}

// NewYahooSource creates a Yahoo Finance source with optional proxy support.
func NewYahooSource(proxyURL string, log logrus.FieldLogger) *YahooSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooSource{
		BaseURL: yahooChartURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
		Log: log,
	}
}

func (s *YahooSource) Name() string { return "yahoo" }

func (s *YahooSource) yahooSymbol(symbol string) string {
	if mapped, ok := s.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooInterval maps API interval tokens onto Yahoo's. Yahoo has no 4h bars, so 4h
// falls back to hourly.
var yahooInterval = map[string]string{
	"1m": "1m", "5m": "5m", "15m": "15m", "30m": "30m",
	"1h": "60m", "4h": "60m", "1d": "1d", "1w": "1wk",
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string  `json:"currency"`
				ExchangeName         string  `json:"exchangeName"`
				ShortName            string  `json:"shortName"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				RegularMarketTime    int64   `json:"regularMarketTime"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				RegularMarketVolume  float64 `json:"regularMarketVolume"`
				Timezone             string  `json:"timezone"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchChart requests one chart from Yahoo. Bars with a null price are dropped.
func (s *YahooSource) FetchChart(ctx context.Context, symbol, interval, rng string) (*model.Chart, error) {
	yi, ok := yahooInterval[interval]
	if !ok {
		return nil, fmt.Errorf("%q: %w", interval, model.ErrInvalidInterval)
	}
	if err := ValidateRange(rng); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s%s?interval=%s&range=%s&includePrePost=false",
		s.BaseURL, url.PathEscape(s.yahooSymbol(symbol)), yi, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, s.upstream(symbol, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, s.upstream(symbol, fmt.Errorf("fetch: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.upstream(symbol, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, model.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, s.upstream(symbol, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, s.upstream(symbol, fmt.Errorf("decode: %w", err))
	}
	if chart.Chart.Error != nil {
		if strings.EqualFold(chart.Chart.Error.Code, "Not Found") {
			return nil, fmt.Errorf("yahoo %s: %s: %w", symbol, chart.Chart.Error.Description, model.ErrNotFound)
		}
		return nil, s.upstream(symbol, fmt.Errorf("api error: %s", chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, model.ErrNotFound)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	raw := make([]model.RawBar, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		raw[i] = model.RawBar{
			Timestamp: ts,
			Open:      at(quote.Open, i),
			High:      at(quote.High, i),
			Low:       at(quote.Low, i),
			Close:     at(quote.Close, i),
			Volume:    at(quote.Volume, i),
		}
	}

	series, invalid := model.BuildSeries(symbol, raw)
	if invalid > 0 {
		s.Log.WithFields(logrus.Fields{"symbol": symbol, "source": s.Name(), "rejected": invalid}).
			Warn("dropped bars violating OHLC bounds")
	}

	m := result.Meta
	currency := m.Currency
	if currency == "" {
		currency = "USD"
	}
	timezone := m.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	return &model.Chart{
		Symbol: symbol,
		Meta: model.ChartMeta{
			Currency:           currency,
			ExchangeName:       m.ExchangeName,
			ShortName:          m.ShortName,
			RegularMarketPrice: m.RegularMarketPrice,
			RegularMarketTime:  m.RegularMarketTime,
			PreviousClose:      m.ChartPreviousClose,
			DayHigh:            m.RegularMarketDayHigh,
			DayLow:             m.RegularMarketDayLow,
			Volume:             m.RegularMarketVolume,
			Timezone:           timezone,
		},
		Series: series,
	}, nil
}

func (s *YahooSource) upstream(symbol string, err error) error {
	return &model.UpstreamError{Source: s.Name(), Symbol: symbol, Err: err}
}

// at tolerates quote arrays shorter than the timestamp array.
func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
