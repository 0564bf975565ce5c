package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"marketlens/internal/model"
)

// RESTSource implements Source against a self-hosted bars API:
//
//	GET {base}/api/v1/bars?symbol=&interval=&range=  -> [restBar]
//	GET {base}/api/v1/quote?symbol=                  -> restQuote
type RESTSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Log     logrus.FieldLogger
}

// NewRESTSource creates a new source with optional proxy support.
func NewRESTSource(baseURL, apiKey, proxyURL string, log logrus.FieldLogger) *RESTSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Log: log,
	}
}

func (s *RESTSource) Name() string { return "rest" }

// restBar is the expected JSON shape of one bar. Prices may be null.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

type restQuote struct {
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`
	Currency      string  `json:"currency"`
	Exchange      string  `json:"exchange"`
	Name          string  `json:"name"`
	DayHigh       float64 `json:"day_high"`
	DayLow        float64 `json:"day_low"`
	Volume        float64 `json:"volume"`
	Time          int64   `json:"time"`
}

// errStatus marks a non-2xx response so the weekly fallback can tell it apart from
// transport failures.
type errStatus struct {
	code int
	body string
}

func (e *errStatus) Error() string { return fmt.Sprintf("status %d, body: %s", e.code, e.body) }

func (s *RESTSource) FetchChart(ctx context.Context, symbol, interval, rng string) (*model.Chart, error) {
	if err := ValidateInterval(interval); err != nil {
		return nil, err
	}
	if err := ValidateRange(rng); err != nil {
		return nil, err
	}

	candles, err := s.fetchBars(ctx, symbol, interval, rng)
	if err != nil && interval == "1w" {
		// Fallback: the API may only serve daily bars, aggregate them to weekly.
		var st *errStatus
		if errors.As(err, &st) && st.code != http.StatusNotFound {
			daily, dailyErr := s.fetchBars(ctx, symbol, "1d", rng)
			if dailyErr != nil {
				return nil, s.wrap(symbol, fmt.Errorf("weekly fetch failed: %w; daily fallback also failed: %w", err, dailyErr))
			}
			candles, err = aggregateDailyToWeekly(daily), nil
		}
	}
	if err != nil {
		return nil, s.wrap(symbol, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("rest %s: %w", symbol, model.ErrNotFound)
	}

	meta, err := s.fetchMeta(ctx, symbol)
	if err != nil {
		return nil, s.wrap(symbol, err)
	}
	return &model.Chart{
		Symbol: symbol,
		Meta:   meta,
		Series: model.PriceSeries{Symbol: symbol, Candles: candles},
	}, nil
}

func (s *RESTSource) fetchBars(ctx context.Context, symbol, interval, rng string) ([]model.Candle, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars?symbol=%s&interval=%s&range=%s",
		s.BaseURL, url.QueryEscape(symbol), interval, rng)
	var bars []restBar
	if err := s.getJSON(ctx, endpoint, &bars); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	raw := make([]model.RawBar, len(bars))
	for i, b := range bars {
		raw[i] = model.RawBar{Timestamp: b.Timestamp, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
	}
	series, invalid := model.BuildSeries(symbol, raw)
	if invalid > 0 {
		s.Log.WithFields(logrus.Fields{"symbol": symbol, "source": s.Name(), "interval": interval, "rejected": invalid}).
			Warn("dropped bars violating OHLC bounds")
	}
	return series.Candles, nil
}

func (s *RESTSource) fetchMeta(ctx context.Context, symbol string) (model.ChartMeta, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", s.BaseURL, url.QueryEscape(symbol))
	var q restQuote
	if err := s.getJSON(ctx, endpoint, &q); err != nil {
		return model.ChartMeta{}, fmt.Errorf("fetch quote: %w", err)
	}
	currency := q.Currency
	if currency == "" {
		currency = "USD"
	}
	return model.ChartMeta{
		Currency:           currency,
		ExchangeName:       q.Exchange,
		ShortName:          q.Name,
		RegularMarketPrice: q.Price,
		RegularMarketTime:  q.Time,
		PreviousClose:      q.PreviousClose,
		DayHigh:            q.DayHigh,
		DayLow:             q.DayLow,
		Volume:             q.Volume,
		Timezone:           "UTC",
	}, nil
}

func (s *RESTSource) getJSON(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &errStatus{code: resp.StatusCode, body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func (s *RESTSource) wrap(symbol string, err error) error {
	var st *errStatus
	if errors.As(err, &st) && st.code == http.StatusNotFound {
		return fmt.Errorf("rest %s: %w", symbol, model.ErrNotFound)
	}
	return &model.UpstreamError{Source: s.Name(), Symbol: symbol, Err: err}
}

// aggregateDailyToWeekly converts daily bars into ISO-week bars.
func aggregateDailyToWeekly(daily []model.Candle) []model.Candle {
	if len(daily) == 0 {
		return nil
	}
	var weekly []model.Candle
	week := daily[0]
	wy, ww := week.Time.ISOWeek()

	for _, d := range daily[1:] {
		y, w := d.Time.ISOWeek()
		if y != wy || w != ww {
			weekly = append(weekly, week)
			week, wy, ww = d, y, w
			continue
		}
		if d.High > week.High {
			week.High = d.High
		}
		if d.Low < week.Low {
			week.Low = d.Low
		}
		week.Close = d.Close
		week.Volume += d.Volume
	}
	return append(weekly, week)
}
