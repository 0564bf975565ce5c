package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketlens/internal/calculator"
	"marketlens/internal/model"
)

type signalResponse struct {
	Symbol       string              `json:"symbol"`
	CurrentPrice float64             `json:"current_price"`
	Timestamp    time.Time           `json:"timestamp"`
	Signal       model.TradingSignal `json:"signal"`
}

type dataMeta struct {
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
	Timezone           string  `json:"timezone"`
}

type dataPoint struct {
	Timestamp int64   `json:"timestamp"`
	Datetime  string  `json:"datetime"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type dataResponse struct {
	Symbol string      `json:"symbol"`
	Meta   dataMeta    `json:"meta"`
	Data   []dataPoint `json:"data"`
}

func (s *Server) getIndicators(c *gin.Context) {
	a, err := s.collector.Analyze(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) getSignals(c *gin.Context) {
	a, err := s.collector.Analyze(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, signalResponse{
		Symbol:       a.Symbol,
		CurrentPrice: a.CurrentPrice,
		Timestamp:    a.Timestamp,
		Signal:       a.Signal,
	})
}

func (s *Server) getMarketOverview(c *gin.Context) {
	c.JSON(http.StatusOK, s.overview.Build(c.Request.Context()))
}

func (s *Server) getPatterns(c *gin.Context) {
	r, err := s.collector.Patterns(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) getSymbols(c *gin.Context) {
	g, err := s.catalog.Grouped(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) getMarketData(c *gin.Context) {
	symbol := c.Param("symbol")
	interval := c.DefaultQuery("interval", "1d")
	rng := c.DefaultQuery("range", "1mo")

	chart, err := s.collector.Chart(c.Request.Context(), symbol, interval, rng)
	if err != nil {
		writeError(c, err)
		return
	}

	points := make([]dataPoint, 0, chart.Series.Len())
	for _, k := range chart.Series.Candles {
		points = append(points, dataPoint{
			Timestamp: k.Time.Unix(),
			Datetime:  k.Time.UTC().Format(time.RFC3339),
			Open:      calculator.Round(k.Open, 4),
			High:      calculator.Round(k.High, 4),
			Low:       calculator.Round(k.Low, 4),
			Close:     calculator.Round(k.Close, 4),
			Volume:    k.Volume,
		})
	}
	m := chart.Meta
	c.JSON(http.StatusOK, dataResponse{
		Symbol: symbol,
		Meta: dataMeta{
			Currency:           m.Currency,
			ExchangeName:       m.ExchangeName,
			RegularMarketPrice: m.RegularMarketPrice,
			RegularMarketTime:  m.RegularMarketTime,
			Timezone:           m.Timezone,
		},
		Data: points,
	})
}

func (s *Server) getQuote(c *gin.Context) {
	q, err := s.collector.Quote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) getWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, s.overview.Watchlist(c.Request.Context()))
}

func (s *Server) searchSymbols(c *gin.Context) {
	results, err := s.catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
