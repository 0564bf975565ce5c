package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"marketlens/internal/collector"
	"marketlens/internal/model"
	"marketlens/internal/notifier"
	"marketlens/internal/overview"
)

// Publisher receives every refreshed overview.
type Publisher interface {
	Publish(entries []model.OverviewEntry, at time.Time) error
}

// Notifier delivers alert messages.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// SymbolStore accepts catalog additions from the /addsymbol command.
type SymbolStore interface {
	Add(ctx context.Context, info model.SymbolInfo, featured bool) error
}

// Scheduler refreshes the market overview on a cron schedule, publishes it and
// alerts when a symbol's overview signal changes.
type Scheduler struct {
	Cron      *cron.Cron
	Overview  *overview.Builder
	Collector *collector.Collector
	Publisher Publisher
	Notifier  Notifier    // nil disables alerts
	Symbols   SymbolStore // nil disables /addsymbol
	Log       logrus.FieldLogger
	Ctx       context.Context
	Now       func() time.Time

	mu      sync.Mutex
	signals map[string]model.CoarseSignal
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, ov *overview.Builder, col *collector.Collector, pub Publisher, n Notifier, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Overview:  ov,
		Collector: col,
		Publisher: pub,
		Notifier:  n,
		Log:       log.WithField("component", "scheduler"),
		Ctx:       ctx,
		Now:       time.Now,
		signals:   make(map[string]model.CoarseSignal),
	}
}

// RegisterAll registers the overview refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RefreshNow runs the refresh task immediately.
func (s *Scheduler) RefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	start := s.Now()
	entries := s.Overview.Build(s.Ctx)
	s.Log.WithFields(logrus.Fields{
		"symbols":  len(entries),
		"duration": time.Since(start).String(),
	}).Info("overview refreshed")

	if s.Publisher != nil {
		if err := s.Publisher.Publish(entries, start); err != nil {
			s.Log.WithError(err).Error("publish overview")
		}
	}

	for _, msg := range s.signalChanges(entries) {
		s.trySend(msg)
	}
}

// signalChanges records the latest signal per symbol and returns one alert per symbol
// whose signal differs from the previous refresh. The first sighting of a symbol
// never alerts.
func (s *Scheduler) signalChanges(entries []model.OverviewEntry) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var alerts []string
	for _, e := range entries {
		prev, seen := s.signals[e.Symbol]
		s.signals[e.Symbol] = e.Signal
		if seen && prev != e.Signal {
			alerts = append(alerts, notifier.FormatSignalChange(prev, e))
		}
	}
	return alerts
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	cmd, args := notifier.ParseCommand(command)
	switch cmd {
	case "/overview":
		return notifier.FormatOverview(s.Overview.Build(ctx), s.Now())
	case "/signal":
		if len(args) == 0 {
			return "Usage: /signal SYMBOL"
		}
		symbol := strings.ToUpper(args[0])
		a, err := s.Collector.Analyze(ctx, symbol)
		if err != nil {
			s.Log.WithError(err).WithField("symbol", symbol).Warn("signal command failed")
			return fmt.Sprintf("Could not analyze %s: %v", symbol, err)
		}
		return notifier.FormatSignal(a.Symbol, a.CurrentPrice, a.Indicators, a.Signal)
	case "/addsymbol":
		return s.addSymbol(ctx, args)
	default:
		return notifier.FormatHelp()
	}
}

// addSymbol handles "/addsymbol SYMBOL NAME... TYPE". The name may contain spaces.
func (s *Scheduler) addSymbol(ctx context.Context, args []string) string {
	if s.Symbols == nil {
		return "Symbol catalog is read-only"
	}
	if len(args) < 3 {
		return "Usage: /addsymbol SYMBOL NAME TYPE (forex, stock, crypto or index)"
	}
	typ := model.SymbolType(strings.ToLower(args[len(args)-1]))
	switch typ {
	case model.SymbolForex, model.SymbolStock, model.SymbolCrypto, model.SymbolIndex:
	default:
		return fmt.Sprintf("Unknown symbol type %q", args[len(args)-1])
	}
	info := model.SymbolInfo{
		Symbol: strings.ToUpper(args[0]),
		Name:   strings.Join(args[1:len(args)-1], " "),
		Type:   typ,
	}
	if err := s.Symbols.Add(ctx, info, false); err != nil {
		s.Log.WithError(err).WithField("symbol", info.Symbol).Error("add symbol")
		return fmt.Sprintf("Could not add %s: %v", info.Symbol, err)
	}
	s.Log.WithFields(logrus.Fields{"symbol": info.Symbol, "type": info.Type}).Info("symbol added to catalog")
	return fmt.Sprintf("Added %s (%s, %s)", info.Symbol, info.Name, info.Type)
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.WithError(err).Error("send notification")
	}
}
