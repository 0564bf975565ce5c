package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketlens/internal/logger"
	"marketlens/internal/model"
)

func TestSend(t *testing.T) {
	var gotPath string
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&payload)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", logger.Discard())
	tn.APIBase = srv.URL
	if err := tn.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotPath != "/botTOKEN/sendMessage" {
		t.Errorf("path = %s", gotPath)
	}
	if payload["chat_id"] != "42" || payload["text"] != "hello" || payload["parse_mode"] != "HTML" {
		t.Errorf("payload = %v", payload)
	}
}

func TestSendWithRetry_GivesUp(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("T", "1", "", logger.Discard())
	tn.APIBase = srv.URL
	if err := tn.SendWithRetry(context.Background(), "x", 0); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		cmd  string
		args int
	}{
		{"/overview", "/overview", 0},
		{"/Signal@marketlens_bot AAPL", "/signal", 1},
		{"  ", "", 0},
	}
	for _, tt := range tests {
		cmd, args := ParseCommand(tt.in)
		if cmd != tt.cmd || len(args) != tt.args {
			t.Errorf("ParseCommand(%q) = %q, %v", tt.in, cmd, args)
		}
	}
}

func TestFormatOverview(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	msg := FormatOverview([]model.OverviewEntry{
		{Symbol: "AAPL", Price: 189.5, ChangePercent: 1.25, RSI: model.Float(72.5), Signal: model.CoarseSell, Trend: model.TrendUp, Currency: "USD"},
		{Symbol: "EURUSD=X", Price: 1.0925, ChangePercent: -0.1, Signal: model.CoarseHold, Trend: model.TrendDown, Currency: "USD"},
	}, at)

	for _, want := range []string{"2024-05-01 09:30", "<b>AAPL</b> 189.50 USD | +1.25% | RSI 72.5 | SELL", "1.0925", "RSI n/a"} {
		if !strings.Contains(msg, want) {
			t.Errorf("overview missing %q:\n%s", want, msg)
		}
	}
	if !strings.Contains(FormatOverview(nil, at), "No data") {
		t.Errorf("empty overview should say so")
	}
}

func TestFormatSignal(t *testing.T) {
	ind := model.IndicatorSet{RSI: model.Float(25)}
	sig := model.TradingSignal{Recommendation: model.Buy, Strength: model.StrengthModerate, Score: 20, Confidence: 0.4, Signals: []string{"RSI oversold (<30)"}}
	msg := FormatSignal("BTC-USD", 64000, ind, sig)
	for _, want := range []string{"BTC-USD", "RSI(14): 25.00", "SMA200: n/a", "BUY</b> (MODERADO) score +20, confidence 40%", "RSI oversold (&lt;30)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("signal message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatSignalChange(t *testing.T) {
	msg := FormatSignalChange(model.CoarseHold, model.OverviewEntry{Symbol: "MSFT", Price: 400, Signal: model.CoarseBuy, Trend: model.TrendDown, Currency: "USD"})
	if !strings.Contains(msg, "HOLD → <b>BUY</b>") {
		t.Errorf("unexpected alert: %s", msg)
	}
}

func TestStartPolling_DispatchesCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var replies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /overview "}},{"update_id":8}]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			json.NewDecoder(r.Body).Decode(&p)
			replies = append(replies, p["text"])
			w.Write([]byte(`{"ok":true,"result":{}}`))
			cancel()
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("T", "1", "", logger.Discard())
	tn.APIBase = srv.URL

	var got []string
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(_ context.Context, cmd string) string {
			got = append(got, cmd)
			return "reply to " + cmd
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
	if len(got) != 1 || got[0] != "/overview" {
		t.Errorf("commands = %v", got)
	}
	if len(replies) != 1 || replies[0] != "reply to /overview" {
		t.Errorf("replies = %v", replies)
	}
}
