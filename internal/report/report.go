// Package report runs one pass over the configured symbols and records it
// as the document's last run.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockbot/internal/marketdata"
	"stockbot/internal/render"
	"stockbot/internal/store"
)

// DefaultSymbols are used when no box is configured.
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL"}

type Fetcher interface {
	FetchMetrics(symbol string, windowDays int) (marketdata.FetchResult, error)
}

type Display interface {
	Panel(title, body string)
	Status(level render.Level, text string)
}

type Reporter struct {
	fetcher  Fetcher
	display  Display
	logger   *zap.Logger
	now      func() time.Time
	fallback []string
}

func New(f Fetcher, d Display, logger *zap.Logger) *Reporter {
	return &Reporter{
		fetcher:  f,
		display:  d,
		logger:   logger,
		now:      time.Now,
		fallback: DefaultSymbols,
	}
}

type Summary struct {
	RunID     string
	Succeeded []string
	Failed    []string
}

// Run fetches every symbol in turn and writes doc.LastRun. A symbol whose
// data is unavailable is reported and still counted as processed. The
// caller persists doc.
func (r *Reporter) Run(doc *store.Document) Summary {
	summary := Summary{RunID: uuid.NewString()}
	logger := r.logger.With(zap.String("run_id", summary.RunID))

	symbols := doc.Symbols()
	if len(symbols) == 0 {
		symbols = r.fallback
	}
	logger.Info("run started", zap.Strings("symbols", symbols))

	processed := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		s := doc.SettingsFor(symbol)
		res, err := r.fetcher.FetchMetrics(symbol, s.TimeWindow)
		processed = append(processed, symbol)

		if err != nil {
			summary.Failed = append(summary.Failed, symbol)
			logger.Warn("symbol failed", zap.String("symbol", symbol), zap.Error(err))
			r.display.Panel("Stock: "+symbol, "Error: "+err.Error())
			continue
		}

		summary.Succeeded = append(summary.Succeeded, symbol)
		logger.Info("symbol processed",
			zap.String("symbol", symbol),
			zap.String("price", res.Price.String()),
			zap.Int64("volume", res.Volume),
			zap.String("percent_change", res.PercentChange.StringFixed(4)),
		)
		r.display.Panel("Stock: "+symbol, FormatResult(res, s))
	}

	doc.LastRun = store.LastRun{
		StocksProcessed: processed,
		Runtime:         r.now().Format(store.RuntimeLayout),
	}

	level := render.Success
	if len(summary.Failed) > 0 {
		level = render.Warning
	}
	r.display.Status(level, fmt.Sprintf("Stock bot run completed: %d succeeded, %d failed.", len(summary.Succeeded), len(summary.Failed)))
	logger.Info("run finished", zap.Int("succeeded", len(summary.Succeeded)), zap.Int("failed", len(summary.Failed)))
	return summary
}

// WithinLimits reports whether res passes the price ceiling and volume floor of s.
func WithinLimits(res marketdata.FetchResult, s store.Settings) bool {
	return res.Price.LessThanOrEqual(decimal.NewFromFloat(s.MaxPrice)) && res.Volume >= int64(s.MinVolume)
}

func FormatResult(res marketdata.FetchResult, s store.Settings) string {
	limits := "no"
	if WithinLimits(res, s) {
		limits = "yes"
	}
	lines := []string{
		"Price: " + res.Price.StringFixed(2),
		fmt.Sprintf("Volume: %d", res.Volume),
		"Price Change (%): " + res.PercentChange.StringFixed(2),
		fmt.Sprintf("Window: %d days (%d bars)", s.TimeWindow, res.Bars),
		fmt.Sprintf("Within limits: %s (max price %s, min volume %d)", limits, decimal.NewFromFloat(s.MaxPrice).StringFixed(2), s.MinVolume),
	}
	return strings.Join(lines, "\n")
}
