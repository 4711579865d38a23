// Package marketdata fetches trailing daily history for a symbol and derives
// the latest price, latest volume and percent change over the window.
package marketdata

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrDataUnavailable means the provider gave no usable series for a symbol.
var ErrDataUnavailable = errors.New("market data unavailable")

var hundred = decimal.NewFromInt(100)

// Bar is one daily observation.
type Bar struct {
	Time   time.Time
	Close  decimal.Decimal
	Volume int64
}

type FetchResult struct {
	Symbol        string
	Price         decimal.Decimal // last close
	Volume        int64           // last volume
	PercentChange decimal.Decimal // first close to last close
	Bars          int
}

// BarSource is a market data provider.
type BarSource interface {
	Name() string
	History(symbol string, start, end time.Time) ([]Bar, error)
}

type Client struct {
	source BarSource
	logger *zap.Logger
	now    func() time.Time
}

func NewClient(source BarSource, logger *zap.Logger) *Client {
	return &Client{source: source, logger: logger, now: time.Now}
}

func (c *Client) Provider() string { return c.source.Name() }

// FetchMetrics requests windowDays calendar days of history ending now.
func (c *Client) FetchMetrics(symbol string, windowDays int) (FetchResult, error) {
	if windowDays < 1 {
		return FetchResult{}, fmt.Errorf("%w: %s: window of %d days", ErrDataUnavailable, symbol, windowDays)
	}

	end := c.now()
	start := end.AddDate(0, 0, -windowDays)

	bars, err := c.source.History(symbol, start, end)
	if err != nil {
		c.logger.Warn("history request failed",
			zap.String("symbol", symbol),
			zap.String("provider", c.source.Name()),
			zap.Error(err),
		)
		return FetchResult{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	c.logger.Debug("history received",
		zap.String("symbol", symbol),
		zap.Int("window_days", windowDays),
		zap.Int("bars", len(bars)),
	)
	return ComputeMetrics(symbol, bars)
}

// ComputeMetrics derives a FetchResult from bars, ordering them by time first.
func ComputeMetrics(symbol string, bars []Bar) (FetchResult, error) {
	if len(bars) == 0 {
		return FetchResult{}, fmt.Errorf("%w: %s: empty series", ErrDataUnavailable, symbol)
	}

	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	first, last := sorted[0], sorted[len(sorted)-1]
	if !first.Close.IsPositive() {
		return FetchResult{}, fmt.Errorf("%w: %s: first close is %s", ErrDataUnavailable, symbol, first.Close)
	}

	return FetchResult{
		Symbol:        symbol,
		Price:         last.Close,
		Volume:        last.Volume,
		PercentChange: last.Close.Sub(first.Close).Div(first.Close).Mul(hundred),
		Bars:          len(sorted),
	}, nil
}
