package marketdata

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// ErrMissingCredentials is returned for every request when no API key pair is configured.
var ErrMissingCredentials = errors.New("ALPACA_KEY or ALPACA_SECRET is missing")

// AlpacaSource reads daily bars from the Alpaca market data API on the IEX feed.
type AlpacaSource struct {
	client      *marketdata.Client
	credentials bool
}

func NewAlpacaSource(key, secret string, timeout time.Duration) *AlpacaSource {
	return &AlpacaSource{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:     key,
			APISecret:  secret,
			Feed:       marketdata.IEX,
			HTTPClient: &http.Client{Timeout: timeout},
		}),
		credentials: key != "" && secret != "",
	}
}

func (*AlpacaSource) Name() string { return "Alpaca" }

// UsTradingHours returns the regular session for day in UTC
// (9:30 AM - 4:00 PM ET as 13:30 - 20:00 UTC).
func UsTradingHours(day time.Time) (time.Time, time.Time) {
	day = day.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 13, 30, 0, 0, time.UTC)
	end := time.Date(day.Year(), day.Month(), day.Day(), 20, 0, 0, 0, time.UTC)
	return start, end
}

// History fetches one-day bars between the session open of start's day and
// the session close of end's day.
func (a *AlpacaSource) History(symbol string, start, end time.Time) ([]Bar, error) {
	if !a.credentials {
		return nil, fmt.Errorf("alpaca bars for %s: %w", symbol, ErrMissingCredentials)
	}
	tradingStart, _ := UsTradingHours(start)
	_, tradingEnd := UsTradingHours(end)

	bars, err := a.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     tradingStart,
		End:       tradingEnd,
		Feed:      marketdata.IEX,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars for %s: %w", symbol, err)
	}

	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		out = append(out, Bar{
			Time:   b.Timestamp,
			Close:  decimal.NewFromFloat(b.Close),
			Volume: int64(b.Volume),
		})
	}
	return out, nil
}
