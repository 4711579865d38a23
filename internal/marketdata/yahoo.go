package marketdata

import (
	"fmt"
	"net/http"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// YahooSource reads daily bars from Yahoo Finance's chart endpoint.
type YahooSource struct{}

// NewYahooSource configures the shared finance-go HTTP client with timeout.
func NewYahooSource(timeout time.Duration) *YahooSource {
	finance.SetHTTPClient(&http.Client{Timeout: timeout})
	return &YahooSource{}
}

func (*YahooSource) Name() string { return "Yahoo Finance" }

func (*YahooSource) History(symbol string, start, end time.Time) ([]Bar, error) {
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var out []Bar
	for iter.Next() {
		b := iter.Bar()
		out = append(out, Bar{
			Time:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart for %s: %w", symbol, err)
	}
	return out, nil
}
