package store

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NeverRun is the last_run runtime before the first run completes.
const NeverRun = "never run"

// RuntimeLayout formats last_run.runtime as YYYY-MM-DD HH:MM:SS.
const RuntimeLayout = "2006-01-02 15:04:05"

// Settings is one threshold record, either global or for a single symbol (a "box").
type Settings struct {
	MaxPrice        float64 `json:"max_price"`
	MinVolume       int     `json:"min_volume"`
	TimeWindow      int     `json:"time_window"`      // days
	RefreshInterval int     `json:"refresh_interval"` // seconds
}

type LastRun struct {
	StocksProcessed []string `json:"stocks_processed"`
	Runtime         string   `json:"runtime"`
}

// Document is the whole persisted state.
type Document struct {
	GlobalSettings   Settings            `json:"global_settings"`
	IndependentBoxes map[string]Settings `json:"independent_boxes"`
	LastRun          LastRun             `json:"last_run"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxPrice:        10.0,
		MinVolume:       100000,
		TimeWindow:      30,
		RefreshInterval: 10,
	}
}

func DefaultDocument() *Document {
	return &Document{
		GlobalSettings:   DefaultSettings(),
		IndependentBoxes: map[string]Settings{},
		LastRun: LastRun{
			StocksProcessed: []string{},
			Runtime:         NeverRun,
		},
	}
}

// Validate reports the first out-of-range field.
func (s Settings) Validate() error {
	switch {
	case s.MaxPrice <= 0:
		return fmt.Errorf("max_price must be greater than 0, got %v", s.MaxPrice)
	case s.MinVolume < 0:
		return fmt.Errorf("min_volume must not be negative, got %d", s.MinVolume)
	case s.TimeWindow < 1:
		return fmt.Errorf("time_window must be at least 1 day, got %d", s.TimeWindow)
	case s.RefreshInterval < 1:
		return fmt.Errorf("refresh_interval must be at least 1 second, got %d", s.RefreshInterval)
	}
	return nil
}

var upper = cases.Upper(language.Und)

// NormalizeSymbol trims and upper-cases a ticker so "aapl " and "AAPL" share a box.
func NormalizeSymbol(symbol string) string {
	return upper.String(strings.TrimSpace(symbol))
}

// SettingsFor returns the box for symbol, or the global settings when there is none.
func (d *Document) SettingsFor(symbol string) Settings {
	if s, ok := d.IndependentBoxes[NormalizeSymbol(symbol)]; ok {
		return s
	}
	return d.GlobalSettings
}

// Symbols returns the configured box symbols in sorted order.
func (d *Document) Symbols() []string {
	symbols := make([]string, 0, len(d.IndependentBoxes))
	for s := range d.IndependentBoxes {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
