// Package settings edits the global and per-symbol threshold records.
package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"stockbot/internal/store"
)

// ErrValidation means a prompt got input that cannot be applied.
var ErrValidation = errors.New("invalid input")

type Prompter interface {
	Prompt(label string) (string, error)
}

type Editor struct {
	prompter Prompter
	logger   *zap.Logger
}

func NewEditor(p Prompter, logger *zap.Logger) *Editor {
	return &Editor{prompter: p, logger: logger}
}

// EditGlobal replaces doc.GlobalSettings with four prompted values.
// doc is unchanged unless every value is valid.
func (e *Editor) EditGlobal(doc *store.Document) error {
	s, err := e.promptSettings()
	if err != nil {
		return err
	}
	doc.GlobalSettings = s
	e.logger.Info("global settings updated", zap.Any("settings", s))
	return nil
}

// EditBox creates or replaces the box for symbol. It returns the normalized symbol that was written.
func (e *Editor) EditBox(doc *store.Document, symbol string) (string, error) {
	symbol = store.NormalizeSymbol(symbol)
	if symbol == "" {
		return "", fmt.Errorf("%w: stock symbol is empty", ErrValidation)
	}

	_, exists := doc.IndependentBoxes[symbol]

	box, err := e.promptSettings()
	if err != nil {
		return symbol, err
	}

	if doc.IndependentBoxes == nil {
		doc.IndependentBoxes = map[string]store.Settings{}
	}
	doc.IndependentBoxes[symbol] = box
	e.logger.Info("box settings updated", zap.String("symbol", symbol), zap.Bool("new", !exists), zap.Any("settings", box))
	return symbol, nil
}

func (e *Editor) promptSettings() (store.Settings, error) {
	var s store.Settings
	var err error

	if s.MaxPrice, err = e.promptFloat("Set max price: "); err != nil {
		return s, err
	}
	if s.MinVolume, err = e.promptInt("Set minimum volume: "); err != nil {
		return s, err
	}
	if s.TimeWindow, err = e.promptInt("Set time window (days): "); err != nil {
		return s, err
	}
	if s.RefreshInterval, err = e.promptInt("Set refresh interval (seconds): "); err != nil {
		return s, err
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s, nil
}

func (e *Editor) promptFloat(label string) (float64, error) {
	raw, err := e.prompter.Prompt(label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrValidation, raw)
	}
	return v, nil
}

func (e *Editor) promptInt(label string) (int, error) {
	raw, err := e.prompter.Prompt(label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrValidation, raw)
	}
	return v, nil
}
