// Package menu is the interactive main loop.
package menu

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"stockbot/internal/console"
	"stockbot/internal/render"
	"stockbot/internal/report"
	"stockbot/internal/settings"
	"stockbot/internal/store"
)

type State int

const (
	MainMenu State = iota
	EditGlobal
	EditBox
	Run
	ViewLastRun
	Help
	Exit
)

var choices = map[string]State{
	"1": EditGlobal,
	"2": EditBox,
	"3": Run,
	"4": ViewLastRun,
	"5": Help,
	"6": Exit,
}

type DocumentStore interface {
	Load() (*store.Document, error)
	Save(doc *store.Document) error
}

type Runner interface {
	Run(doc *store.Document) report.Summary
}

type Menu struct {
	console  *console.Console
	store    DocumentStore
	editor   *settings.Editor
	runner   Runner
	provider string
	logger   *zap.Logger

	// unsaved holds a document whose last save failed. It is used instead of
	// reloading from disk until a save succeeds.
	unsaved *store.Document
	// notice is shown under the next main menu, after the screen is cleared.
	notice string
}

func New(c *console.Console, st DocumentStore, ed *settings.Editor, runner Runner, provider string, logger *zap.Logger) *Menu {
	return &Menu{
		console:  c,
		store:    st,
		editor:   ed,
		runner:   runner,
		provider: provider,
		logger:   logger,
	}
}

// Run drives the state machine until Exit or end of input.
func (m *Menu) Run() error {
	state := MainMenu
	for state != Exit {
		next, err := m.step(state)
		if errors.Is(err, io.EOF) {
			m.console.Print("\n")
			m.logger.Info("input closed, exiting")
			return nil
		}
		if err != nil {
			return err
		}
		state = next
	}
	m.logger.Info("menu session ended")
	return nil
}

func (m *Menu) step(state State) (State, error) {
	var err error
	switch state {
	case MainMenu:
		return m.mainMenu()
	case EditGlobal:
		err = m.editGlobal()
	case EditBox:
		err = m.editBox()
	case Run:
		err = m.run()
	case ViewLastRun:
		err = m.viewLastRun()
	case Help:
		m.help()
	default:
		return MainMenu, fmt.Errorf("unknown menu state %d", state)
	}
	if err != nil {
		return MainMenu, err
	}
	m.console.Pause()
	return MainMenu, nil
}

func (m *Menu) mainMenu() (State, error) {
	m.console.Clear()
	m.console.Panel("Welcome", "Stock Bot Main Menu")
	m.console.Print(strings.Join([]string{
		"1. Configure Global Settings",
		"2. Configure Independent Box Settings",
		"3. Run Stock Bot",
		"4. View Last Run Info",
		"5. Help",
		"6. Exit",
	}, "\n") + "\n")
	if m.notice != "" {
		m.console.Status(render.Failure, m.notice)
		m.notice = ""
	}

	choice, err := m.console.Prompt("Enter your choice (1-6): ")
	if err != nil {
		return Exit, err
	}

	next, ok := choices[strings.TrimSpace(choice)]
	if !ok {
		m.notice = fmt.Sprintf("Invalid choice %q. Please try again.", strings.TrimSpace(choice))
		return MainMenu, nil
	}
	if next == Exit {
		m.console.Status(render.Success, "Exiting. Goodbye!")
	}
	return next, nil
}

// document returns the retained unsaved document, or a fresh load.
func (m *Menu) document() (*store.Document, bool) {
	if m.unsaved != nil {
		return m.unsaved, true
	}
	doc, err := m.store.Load()
	if err != nil {
		m.logger.Error("load settings", zap.Error(err))
		m.console.Status(render.Failure, "Could not load settings: "+err.Error())
		return nil, false
	}
	return doc, true
}

func (m *Menu) save(doc *store.Document, success string) {
	if err := m.store.Save(doc); err != nil {
		m.unsaved = doc
		m.logger.Error("save settings", zap.Error(err))
		m.console.Status(render.Failure, "Could not save settings: "+err.Error())
		m.console.Status(render.Warning, "Changes are kept in memory and will be saved with the next change.")
		return
	}
	m.unsaved = nil
	m.console.Status(render.Success, success)
}

// editFailed reports a validation error. Any other error is returned.
func (m *Menu) editFailed(err error) error {
	if errors.Is(err, settings.ErrValidation) {
		m.console.Status(render.Failure, err.Error()+". Nothing was changed.")
		return nil
	}
	return err
}

func (m *Menu) editGlobal() error {
	doc, ok := m.document()
	if !ok {
		return nil
	}
	m.console.Panel("", "Global Settings")
	if err := m.editor.EditGlobal(doc); err != nil {
		return m.editFailed(err)
	}
	m.save(doc, "Global settings updated!")
	return nil
}

func (m *Menu) editBox() error {
	doc, ok := m.document()
	if !ok {
		return nil
	}
	m.console.Panel("", "Independent Box Settings")
	raw, err := m.console.Prompt("Enter stock symbol for the box: ")
	if err != nil {
		return err
	}
	if symbol := store.NormalizeSymbol(raw); symbol != "" {
		m.console.Status(render.Info, "Configuring settings for "+symbol)
	}
	symbol, err := m.editor.EditBox(doc, raw)
	if err != nil {
		return m.editFailed(err)
	}
	m.save(doc, fmt.Sprintf("Settings for %s updated!", symbol))
	return nil
}

func (m *Menu) run() error {
	doc, ok := m.document()
	if !ok {
		return nil
	}
	summary := m.runner.Run(doc)
	m.logger.Info("run recorded", zap.String("run_id", summary.RunID))
	m.save(doc, fmt.Sprintf("Last run saved (%d succeeded, %d failed).", len(summary.Succeeded), len(summary.Failed)))
	return nil
}

func (m *Menu) viewLastRun() error {
	doc, ok := m.document()
	if !ok {
		return nil
	}
	stocks := strings.Join(doc.LastRun.StocksProcessed, ", ")
	if stocks == "" {
		stocks = "None"
	}
	m.console.Table("Last Run Info", []string{"Stocks Processed", "Runtime"}, [][]string{{stocks, doc.LastRun.Runtime}})
	return nil
}

func (m *Menu) help() {
	m.console.Clear()
	m.console.Panel("Stock Bot Help", strings.Join([]string{
		"1. Global Settings: Configure shared settings for all boxes.",
		"2. Independent Box Settings: Configure individual settings for specific stock boxes. Symbols are trimmed and upper-cased.",
		"3. Running the Bot: Fetch each boxed symbol in alphabetical order (or AAPL, MSFT, GOOGL when no box exists) and show price, volume and price change over its time window.",
		"4. Viewing Last Run Info: See the stocks processed and runtime of the last bot execution.",
		"5. Market data: Prices come from " + m.provider + ".",
		"6. Exiting: Quit the application.",
	}, "\n"))
}
