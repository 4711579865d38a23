package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "config.json"), zaptest.NewLogger(t))
}

func TestLoadSeedsDefaults(t *testing.T) {
	st := newTestStore(t)

	doc, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(doc, DefaultDocument()) {
		t.Fatalf("Load = %+v, want default", doc)
	}
	if _, err := os.Stat(st.Path()); err != nil {
		t.Fatalf("default file not written: %v", err)
	}

	again, err := st.Load()
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if !reflect.DeepEqual(again, DefaultDocument()) {
		t.Fatalf("second Load = %+v, want default", again)
	}
}

func TestSaveLoadIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	doc := DefaultDocument()
	doc.IndependentBoxes["TSLA"] = Settings{MaxPrice: 250.5, MinVolume: 5000, TimeWindow: 7, RefreshInterval: 60}
	doc.LastRun = LastRun{StocksProcessed: []string{"AAPL", "MSFT"}, Runtime: "2026-10-18 09:30:00"}
	if err := st.Save(doc); err != nil {
		t.Fatal(err)
	}

	var snapshots [][]byte
	for i := 0; i < 2; i++ {
		loaded, err := st.Load()
		if err != nil {
			t.Fatal(err)
		}
		if err := st.Save(loaded); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(st.Path())
		if err != nil {
			t.Fatal(err)
		}
		snapshots = append(snapshots, data)
	}
	if !bytes.Equal(snapshots[0], snapshots[1]) {
		t.Fatalf("round trips differ:\n%s\n---\n%s", snapshots[0], snapshots[1])
	}
}

func TestLoadCorruptFileIsParseError(t *testing.T) {
	st := newTestStore(t)
	if err := os.WriteFile(st.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := st.Load()
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	data, _ := os.ReadFile(st.Path())
	if string(data) != "{not json" {
		t.Fatalf("corrupt file was rewritten: %q", data)
	}
}

func TestLoadOutOfRangeNamesField(t *testing.T) {
	st := newTestStore(t)
	if err := os.WriteFile(st.Path(), []byte(`{"global_settings": {"max_price": 0}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := st.Load()
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	for _, want := range []string{st.Path(), "global_settings", "max_price", "delete the file"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestDecodeDefaultsMissingFields(t *testing.T) {
	data := []byte(`{
		"global_settings": {"max_price": 25},
		"independent_boxes": {"nvda ": {"time_window": 5}},
		"last_run": {"stocks_processed": ["AAPL"], "runtime": null}
	}`)

	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	wantGlobal := DefaultSettings()
	wantGlobal.MaxPrice = 25
	if doc.GlobalSettings != wantGlobal {
		t.Errorf("global = %+v, want %+v", doc.GlobalSettings, wantGlobal)
	}

	wantBox := DefaultSettings()
	wantBox.TimeWindow = 5
	if got := doc.IndependentBoxes["NVDA"]; got != wantBox {
		t.Errorf("NVDA box = %+v, want %+v", got, wantBox)
	}
	if doc.LastRun.Runtime != NeverRun {
		t.Errorf("runtime = %q, want %q", doc.LastRun.Runtime, NeverRun)
	}
	if !reflect.DeepEqual(doc.LastRun.StocksProcessed, []string{"AAPL"}) {
		t.Errorf("stocks_processed = %v", doc.LastRun.StocksProcessed)
	}
}

func TestDecodeEmptyObject(t *testing.T) {
	doc, err := Decode([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(doc, DefaultDocument()) {
		t.Fatalf("Decode({}) = %+v", doc)
	}
}

func TestDecodeRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong type", `{"global_settings": {"min_volume": "lots"}}`},
		{"zero window", `{"global_settings": {"time_window": 0}}`},
		{"negative box price", `{"independent_boxes": {"AAPL": {"max_price": -1}}}`},
		{"blank symbol", `{"independent_boxes": {"  ": {}}}`},
		{"not an object", `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); !errors.Is(err, ErrParse) {
				t.Fatalf("err = %v, want ErrParse", err)
			}
		})
	}
}

func TestDecodeKeyCollisionPrefersNormalized(t *testing.T) {
	doc, err := Decode([]byte(`{"independent_boxes": {
		"aapl": {"max_price": 1},
		"AAPL": {"max_price": 2}
	}}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.IndependentBoxes) != 1 {
		t.Fatalf("boxes = %v", doc.IndependentBoxes)
	}
	if got := doc.IndependentBoxes["AAPL"].MaxPrice; got != 2 {
		t.Errorf("AAPL max_price = %v, want 2", got)
	}
}

func TestSaveFailureIsWriteError(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing-dir", "config.json"), zaptest.NewLogger(t))
	if err := st.Save(DefaultDocument()); !errors.Is(err, ErrWrite) {
		t.Fatalf("err = %v, want ErrWrite", err)
	}
}

func TestSettingsForFallsBackToGlobal(t *testing.T) {
	doc := DefaultDocument()
	doc.GlobalSettings.TimeWindow = 90
	doc.IndependentBoxes["AAPL"] = Settings{MaxPrice: 300, MinVolume: 1, TimeWindow: 10, RefreshInterval: 5}

	if got := doc.SettingsFor("msft"); got != doc.GlobalSettings {
		t.Errorf("SettingsFor(msft) = %+v, want global", got)
	}
	if got := doc.SettingsFor(" aapl"); got.TimeWindow != 10 {
		t.Errorf("SettingsFor(aapl) = %+v, want box", got)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	for in, want := range map[string]string{
		"aapl":     "AAPL",
		"  msft\t": "MSFT",
		"BRK.b":    "BRK.B",
		"":         "",
	} {
		if got := NormalizeSymbol(in); got != want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSymbolsSorted(t *testing.T) {
	doc := DefaultDocument()
	for _, s := range []string{"TSLA", "AAPL", "MSFT"} {
		doc.IndependentBoxes[s] = DefaultSettings()
	}
	if got := doc.Symbols(); !reflect.DeepEqual(got, []string{"AAPL", "MSFT", "TSLA"}) {
		t.Errorf("Symbols = %v", got)
	}
}
