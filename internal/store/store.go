package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

var (
	// ErrParse means the settings file exists but cannot be used.
	ErrParse = errors.New("settings file is not valid")
	// ErrWrite means the settings file could not be replaced.
	ErrWrite = errors.New("cannot write settings file")
)

var prettyOptions = &pretty.Options{Width: 80, Indent: "    "}

// Store reads and writes the settings document at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string { return s.path }

// Load reads the document. A missing file is seeded with DefaultDocument.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc := DefaultDocument()
		if err := s.Save(doc); err != nil {
			return nil, err
		}
		s.logger.Info("seeded default settings", zap.String("path", s.path))
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w (edit the named field or delete the file to start from defaults)", s.path, err)
	}
	return doc, nil
}

// Save replaces the file with the full document. The write goes through a
// temp file and a rename so readers never see a half-written file.
func (s *Store) Save(doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	s.logger.Debug("saved settings", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}

// Encode serializes doc the way it is stored on disk.
func Encode(doc *Document) ([]byte, error) {
	out := *doc
	if out.IndependentBoxes == nil {
		out.IndependentBoxes = map[string]Settings{}
	}
	if out.LastRun.StocksProcessed == nil {
		out.LastRun.StocksProcessed = []string{}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(data, prettyOptions), nil
}

type rawSettings struct {
	MaxPrice        *float64 `json:"max_price"`
	MinVolume       *int     `json:"min_volume"`
	TimeWindow      *int     `json:"time_window"`
	RefreshInterval *int     `json:"refresh_interval"`
}

type rawDocument struct {
	GlobalSettings   *rawSettings            `json:"global_settings"`
	IndependentBoxes map[string]*rawSettings `json:"independent_boxes"`
	LastRun          *struct {
		StocksProcessed []string `json:"stocks_processed"`
		Runtime         *string  `json:"runtime"`
	} `json:"last_run"`
}

// Decode parses a stored document. Missing fields take their defaults;
// malformed JSON or out-of-range values fail with ErrParse.
func Decode(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	doc := DefaultDocument()
	doc.GlobalSettings = raw.GlobalSettings.fill()
	if err := doc.GlobalSettings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: global_settings: %v", ErrParse, err)
	}

	// Older files may carry un-normalized keys. When two keys collide, the
	// one already in normalized form wins.
	keys := make([]string, 0, len(raw.IndependentBoxes))
	for k := range raw.IndependentBoxes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		symbol := NormalizeSymbol(k)
		if symbol == "" {
			return nil, fmt.Errorf("%w: independent_boxes: empty symbol", ErrParse)
		}
		if _, taken := doc.IndependentBoxes[symbol]; taken && k != symbol {
			continue
		}
		box := raw.IndependentBoxes[k].fill()
		if err := box.Validate(); err != nil {
			return nil, fmt.Errorf("%w: independent_boxes[%s]: %v", ErrParse, k, err)
		}
		doc.IndependentBoxes[symbol] = box
	}

	if raw.LastRun != nil {
		if raw.LastRun.StocksProcessed != nil {
			doc.LastRun.StocksProcessed = raw.LastRun.StocksProcessed
		}
		if raw.LastRun.Runtime != nil && *raw.LastRun.Runtime != "" {
			doc.LastRun.Runtime = *raw.LastRun.Runtime
		}
	}
	return doc, nil
}

func (r *rawSettings) fill() Settings {
	s := DefaultSettings()
	if r == nil {
		return s
	}
	if r.MaxPrice != nil {
		s.MaxPrice = *r.MaxPrice
	}
	if r.MinVolume != nil {
		s.MinVolume = *r.MinVolume
	}
	if r.TimeWindow != nil {
		s.TimeWindow = *r.TimeWindow
	}
	if r.RefreshInterval != nil {
		s.RefreshInterval = *r.RefreshInterval
	}
	return s
}
