package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/utils"
)

const (
	curveDir = "curves"
	spotDir  = "spot"
)

// extensions are tried in order when resolving a document name.
var extensions = []string{".json", ".txt"}

// FileStore reads one JSON document per curve under Root:
//
//	curves/<name>.json  {"0": 1.0, "91": 0.982, ...}
//	spot/<name>.json    {"2022-10-17": 0.0715, ...}
type FileStore struct {
	Root   string
	Logger *zap.Logger
}

// NewFileStore returns a store rooted at root.
func NewFileStore(root string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{Root: root, Logger: logger}
}

func (s *FileStore) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *FileStore) read(dir, name string) (map[string]*float64, string, error) {
	for _, ext := range extensions {
		path := filepath.Join(s.Root, dir, name+ext)
		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, fmt.Errorf("marketdata: read %s: %w", path, err)
		}
		var doc map[string]*float64
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, path, fmt.Errorf("marketdata: decode %s: %w", path, err)
		}
		return doc, path, nil
	}
	return nil, "", fmt.Errorf("marketdata: %w: no %s document %q under %s", dpm.ErrMissingMarketData, dir, name, s.Root)
}

// Curve implements Loader.
func (s *FileStore) Curve(_ context.Context, name string) (map[int]float64, error) {
	doc, path, err := s.read(curveDir, name)
	if err != nil {
		return nil, err
	}
	out := make(map[int]float64, len(doc))
	for key, raw := range doc {
		tenor, err := strconv.Atoi(key)
		if err != nil || tenor < 0 {
			return nil, fmt.Errorf("marketdata: %w: curve %q tenor key %q", dpm.ErrInvalidInput, name, key)
		}
		v, err := checkValue("curve "+name+" tenor", key, raw)
		if err != nil {
			return nil, err
		}
		out[tenor] = v
	}
	s.logger().Debug("curve loaded", zap.String("curve", name), zap.String("path", path), zap.Int("points", len(out)))
	return out, nil
}

// Fixings implements Loader.
func (s *FileStore) Fixings(_ context.Context, name string) (map[time.Time]float64, error) {
	doc, path, err := s.read(spotDir, name)
	if err != nil {
		return nil, err
	}
	out := make(map[time.Time]float64, len(doc))
	for key, raw := range doc {
		date, err := utils.ParseDate(key)
		if err != nil {
			return nil, fmt.Errorf("marketdata: %w: fixings %q: %v", dpm.ErrInvalidInput, name, err)
		}
		v, err := checkValue("fixing "+name, key, raw)
		if err != nil {
			return nil, err
		}
		out[date] = v
	}
	s.logger().Debug("fixings loaded", zap.String("index", name), zap.String("path", path), zap.Int("fixings", len(out)))
	return out, nil
}

// SaveCurve writes a curve document, creating directories as needed.
func (s *FileStore) SaveCurve(name string, points map[int]float64) error {
	doc := make(map[string]float64, len(points))
	for k, v := range points {
		doc[strconv.Itoa(k)] = v
	}
	return s.write(curveDir, name, doc)
}

// SaveFixings writes a fixings document.
func (s *FileStore) SaveFixings(name string, fixings map[time.Time]float64) error {
	doc := make(map[string]float64, len(fixings))
	for k, v := range fixings {
		doc[k.Format(utils.DateLayout)] = v
	}
	return s.write(spotDir, name, doc)
}

func (s *FileStore) write(dir, name string, doc map[string]float64) error {
	path := filepath.Join(s.Root, dir, name+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("marketdata: %w", err)
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marketdata: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("marketdata: write %s: %w", path, err)
	}
	return nil
}
