package holidays

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/meenmo/dpm/calendar"
	"github.com/meenmo/dpm/utils"
)

// ErrNotCached is returned when the cache holds no calendar for a code.
var ErrNotCached = errors.New("holidays: calendar not cached")

// FileStore caches one calendar per country as a JSON array of dates in
// <Dir>/<CODE>.json. Legacy <CODE>.txt files (a JSON array or one date per
// line) are read as well.
type FileStore struct {
	Dir string
}

// Load reads a cached calendar.
func (s FileStore) Load(code string) (calendar.HolidaySet, error) {
	dates, err := s.dates(code)
	if err != nil {
		return calendar.HolidaySet{}, err
	}
	return calendar.NewHolidaySet(dates...), nil
}

func (s FileStore) dates(code string) ([]time.Time, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	for _, ext := range []string{".json", ".txt"} {
		path := filepath.Join(s.Dir, code+ext)
		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("holidays: read %s: %w", path, err)
		}
		dates, err := parseDates(raw)
		if err != nil {
			return nil, fmt.Errorf("holidays: %s: %w", path, err)
		}
		return dates, nil
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrNotCached, code, s.Dir)
}

func parseDates(raw []byte) ([]time.Time, error) {
	var strs []string
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &strs); err != nil {
			return nil, err
		}
	} else {
		sc := bufio.NewScanner(bytes.NewReader(trimmed))
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				strs = append(strs, line)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	}
	out := make([]time.Time, 0, len(strs))
	for _, s := range strs {
		d, err := utils.ParseDate(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Save merges dates into the cached calendar for code.
func (s FileStore) Save(code string, dates []time.Time) error {
	code, err := NormalizeCode(code)
	if err != nil {
		return err
	}
	existing, err := s.dates(code)
	if err != nil && !errors.Is(err, ErrNotCached) {
		return err
	}
	merged := calendar.NewHolidaySet(append(existing, dates...)...).Dates()

	strs := make([]string, len(merged))
	for i, d := range merged {
		strs[i] = d.Format(utils.DateLayout)
	}
	raw, err := json.Marshal(strs)
	if err != nil {
		return fmt.Errorf("holidays: encode %s: %w", code, err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("holidays: %w", err)
	}
	path := filepath.Join(s.Dir, code+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("holidays: write %s: %w", path, err)
	}
	return nil
}

// SaveAll stores every calendar of a fetch result.
func (s FileStore) SaveAll(calendars map[string][]time.Time) error {
	for code, dates := range calendars {
		if err := s.Save(code, dates); err != nil {
			return err
		}
	}
	return nil
}

// Codes lists the cached calendars.
func (s FileStore) Codes() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("holidays: %w", err)
	}
	seen := map[string]struct{}{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".json" && ext != ".txt" {
			continue
		}
		if code, err := NormalizeCode(strings.TrimSuffix(name, ext)); err == nil {
			seen[code] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
