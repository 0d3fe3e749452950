package holidays

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/meenmo/dpm/calendar"
)

// Provider serves calendars from the file cache and, when Client is set,
// fetches and caches a missing calendar for Years.
type Provider struct {
	Store  FileStore
	Client *Client
	Years  []int
	Logger *zap.Logger

	mu     sync.Mutex
	loaded map[string]calendar.HolidaySet
}

var _ calendar.HolidayProvider = (*Provider)(nil)

// Holidays implements calendar.HolidayProvider.
func (p *Provider) Holidays(ctx context.Context, code string) (calendar.HolidaySet, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return calendar.HolidaySet{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.loaded[code]; ok {
		return h, nil
	}

	h, err := p.Store.Load(code)
	if errors.Is(err, ErrNotCached) && p.Client != nil {
		h, err = p.fetch(ctx, code)
	}
	if err != nil {
		return calendar.HolidaySet{}, err
	}

	if p.loaded == nil {
		p.loaded = make(map[string]calendar.HolidaySet)
	}
	p.loaded[code] = h
	return h, nil
}

func (p *Provider) fetch(ctx context.Context, code string) (calendar.HolidaySet, error) {
	req, err := NewRequest([]string{code}, p.Years)
	if err != nil {
		return calendar.HolidaySet{}, err
	}
	fetched, err := p.Client.Fetch(ctx, req)
	if err != nil {
		return calendar.HolidaySet{}, err
	}
	if err := p.Store.SaveAll(fetched); err != nil {
		return calendar.HolidaySet{}, err
	}
	if p.Logger != nil {
		p.Logger.Info("holiday calendar cached", zap.String("country", code), zap.Int("years", len(req.Years)), zap.Int("holidays", len(fetched[code])))
	}
	return calendar.NewHolidaySet(fetched[code]...), nil
}
