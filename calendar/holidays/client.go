package holidays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/dpm/utils"
)

// DefaultBaseURL is the public Nager.Date v3 endpoint.
const DefaultBaseURL = "https://date.nager.at/api/v3"

var (
	ErrUnknownCountry    = errors.New("holidays: unknown country")
	ErrPeriodUnavailable = errors.New("holidays: period not available")
)

// ResponseError is a non-success status the API gave no meaning to.
type ResponseError struct {
	URL    string
	Status int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("holidays: GET %s: status %d", e.URL, e.Status)
}

// Country is an entry of the AvailableCountries listing.
type Country struct {
	CountryCode string `json:"countryCode"`
	Name        string `json:"name"`
}

type publicHoliday struct {
	Date string `json:"date"`
}

// Client talks to the holiday API.
type Client struct {
	BaseURL     string
	HTTP        *http.Client
	Logger      *zap.Logger
	Concurrency int
}

// NewClient returns a client with the given base URL (DefaultBaseURL when
// empty) and per-request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTP:        &http.Client{Timeout: timeout},
		Logger:      logger,
		Concurrency: 4,
	}
}

// Fetch downloads every (country, year) pair of req concurrently and
// groups the dates by country.
func (c *Client) Fetch(ctx context.Context, req Request) (map[string][]time.Time, error) {
	type job struct {
		code string
		year int
	}
	jobs := make([]job, 0, len(req.Codes)*len(req.Years))
	for _, y := range req.Years {
		for _, code := range req.Codes {
			jobs = append(jobs, job{code: code, year: y})
		}
	}

	results := make([][]time.Time, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i, j := range jobs {
		g.Go(func() error {
			dates, err := c.PublicHolidays(gctx, j.year, j.code)
			if err != nil {
				return err
			}
			results[i] = dates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]time.Time, len(req.Codes))
	for i, j := range jobs {
		out[j.code] = append(out[j.code], results[i]...)
	}
	for code := range out {
		utils.SortDates(out[code])
	}
	return out, nil
}

// PublicHolidays fetches one country's holidays for one year.
func (c *Client) PublicHolidays(ctx context.Context, year int, code string) ([]time.Time, error) {
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.BaseURL, year, code)
	var payload []publicHoliday
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("%w (%s %d)", err, code, year)
	}
	out := make([]time.Time, 0, len(payload))
	for _, h := range payload {
		d, err := utils.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("holidays: %s %d: %w", code, year, err)
		}
		out = append(out, d)
	}
	c.Logger.Debug("holidays fetched", zap.String("country", code), zap.Int("year", year), zap.Int("count", len(out)))
	return out, nil
}

// AvailableCountries lists the calendars the API serves.
func (c *Client) AvailableCountries(ctx context.Context) ([]Country, error) {
	var out []Country
	if err := c.get(ctx, c.BaseURL+"/AvailableCountries", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, url string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("holidays: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("holidays: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrUnknownCountry
	case http.StatusBadRequest:
		return ErrPeriodUnavailable
	default:
		return &ResponseError{URL: url, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("holidays: decode %s: %w", url, err)
	}
	return nil
}
