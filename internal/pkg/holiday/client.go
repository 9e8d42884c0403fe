package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultBaseURL     = "https://date.nager.at"
	defaultHTTPTimeout = 10 * time.Second
)

// Client fetches public holidays from a Nager.Date-compatible feed.
// It implements calendar.HolidaySource.
type Client struct {
	baseURL     string
	countryCode string
	http        *http.Client
}

type publicHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
	Global    bool   `json:"global"`
}

func NewClient(baseURL, countryCode string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		baseURL:     baseURL,
		countryCode: countryCode,
		http:        &http.Client{Timeout: timeout},
	}
}

// HolidaysForYear returns the holiday dates for the given year.
func (c *Client) HolidaysForYear(ctx context.Context, year int) ([]time.Time, error) {
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, c.countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holiday request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		// The feed has no data for this country/year.
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday feed returned status %d", resp.StatusCode)
	}

	var payload []publicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode holiday response: %w", err)
	}

	dates := make([]time.Time, 0, len(payload))
	for _, h := range payload {
		d, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}

	return dates, nil
}
