package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/studysync/coursesync/internal/logger"
)

const (
	DefaultScheduleURL = "https://www.sjsu.edu/classes/schedules/fall-2024.php"
	UserAgent          = "coursesync/1.0 (github.com/studysync/coursesync)"
	Timeout            = 30 * time.Second
)

// Fetcher downloads the schedule page
type Fetcher struct {
	client *resty.Client
	url    string
}

// NewFetcher creates a Fetcher for url. An empty url uses DefaultScheduleURL
// and a non-positive timeout uses Timeout.
func NewFetcher(url string, timeout time.Duration) *Fetcher {
	if url == "" {
		url = DefaultScheduleURL
	}
	if timeout <= 0 {
		timeout = Timeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "text/html")

	return &Fetcher{
		client: client,
		url:    url,
	}
}

// URL returns the page the fetcher downloads
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch performs a single GET of the schedule page and returns its body.
// There is no retry; any transport error or non-200 status is returned.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()
	defer logger.Since("fetch", start)

	resp, err := f.client.R().
		SetContext(ctx).
		Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	body := resp.Body()
	logger.Debug("Fetched schedule page", logger.Fields{
		"url":     f.url,
		"bytes":   len(body),
		"elapsed": time.Since(start).String(),
	})

	return body, nil
}

// Scrape fetches the page and parses it
func (f *Fetcher) Scrape(ctx context.Context) (*ParseResult, error) {
	body, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(body))
}
