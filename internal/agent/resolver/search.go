package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const maxSearchBody = 1 << 20

// DuckDuckGoSearcher queries the DuckDuckGo Instant Answer API.
// It only returns encyclopedic or instant answers, not general web results.
type DuckDuckGoSearcher struct {
	endpoint   string
	httpClient *http.Client
}

// NewDuckDuckGoSearcher targets endpoint, defaulting to the public API.
func NewDuckDuckGoSearcher(endpoint string, timeout time.Duration) *DuckDuckGoSearcher {
	if endpoint == "" {
		endpoint = "https://api.duckduckgo.com/"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DuckDuckGoSearcher{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search returns the best instant answer text, or "" when there is none.
func (s *DuckDuckGoSearcher) Search(ctx context.Context, query string) (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid search endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBody))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("search API returned invalid JSON")
	}

	return bestAnswer(body), nil
}

func bestAnswer(body []byte) string {
	for _, path := range []string{"Answer", "AbstractText", "RelatedTopics.0.Text"} {
		if v := strings.TrimSpace(gjson.GetBytes(body, path).String()); v != "" {
			return v
		}
	}
	return ""
}
