package helpers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// HTTP client and header configuration for the pre-flight probe. The probe
// never replaces the browser session; it only confirms the target answers
// with HTML before a browser is launched.
var (
	probeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// HTTP client with timeout
	client = &http.Client{
		Timeout: 10 * time.Second,
	}
)

// ProbeSite sends a GET request with browser-like headers, converts the
// response body to UTF-8 (if needed), and returns it. A rate-limited or
// non-HTML response is reported as an error so the caller can fail fast
// before paying for a browser launch.
func ProbeSite(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Browser-like headers, matching what the session manager sends
	req.Header.Set("User-Agent", probeUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		retryAfter := resp.Header.Get("Retry-After")
		return nil, fmt.Errorf("rate limited; retry after %s", retryAfter)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("probe %s unexpected status code: %d", url, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))

	if name != "utf-8" && name != "UTF-8" {
		utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, utf8Reader); err != nil {
			return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
		}
		bodyBytes = buf.Bytes()
	}

	body := string(bodyBytes)
	if !strings.Contains(body, "<html") && !strings.Contains(body, "<body") {
		return nil, fmt.Errorf("probe %s returned a non-HTML body (%d bytes)", url, len(bodyBytes))
	}

	return bodyBytes, nil
}
