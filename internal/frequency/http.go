package frequency

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"codeberg.org/snonux/freqdeck/internal"
)

const (
	defaultFetchTimeout = 60 * time.Second
	defaultRowSelector  = "table tr"
	maxListBytes        = 64 << 20
)

var userAgent = "freqdeck/" + internal.Version

// HTTPTextFetcher downloads a plain text list with one "word count" pair
// per line, such as the OpenSubtitles derived lists
type HTTPTextFetcher struct {
	URL        string
	httpClient *http.Client
}

// NewHTTPTextFetcher creates a fetcher for a text list at url
func NewHTTPTextFetcher(url string, timeout time.Duration) *HTTPTextFetcher {
	return &HTTPTextFetcher{
		URL:        url,
		httpClient: newHTTPClient(timeout),
	}
}

// FetchRaw implements Fetcher
func (f *HTTPTextFetcher) FetchRaw(ctx context.Context, code string) ([]string, error) {
	body, err := get(ctx, f.httpClient, f.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s list: %w", code, err)
	}
	defer body.Close()

	data, err := readLimited(body)
	if err != nil {
		return nil, fmt.Errorf("read %s list: %w", code, err)
	}
	return splitLines(data), nil
}

// HTMLTableFetcher scrapes a frequency table from an HTML page, such as a
// Wiktionary frequency list. Each row selected by Selector becomes a
// "word count" line: the word is the first cell that is not a number, the
// count the last cell that is.
type HTMLTableFetcher struct {
	URL        string
	Selector   string
	httpClient *http.Client
}

// NewHTMLTableFetcher creates a scraper. An empty selector matches every
// table row.
func NewHTMLTableFetcher(url, selector string, timeout time.Duration) *HTMLTableFetcher {
	if selector == "" {
		selector = defaultRowSelector
	}
	return &HTMLTableFetcher{
		URL:        url,
		Selector:   selector,
		httpClient: newHTTPClient(timeout),
	}
}

// FetchRaw implements Fetcher
func (f *HTMLTableFetcher) FetchRaw(ctx context.Context, code string) ([]string, error) {
	body, err := get(ctx, f.httpClient, f.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s table: %w", code, err)
	}
	defer body.Close()

	data, err := readLimited(body)
	if err != nil {
		return nil, fmt.Errorf("read %s table: %w", code, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s table: %w", code, err)
	}

	var lines []string
	doc.Find(f.Selector).Each(func(_ int, row *goquery.Selection) {
		if line, ok := rowToLine(row); ok {
			lines = append(lines, line)
		}
	})
	return lines, nil
}

func rowToLine(row *goquery.Selection) (string, bool) {
	var word string
	count := "0"

	row.Find("td").Each(func(_ int, cell *goquery.Selection) {
		text := strings.TrimSpace(cell.Text())
		if text == "" {
			return
		}
		if _, err := strconv.ParseInt(strings.ReplaceAll(text, ",", ""), 10, 64); err == nil {
			count = strings.ReplaceAll(text, ",", "")
			return
		}
		if word == "" {
			word = strings.Fields(text)[0]
		}
	})

	if word == "" {
		return "", false
	}
	return word + " " + count, true
}

// readLimited reads the whole body, failing instead of truncating when it
// exceeds maxListBytes
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxListBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxListBytes {
		return nil, fmt.Errorf("response is larger than %d bytes", maxListBytes)
	}
	return data, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &http.Client{Timeout: timeout}
}

func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}
