package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MinQueryLength is the shortest title accepted for a lookup; the UI only
// fires the search after three characters anyway.
const MinQueryLength = 3

// Book is the simplified volume shape used to pre-fill the new-book form.
// Nothing else from the provider response is kept.
type Book struct {
	Title        string `json:"title"`
	Author       string `json:"author,omitempty"`
	PageCount    int    `json:"page_count,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Client queries the Google Books volumes API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Search returns up to limit volumes matching the title. It is best-effort:
// a provider failure surfaces as an error, but malformed entries in an
// otherwise good response are just skipped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	if len(strings.TrimSpace(query)) < MinQueryLength {
		return nil, fmt.Errorf("query must have at least %d characters", MinQueryLength)
	}
	if limit <= 0 {
		limit = 5
	}

	ctx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprint(limit))
	params.Set("langRestrict", "pt,en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("books lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("books lookup failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Items []struct {
			VolumeInfo struct {
				Title      string   `json:"title"`
				Authors    []string `json:"authors"`
				PageCount  int      `json:"pageCount"`
				ImageLinks struct {
					Thumbnail string `json:"thumbnail"`
				} `json:"imageLinks"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("books lookup: bad response: %w", err)
	}

	books := make([]Book, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		vi := item.VolumeInfo
		if vi.Title == "" {
			continue
		}
		b := Book{
			Title:     vi.Title,
			PageCount: vi.PageCount,
			// provider still serves some covers over plain http
			ThumbnailURL: strings.Replace(vi.ImageLinks.Thumbnail, "http://", "https://", 1),
		}
		if len(vi.Authors) > 0 {
			b.Author = vi.Authors[0]
		}
		books = append(books, b)
	}

	return books, nil
}
