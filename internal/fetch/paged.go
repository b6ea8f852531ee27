package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// PagesHeader names the response header carrying the total page count.
const PagesHeader = "X-Pages"

// FetchPaged downloads every page of a paginated endpoint.
//
// The first request (page=1) yields the total page count from the X-Pages
// header; remaining pages are fetched concurrently, bounded by concurrency,
// and the result slice is ordered by page index regardless of completion
// order. Any failed page fails the whole call: a partially assembled page
// set must never be treated as a complete book.
func (c *Client) FetchPaged(ctx context.Context, baseURL string, concurrency int) ([][]byte, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	first, header, err := c.doWithRetry(ctx, http.MethodGet, pageURL(baseURL, 1))
	if err != nil {
		return nil, err
	}

	totalPages := 1
	if raw := header.Get(PagesHeader); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s header %q: %w", PagesHeader, raw, err)
		}
		if n > 0 {
			totalPages = n
		}
	}

	pages := make([][]byte, totalPages)
	pages[0] = first
	if totalPages == 1 {
		return pages, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for page := 2; page <= totalPages; page++ {
		page := page
		g.Go(func() error {
			body, _, err := c.doWithRetry(gctx, http.MethodGet, pageURL(baseURL, page))
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			pages[page-1] = body
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pages, nil
}

// pageURL appends or replaces the page query parameter.
func pageURL(baseURL string, page int) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fall back to naive concatenation; the request itself will surface
		// the malformed URL.
		return fmt.Sprintf("%s?page=%d", baseURL, page)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
