package listing

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/firefly/post-analyzer/internal/logging"
	"github.com/firefly/post-analyzer/internal/model"
)

// JSONFetcher retrieves a JSON document. The caller closes the body.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

// HTTPSource reads a paginated listing from a JSON endpoint.
type HTTPSource struct {
	url       string
	pages     int
	fetcher   JSONFetcher
	extractor HTMLExtractor
	logger    logging.Logger
}

// NewHTTPSource creates a source that reads up to pages pages starting at rawURL.
func NewHTTPSource(rawURL string, pages int, fetcher JSONFetcher, extractor HTMLExtractor, logger logging.Logger) *HTTPSource {
	if pages < 1 {
		pages = 1
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &HTTPSource{
		url:       rawURL,
		pages:     pages,
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
	}
}

// Posts fetches pages until the page limit is reached or the listing has no
// next page.
func (s *HTTPSource) Posts(ctx context.Context) ([]model.Post, error) {
	var (
		posts []model.Post
		after string
		seen  int
	)

	for n := 0; n < s.pages; n++ {
		pageURL, err := pageURL(s.url, after, seen)
		if err != nil {
			return nil, fmt.Errorf("%w from %s: %v", ErrFetch, s.url, err)
		}

		p, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		pagePosts := toPosts(p.children, s.extractor)
		posts = append(posts, pagePosts...)
		seen += len(p.children)

		s.logger.Debug("fetched listing page", "url", pageURL, "children", len(p.children), "posts", len(pagePosts))

		if p.after == "" {
			break
		}
		after = p.after
	}

	return posts, nil
}

func (s *HTTPSource) fetchPage(ctx context.Context, pageURL string) (page, error) {
	body, err := s.fetcher.FetchJSON(ctx, pageURL)
	if err != nil {
		return page{}, fmt.Errorf("%w from %s: %w", ErrFetch, pageURL, err)
	}
	defer body.Close()

	p, err := decodePage(body)
	if err != nil {
		return page{}, fmt.Errorf("reading %s: %w", pageURL, err)
	}
	return p, nil
}

// pageURL adds the pagination cursor to the listing URL.
func pageURL(base, after string, count int) (string, error) {
	if after == "" {
		return base, nil
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("after", after)
	q.Set("count", strconv.Itoa(count))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
