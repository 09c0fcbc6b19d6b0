package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firefly/post-analyzer/internal/fetcher"
	"github.com/firefly/post-analyzer/internal/model"
)

const firstPage = `{
  "kind": "Listing",
  "data": {
    "after": "t3_second",
    "children": [
      {"kind": "t3", "data": {"title": "Small post", "selftext": "I have a few words."}},
      {"kind": "t3", "data": {"title": "Link post", "selftext": "", "url": "https://example.com"}},
      {"kind": "t3", "data": {"title": "Blank post", "selftext": "   \n\t"}}
    ]
  }
}`

const secondPage = `{
  "kind": "Listing",
  "data": {
    "after": null,
    "children": [
      {"kind": "t3", "data": {"title": "HTML post", "selftext": "", "selftext_html": "&lt;div class=\"md\"&gt;&lt;p&gt;rendered words&lt;/p&gt;&lt;/div&gt;"}}
    ]
  }
}`

// fakeFetcher serves canned bodies keyed by URL.
type fakeFetcher struct {
	bodies    map[string]string
	requested []string
	err       error
}

func (f *fakeFetcher) FetchJSON(_ context.Context, rawURL string) (io.ReadCloser, error) {
	f.requested = append(f.requested, rawURL)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.bodies[rawURL]
	if !ok {
		return nil, fmt.Errorf("unexpected URL %s", rawURL)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

// stubExtractor stands in for the HTML parser.
type stubExtractor struct{}

func (stubExtractor) ExtractText(fragment string) (string, error) {
	if strings.Contains(fragment, "rendered words") {
		return "rendered words", nil
	}
	return "", errors.New("no content")
}

func TestHTTPSource_FollowsPages(t *testing.T) {
	const base = "https://example.com/r/test.json"
	f := &fakeFetcher{bodies: map[string]string{
		base: firstPage,
		base + "?after=t3_second&count=3": secondPage,
	}}

	src := NewHTTPSource(base, 5, f, stubExtractor{}, nil)
	posts, err := src.Posts(context.Background())
	require.NoError(t, err)

	require.Equal(t, []model.Post{
		{Title: "Small post", Body: "I have a few words."},
		{Title: "HTML post", Body: "rendered words"},
	}, posts)
	require.Len(t, f.requested, 2)
}

func TestHTTPSource_PageLimit(t *testing.T) {
	const base = "https://example.com/r/test.json?limit=10"
	f := &fakeFetcher{bodies: map[string]string{base: firstPage}}

	src := NewHTTPSource(base, 1, f, nil, nil)
	posts, err := src.Posts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, []string{base}, f.requested)
}

func TestHTTPSource_WithoutExtractorSkipsHTMLBodies(t *testing.T) {
	const base = "https://example.com/r/test.json"
	f := &fakeFetcher{bodies: map[string]string{base: secondPage}}

	posts, err := NewHTTPSource(base, 1, f, nil, nil).Posts(context.Background())
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestHTTPSource_FetchError(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}

	_, err := NewHTTPSource("https://example.com/r/test.json", 1, f, nil, nil).Posts(context.Background())
	require.ErrorIs(t, err, ErrFetch)
	require.NotErrorIs(t, err, ErrMalformedListing)
	require.ErrorContains(t, err, "connection refused")
}

func TestHTTPSource_MalformedListing(t *testing.T) {
	tests := map[string]string{
		"not json":     `<html>oops</html>`,
		"missing data": `{"kind": "Listing"}`,
		"wrong shape":  `{"data": {"children": "nope"}}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			const base = "https://example.com/r/test.json"
			f := &fakeFetcher{bodies: map[string]string{base: body}}

			_, err := NewHTTPSource(base, 1, f, nil, nil).Posts(context.Background())
			require.ErrorIs(t, err, ErrMalformedListing)
			require.NotErrorIs(t, err, ErrFetch)
		})
	}
}

func TestHTTPSource_WithFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("after") != "" {
			io.WriteString(w, secondPage)
			return
		}
		io.WriteString(w, firstPage)
	}))
	defer server.Close()

	f := fetcher.New(0, 0, nil)
	defer f.Close()

	posts, err := NewHTTPSource(server.URL+"/r/test.json", 2, f, nil, nil).Posts(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.Post{{Title: "Small post", Body: "I have a few words."}}, posts)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(firstPage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.json"), []byte(secondPage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	src := NewFileSource(filepath.Join(dir, "**", "*.json"), stubExtractor{}, nil)
	posts, err := src.Posts(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.Post{
		{Title: "Small post", Body: "I have a few words."},
		{Title: "HTML post", Body: "rendered words"},
	}, posts)
}

func TestFileSource_NoMatches(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "*.json"), nil, nil).Posts(context.Background())
	require.ErrorIs(t, err, ErrFetch)
}

func TestFileSource_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	_, err := NewFileSource(filepath.Join(dir, "*.json"), nil, nil).Posts(context.Background())
	require.ErrorIs(t, err, ErrMalformedListing)
}

func TestNew(t *testing.T) {
	require.IsType(t, &HTTPSource{}, New("https://www.reddit.com/r/webdev.json", 1, nil, nil, nil))
	require.IsType(t, &HTTPSource{}, New("http://localhost:8080/listing", 1, nil, nil, nil))
	require.IsType(t, &FileSource{}, New("testdata/**/*.json", 1, nil, nil, nil))
	require.IsType(t, &FileSource{}, New("/tmp/listing.json", 1, nil, nil, nil))
}

func TestPageURL(t *testing.T) {
	u, err := pageURL("https://example.com/r/test.json", "", 0)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/r/test.json", u)

	u, err = pageURL("https://example.com/r/test.json?limit=5", "t3_abc", 25)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/r/test.json?after=t3_abc&count=25&limit=5", u)
}
