package listing

import (
	"net/url"

	"github.com/firefly/post-analyzer/internal/logging"
)

// IsRemote reports whether source names an http(s) listing rather than a file glob.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// New picks an HTTPSource for URLs and a FileSource for everything else.
func New(source string, pages int, fetcher JSONFetcher, extractor HTMLExtractor, logger logging.Logger) Source {
	if IsRemote(source) {
		return NewHTTPSource(source, pages, fetcher, extractor, logger)
	}
	return NewFileSource(source, extractor, logger)
}
