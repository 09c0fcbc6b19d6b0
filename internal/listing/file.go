package listing

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/firefly/post-analyzer/internal/logging"
	"github.com/firefly/post-analyzer/internal/model"
)

// FileSource reads saved listing pages from files matching a glob pattern.
// Files are read in lexical order so results are reproducible.
type FileSource struct {
	pattern   string
	extractor HTMLExtractor
	logger    logging.Logger
}

// NewFileSource creates a source for pattern, which may use "**".
func NewFileSource(pattern string, extractor HTMLExtractor, logger logging.Logger) *FileSource {
	if logger == nil {
		logger = logging.Nop()
	}
	return &FileSource{pattern: pattern, extractor: extractor, logger: logger}
}

// Posts reads every matching file as one listing page.
func (s *FileSource) Posts(ctx context.Context) ([]model.Post, error) {
	files, err := findFiles(s.pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: matching %s: %v", ErrFetch, s.pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files match %s", ErrFetch, s.pattern)
	}

	var posts []model.Post
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := readPage(name)
		if err != nil {
			return nil, err
		}

		pagePosts := toPosts(p.children, s.extractor)
		posts = append(posts, pagePosts...)
		s.logger.Debug("read listing file", "file", name, "children", len(p.children), "posts", len(pagePosts))
	}

	return posts, nil
}

func readPage(name string) (page, error) {
	f, err := os.Open(name)
	if err != nil {
		return page{}, fmt.Errorf("%w: opening %s: %v", ErrFetch, name, err)
	}
	defer f.Close()

	p, err := decodePage(f)
	if err != nil {
		return page{}, fmt.Errorf("reading %s: %w", name, err)
	}
	return p, nil
}

// findFiles returns the regular files matching pattern.
func findFiles(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, name := range matches {
		info, err := os.Lstat(name)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}
