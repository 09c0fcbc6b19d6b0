package aggregator

import (
	"sort"
	"time"

	"github.com/firefly/post-analyzer/internal/ranker"
)

// PostSummary is the per-post line of the report
type PostSummary struct {
	Title          string `json:"title"`
	WordCount      int    `json:"word_count"`
	MostCommonWord string `json:"most_common_word"`
}

// Stats are the run totals
type Stats struct {
	PostsAnalyzed    int
	TotalWords       int
	PostsWithoutWord int
	Elapsed          time.Duration
}

// Aggregator collects analyzed posts and keeps run statistics
type Aggregator struct {
	posts      []PostSummary
	totalWords int
	emptyPosts int
	startTime  time.Time
	now        func() time.Time
}

// New creates a new Aggregator
func New() *Aggregator {
	a := &Aggregator{now: time.Now}
	a.startTime = a.now()
	return a
}

// AddResult records one analyzed post
func (a *Aggregator) AddResult(p ranker.PostWithMetadata) {
	a.posts = append(a.posts, PostSummary{
		Title:          p.Post.Title,
		WordCount:      p.Metadata.WordCount,
		MostCommonWord: p.Metadata.MostCommonWord,
	})
	a.totalWords += p.Metadata.WordCount
	if p.Metadata.WordCount == 0 {
		a.emptyPosts++
	}
}

// AddResults records every post in order
func (a *Aggregator) AddResults(posts []ranker.PostWithMetadata) {
	for _, p := range posts {
		a.AddResult(p)
	}
}

// TopPosts returns up to n posts by word count, descending. Posts with equal
// counts keep the order they were added in.
func (a *Aggregator) TopPosts(n int) []PostSummary {
	top := make([]PostSummary, len(a.posts))
	copy(top, a.posts)

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].WordCount > top[j].WordCount
	})

	if n > len(top) {
		n = len(top)
	}
	if n < 0 {
		n = 0
	}
	return top[:n]
}

// GetStats returns current processing statistics
func (a *Aggregator) GetStats() Stats {
	return Stats{
		PostsAnalyzed:    len(a.posts),
		TotalWords:       a.totalWords,
		PostsWithoutWord: a.emptyPosts,
		Elapsed:          a.now().Sub(a.startTime),
	}
}
