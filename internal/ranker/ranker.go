// Package ranker picks the post with the most real words out of a listing.
package ranker

import (
	"errors"

	"github.com/firefly/post-analyzer/internal/analyzer"
	"github.com/firefly/post-analyzer/internal/model"
)

// ErrNoPosts is returned when there is nothing to rank.
var ErrNoPosts = errors.New("post source did not supply any posts")

// PostWithMetadata pairs a post with the statistics of its body.
type PostWithMetadata struct {
	Post     model.Post
	Metadata analyzer.TextMetadata
}

// AnalysisResult is the final report for a listing.
type AnalysisResult struct {
	Title          string `json:"title"`
	MostCommonWord string `json:"most_common_word"`
}

// AnalyzePosts computes the text metadata of every post, keeping input order.
func AnalyzePosts(posts []model.Post) []PostWithMetadata {
	analyzed := make([]PostWithMetadata, 0, len(posts))
	for _, p := range posts {
		analyzed = append(analyzed, PostWithMetadata{
			Post:     p,
			Metadata: analyzer.Analyze(p.Body),
		})
	}
	return analyzed
}

// Rank returns the post with the highest word count. When several posts share
// the highest count the last of them wins. ok is false for an empty slice.
func Rank(posts []PostWithMetadata) (best PostWithMetadata, ok bool) {
	for _, p := range posts {
		if !ok || best.Metadata.WordCount <= p.Metadata.WordCount {
			best = p
			ok = true
		}
	}
	return best, ok
}

// Best ranks already analyzed posts and reports the winner.
func Best(posts []PostWithMetadata) (AnalysisResult, error) {
	best, ok := Rank(posts)
	if !ok {
		return AnalysisResult{}, ErrNoPosts
	}
	return AnalysisResult{
		Title:          best.Post.Title,
		MostCommonWord: best.Metadata.MostCommonWord,
	}, nil
}

// FindBestPost analyzes posts and reports the one with the most real words.
func FindBestPost(posts []model.Post) (AnalysisResult, error) {
	return Best(AnalyzePosts(posts))
}
