package ranker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firefly/post-analyzer/internal/analyzer"
	"github.com/firefly/post-analyzer/internal/model"
)

func withCount(title string, wordCount int) PostWithMetadata {
	return PostWithMetadata{
		Post:     model.Post{Title: title},
		Metadata: analyzer.TextMetadata{WordCount: wordCount, MostCommonWord: title},
	}
}

func TestRank_Empty(t *testing.T) {
	_, ok := Rank(nil)
	require.False(t, ok)

	_, ok = Rank([]PostWithMetadata{})
	require.False(t, ok)
}

func TestRank_LargestWordCount(t *testing.T) {
	posts := []PostWithMetadata{
		withCount("I have two words", 2),
		withCount("I have sixty", 60),
		withCount("I have seven words", 7),
	}

	best, ok := Rank(posts)
	require.True(t, ok)
	require.Equal(t, 60, best.Metadata.WordCount)
	require.Equal(t, "I have sixty", best.Post.Title)
}

func TestRank_LastSeenWinsTies(t *testing.T) {
	posts := []PostWithMetadata{
		withCount("first", 5),
		withCount("second", 9),
		withCount("third", 9),
		withCount("fourth", 1),
	}

	best, ok := Rank(posts)
	require.True(t, ok)
	require.Equal(t, "third", best.Post.Title)

	best, ok = Rank([]PostWithMetadata{withCount("a", 0), withCount("b", 0)})
	require.True(t, ok)
	require.Equal(t, "b", best.Post.Title)
}

func TestBest(t *testing.T) {
	result, err := Best([]PostWithMetadata{withCount("short", 1), withCount("long", 3)})
	require.NoError(t, err)
	require.Equal(t, AnalysisResult{Title: "long", MostCommonWord: "long"}, result)

	_, err = Best(nil)
	require.ErrorIs(t, err, ErrNoPosts)
}

func TestAnalyzePosts_KeepsOrder(t *testing.T) {
	posts := []model.Post{
		{Title: "one", Body: "alpha beta"},
		{Title: "two", Body: "gamma 12"},
	}

	analyzed := AnalyzePosts(posts)
	require.Len(t, analyzed, 2)
	require.Equal(t, "one", analyzed[0].Post.Title)
	require.Equal(t, analyzer.TextMetadata{WordCount: 2, MostCommonWord: "alpha"}, analyzed[0].Metadata)
	require.Equal(t, "two", analyzed[1].Post.Title)
	require.Equal(t, analyzer.TextMetadata{WordCount: 1, MostCommonWord: "gamma"}, analyzed[1].Metadata)
}

func TestFindBestPost(t *testing.T) {
	posts := []model.Post{
		{Title: "Small post", Body: "I have a few words. This is A small post."},
		{Title: "Large post", Body: "I have 11 more 11 words. 11 WordS! 11 WorDs? 11 <wORds> 11. I should ignore 11 and url https://docs.gradle.org/current/userguide/userguide.html"},
		{Title: "Middle post", Body: "I am a middle post. post POST! poSt. POst, post? post! Post!"},
	}

	result, err := FindBestPost(posts)
	require.NoError(t, err)
	require.Equal(t, "Large post", result.Title)
	require.Equal(t, "words", result.MostCommonWord)
}

func TestFindBestPost_NoPosts(t *testing.T) {
	result, err := FindBestPost(nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoPosts))
	require.Equal(t, AnalysisResult{}, result)
	require.Equal(t, "post source did not supply any posts", err.Error())
}
