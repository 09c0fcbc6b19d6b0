package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/firefly/post-analyzer/internal/aggregator"
	"github.com/firefly/post-analyzer/internal/config"
	"github.com/firefly/post-analyzer/internal/ranker"
)

// Result represents the final analysis result for JSON output
type Result struct {
	RunID                 string                   `json:"run_id"`
	Source                string                   `json:"source"`
	Title                 string                   `json:"title"`
	MostCommonWord        string                   `json:"most_common_word"`
	PostsAnalyzed         int                      `json:"posts_analyzed"`
	TotalWords            int                      `json:"total_words"`
	ProcessingTimeSeconds float64                  `json:"processing_time_seconds"`
	TopPosts              []aggregator.PostSummary `json:"top_posts"`
}

// NewResult assembles the report for one run
func NewResult(runID uuid.UUID, source string, best ranker.AnalysisResult, agg *aggregator.Aggregator, topN int) Result {
	stats := agg.GetStats()
	return Result{
		RunID:                 runID.String(),
		Source:                source,
		Title:                 best.Title,
		MostCommonWord:        best.MostCommonWord,
		PostsAnalyzed:         stats.PostsAnalyzed,
		TotalWords:            stats.TotalWords,
		ProcessingTimeSeconds: stats.Elapsed.Seconds(),
		TopPosts:              agg.TopPosts(topN),
	}
}

// WriteResult writes the result in the given format
func WriteResult(w io.Writer, result Result, format string) error {
	switch format {
	case config.FormatJSON:
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling result to JSON: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(jsonData)); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
	case config.FormatText, "":
		if _, err := fmt.Fprintf(w, "Post title with most words: %s\nMost common word of that post: %s\n",
			result.Title, result.MostCommonWord); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// OutputResult writes the result to stdout, or to filename when it is set
func OutputResult(result Result, format, filename string) error {
	if filename == "" {
		return WriteResult(os.Stdout, result, format)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := WriteResult(file, result, format); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}
