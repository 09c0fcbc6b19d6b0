package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/firefly/post-analyzer/internal/aggregator"
	"github.com/firefly/post-analyzer/internal/config"
	"github.com/firefly/post-analyzer/internal/fetcher"
	outputio "github.com/firefly/post-analyzer/internal/io"
	"github.com/firefly/post-analyzer/internal/listing"
	"github.com/firefly/post-analyzer/internal/logging"
	"github.com/firefly/post-analyzer/internal/parser"
	"github.com/firefly/post-analyzer/internal/ranker"
)

// runPipeline reads the listing, analyzes every post and writes the report
func runPipeline(ctx context.Context, cfg *config.Config, runID uuid.UUID, logger logging.Logger) error {
	fetch := fetcher.New(cfg.RateLimit, cfg.Timeout, logger)
	defer fetch.Close()

	if cfg.RespectRobots && listing.IsRemote(cfg.Source) {
		if err := fetch.LoadRobotsTxt(ctx, cfg.Source); err != nil {
			logger.Warn("failed to load robots.txt", "error", err)
		}
	}

	htmlParser := parser.New(logger)
	source := listing.New(cfg.Source, cfg.Pages, fetch, htmlParser, logger)

	posts, err := source.Posts(ctx)
	if err != nil {
		return fmt.Errorf("reading posts: %w", err)
	}
	logger.Debug("posts loaded", "count", len(posts), "html_failures", htmlParser.FailedCount())

	analyzed := ranker.AnalyzePosts(posts)

	agg := aggregator.New()
	agg.AddResults(analyzed)

	best, err := ranker.Best(analyzed)
	if err != nil {
		return fmt.Errorf("ranking posts: %w", err)
	}

	stats := agg.GetStats()
	logger.Info("posts analyzed",
		"posts", stats.PostsAnalyzed,
		"total_words", stats.TotalWords,
		"posts_without_words", stats.PostsWithoutWord,
		"elapsed", stats.Elapsed.String(),
	)

	result := outputio.NewResult(runID, cfg.Source, best, agg, cfg.TopPosts)
	if err := outputio.OutputResult(result, cfg.Format, cfg.Output); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
