// Package listing reads forum post listings and turns them into posts for
// analysis. Listings come either from a JSON endpoint or from saved files.
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/firefly/post-analyzer/internal/model"
)

var (
	// ErrFetch is returned when a listing could not be retrieved.
	ErrFetch = errors.New("could not fetch posts")

	// ErrMalformedListing is returned when a response is not a listing.
	ErrMalformedListing = errors.New("response is not a valid listing")
)

// Source supplies the posts to analyze. Posts with blank bodies are never returned.
type Source interface {
	Posts(ctx context.Context) ([]model.Post, error)
}

// HTMLExtractor turns an HTML body into plain text.
type HTMLExtractor interface {
	ExtractText(fragment string) (string, error)
}

// envelope mirrors the parts of a listing response we read.
type envelope struct {
	Data *struct {
		After    string  `json:"after"`
		Children []child `json:"children"`
	} `json:"data"`
}

type child struct {
	Data struct {
		Title        string `json:"title"`
		SelfText     string `json:"selftext"`
		SelfTextHTML string `json:"selftext_html"`
	} `json:"data"`
}

// page is one decoded listing page.
type page struct {
	children []child
	after    string
}

func decodePage(r io.Reader) (page, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return page{}, fmt.Errorf("%w: %v", ErrMalformedListing, err)
	}
	if env.Data == nil {
		return page{}, fmt.Errorf("%w: missing data object", ErrMalformedListing)
	}
	return page{children: env.Data.Children, after: env.Data.After}, nil
}

// toPosts converts listing children into posts, dropping blank bodies. When
// the plain body is blank the HTML body is used instead, if an extractor is set.
func toPosts(children []child, extractor HTMLExtractor) []model.Post {
	posts := make([]model.Post, 0, len(children))
	for _, c := range children {
		body := c.Data.SelfText
		if isBlank(body) && extractor != nil && !isBlank(c.Data.SelfTextHTML) {
			if text, err := extractor.ExtractText(c.Data.SelfTextHTML); err == nil {
				body = text
			}
		}
		if isBlank(body) {
			continue
		}
		posts = append(posts, model.Post{Title: c.Data.Title, Body: body})
	}
	return posts
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
