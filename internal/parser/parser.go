package parser

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/firefly/post-analyzer/internal/logging"
)

// ErrNoContent is returned when the HTML holds no text.
var ErrNoContent = errors.New("no text content found")

// contentSelectors are tried in order; the first one with text wins.
var contentSelectors = []struct {
	selector string
	desc     string
}{
	{"div.md", "markdown body"},
	{"body", "whole fragment"},
}

// Parser extracts plain text from the HTML rendering of a post body
type Parser struct {
	logger      logging.Logger
	failedCount int
}

// New creates a new Parser
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Parser{logger: logger}
}

// ExtractText returns the text of an HTML fragment. Listings usually ship the
// fragment entity-escaped, so it is unescaped before parsing. Text nodes are
// joined with a space so that words from adjacent paragraphs stay apart.
func (p *Parser) ExtractText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(fragment)))
	if err != nil {
		p.failedCount++
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("script, style").Remove()

	for _, sel := range contentSelectors {
		content := doc.Find(sel.selector)
		if content.Length() == 0 {
			continue
		}

		text := strings.TrimSpace(blockText(content))
		if text != "" {
			p.logger.Debug("extracted post body from HTML", "selector", sel.desc, "chars", len(text))
			return text, nil
		}
	}

	p.failedCount++
	return "", ErrNoContent
}

// blockText joins the text nodes of a selection with spaces, in document order.
func blockText(s *goquery.Selection) string {
	var parts []string
	collectText(s, &parts)
	return strings.Join(parts, " ")
}

func collectText(s *goquery.Selection, parts *[]string) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) != "#text" {
			collectText(c, parts)
			return
		}
		if t := strings.TrimSpace(c.Text()); t != "" {
			*parts = append(*parts, t)
		}
	})
}

// FailedCount returns the number of fragments that yielded no text
func (p *Parser) FailedCount() int {
	return p.failedCount
}
