package fetcher

import (
	"bufio"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// robotsGroup is one User-agent block of a robots.txt file
type robotsGroup struct {
	agents     []string
	allow      []pathRule
	disallow   []pathRule
	crawlDelay time.Duration
}

// pathRule is an Allow or Disallow path. Patterns with '*' or a trailing '$'
// are compiled to a regexp, everything else is a plain prefix.
type pathRule struct {
	pattern string
	re      *regexp.Regexp
}

func newPathRule(pattern string) pathRule {
	rule := pathRule{pattern: pattern}
	if strings.ContainsAny(pattern, "*$") {
		expr := regexp.QuoteMeta(strings.TrimSuffix(pattern, "$"))
		expr = "^" + strings.ReplaceAll(expr, `\*`, ".*")
		if strings.HasSuffix(pattern, "$") {
			expr += "$"
		}
		rule.re = regexp.MustCompile(expr)
	}
	return rule
}

func (r pathRule) matches(path string) bool {
	if r.re != nil {
		return r.re.MatchString(path)
	}
	return strings.HasPrefix(path, r.pattern)
}

// RobotsRules holds the parsed groups of a robots.txt file
type RobotsRules struct {
	groups []robotsGroup
}

// ParseRobots reads robots.txt content. Unknown directives are ignored.
func ParseRobots(r io.Reader) (*RobotsRules, error) {
	rules := &RobotsRules{}
	scanner := bufio.NewScanner(r)

	var current *robotsGroup
	// consecutive User-agent lines share one group
	collectingAgents := false

	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if key == "user-agent" {
			if current == nil || !collectingAgents {
				rules.groups = append(rules.groups, robotsGroup{})
				current = &rules.groups[len(rules.groups)-1]
			}
			current.agents = append(current.agents, value)
			collectingAgents = true
			continue
		}
		collectingAgents = false

		if current == nil {
			continue
		}

		switch key {
		case "disallow":
			if value != "" {
				current.disallow = append(current.disallow, newPathRule(value))
			}
		case "allow":
			if value != "" {
				current.allow = append(current.allow, newPathRule(value))
			}
		case "crawl-delay":
			if secs, err := strconv.ParseFloat(value, 64); err == nil && secs > 0 {
				current.crawlDelay = time.Duration(secs * float64(time.Second))
			}
		}
	}

	return rules, scanner.Err()
}

// Len returns the number of User-agent groups
func (rr *RobotsRules) Len() int {
	return len(rr.groups)
}

// applicable returns the groups naming userAgent, or the wildcard groups when
// none do.
func (rr *RobotsRules) applicable(userAgent string) []robotsGroup {
	var specific, wildcard []robotsGroup
	for _, g := range rr.groups {
		for _, agent := range g.agents {
			switch {
			case agent == "*":
				wildcard = append(wildcard, g)
			case strings.EqualFold(agent, userAgent):
				specific = append(specific, g)
			default:
				continue
			}
			break
		}
	}
	if len(specific) > 0 {
		return specific
	}
	return wildcard
}

// IsAllowed reports whether userAgent may fetch rawURL. The longest matching
// rule decides; Allow wins a tie.
func (rr *RobotsRules) IsAllowed(rawURL, userAgent string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}

	allowLen, disallowLen := -1, -1
	for _, g := range rr.applicable(userAgent) {
		for _, rule := range g.allow {
			if rule.matches(path) && len(rule.pattern) > allowLen {
				allowLen = len(rule.pattern)
			}
		}
		for _, rule := range g.disallow {
			if rule.matches(path) && len(rule.pattern) > disallowLen {
				disallowLen = len(rule.pattern)
			}
		}
	}

	return disallowLen < 0 || allowLen >= disallowLen
}

// CrawlDelay returns the Crawl-delay that applies to userAgent, or 0
func (rr *RobotsRules) CrawlDelay(userAgent string) time.Duration {
	for _, g := range rr.applicable(userAgent) {
		if g.crawlDelay > 0 {
			return g.crawlDelay
		}
	}
	return 0
}
