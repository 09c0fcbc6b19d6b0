package analyzer

import "regexp"

// separatorPattern matches a run of whitespace or word-separating punctuation.
var separatorPattern = regexp.MustCompile(`[\s\v,!|$*;"'\[\]()<>{}]+`)

// Tokenize splits text into candidate tokens. A separator run at either end
// of the text produces an empty token at that boundary.
func Tokenize(text string) []string {
	return separatorPattern.Split(text, -1)
}
