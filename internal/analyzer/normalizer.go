package analyzer

import "strings"

// ExtractWord strips one leading '$' or '#' and one trailing '.', '?', ':'
// or '!' from word and lower-cases what is left.
func ExtractWord(word string) string {
	if word == "" {
		return ""
	}

	start, end := 0, len(word)
	switch word[0] {
	case '$', '#':
		start = 1
	}
	switch word[len(word)-1] {
	case '.', '?', ':', '!':
		end--
	}

	if start >= end {
		return ""
	}
	return strings.ToLower(word[start:end])
}
