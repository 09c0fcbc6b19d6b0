package analyzer

import (
	"regexp"
	"strings"
)

var (
	// numberPattern matches integers, decimals and leading-dot decimals,
	// optionally signed and optionally followed by a percent sign.
	numberPattern = regexp.MustCompile(`^(?:[+|-]?[0-9]+(?:\.[0-9]+)?|[+|-]?\.?[0-9]+)%?$`)

	// urlPattern matches absolute URLs and bare domain-looking tokens.
	urlPattern = regexp.MustCompile(`^(?:(?:http|https|ftp)://)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b[-a-zA-Z0-9()@:%_+.~#?&/=]*$`)
)

const mailtoPrefix = "mailto:"

// IsRealWord reports whether token counts as a word. Blank tokens, numbers,
// percentages and URLs do not.
func IsRealWord(token string) bool {
	return !isBlank(token) && !isNumber(token) && !isURL(token)
}

func isBlank(token string) bool {
	return strings.TrimSpace(token) == ""
}

func isNumber(token string) bool {
	return numberPattern.MatchString(token)
}

// isURL never treats mailto: tokens as URLs.
func isURL(token string) bool {
	if strings.HasPrefix(token, mailtoPrefix) {
		return false
	}
	return urlPattern.MatchString(token)
}
