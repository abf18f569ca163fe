// ABOUTME: Parsers for human-entered search values
// ABOUTME: Converts mm:ss durations and star ratings into typed values

package song

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseSearchTime parses a colon-separated duration ("3:30", "1:02:15" or
// plain seconds) into whole seconds. Anything that is not digits, spaces
// and at most two colons parses to 0.
func ParseSearchTime(value string) int64 {
	var seconds, accum int64
	colons := 0
	for _, r := range value {
		switch {
		case unicode.IsDigit(r):
			accum = accum*10 + int64(r-'0')
		case r == ':':
			seconds = seconds*60 + accum
			accum = 0
			colons++
			if colons > 2 {
				return 0
			}
		case unicode.IsSpace(r):
		default:
			return 0
		}
	}
	return seconds*60 + accum
}

// ParseSearchRating parses a rating search value into the normalized
// [0, 1] range. Whole star counts 0-5 are scaled by 5; values with a
// decimal point at or below 1 pass through unchanged. Unparseable or
// out-of-range input yields -1 so it can never equal a stored rating.
func ParseSearchRating(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return -1
	}
	rating, err := strconv.ParseFloat(value, 64)
	if err != nil || rating < 0 {
		return -1
	}
	if strings.ContainsRune(value, '.') && rating <= 1 {
		return rating
	}
	if rating > 5 {
		return -1
	}
	return rating / 5
}
