package parser

import (
	"errors"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("text file is not valid utf-8")

// extractTXT cuts UTF-8 text into fixed windows of window characters.
func extractTXT(data []byte, window int) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, errInvalidUTF8
	}

	runes := []rune(string(data))
	windows := make([]string, 0, len(runes)/window+1)
	for start := 0; start < len(runes); start += window {
		end := start + window
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, string(runes[start:end]))
	}

	return nonEmptyTrimmed(windows), nil
}
