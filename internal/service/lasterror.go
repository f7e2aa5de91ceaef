package service

import (
	"regexp"

	"pgha-inspect/internal/model"
)

// An error block starts at FATAL, ERROR or Traceback and continues over every
// following line that does not begin with a word character.
var lastErrorPattern = regexp.MustCompile(`(?:FATAL|ERROR|Traceback)[^\n]*(?:\n(?:[^\w\n][^\n]*)?)*`)

// ExtractLastError returns the most recent error block in logText. A block
// keeps the newline that ends its last line.
func ExtractLastError(logText string) string {
	blocks := lastErrorPattern.FindAllString(logText, -1)
	if len(blocks) == 0 {
		return model.NoRecentErrorsText
	}
	return blocks[len(blocks)-1]
}
