package report

import (
	"strings"

	"pgha-inspect/pkg/utils"
)

type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
)

func SupportedFormats() []Format {
	return []Format{FormatHTML, FormatText}
}

// ParseFormat is case-insensitive. An empty string selects HTML.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatHTML, nil
	}
	if f.IsUnknown() {
		return f, utils.NewValidationError("format (must be html or text)", s)
	}
	return f, nil
}

func (f Format) IsUnknown() bool {
	for _, known := range SupportedFormats() {
		if f == known {
			return false
		}
	}
	return true
}

func (f Format) ContentType() string {
	if f == FormatText {
		return "text/plain; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}

func (f Format) String() string {
	return string(f)
}
