package models

import (
	"fmt"
	"strings"
)

type CitationFormat string

const (
	FormatAPA CitationFormat = "APA"
	FormatMLA CitationFormat = "MLA"
)

type Citation struct {
	ID     int64          `json:"id"`
	Source string         `json:"source"`
	Format CitationFormat `json:"format"`
	Text   string         `json:"text"`
}

// FormatCitation renders the stored citation text, "{source} ({format})".
func FormatCitation(source string, format CitationFormat) string {
	return fmt.Sprintf("%s (%s)", source, format)
}

// ParseCitationFormat accepts APA/MLA in any case.
func ParseCitationFormat(s string) (CitationFormat, error) {
	switch CitationFormat(strings.ToUpper(strings.TrimSpace(s))) {
	case FormatAPA:
		return FormatAPA, nil
	case FormatMLA:
		return FormatMLA, nil
	}
	return "", fmt.Errorf("invalid citation format: %s (must be APA or MLA)", s)
}
