package subtitle

import (
	"path/filepath"
	"strings"
)

// represents single parsed subtitle entry; timecodes are kept verbatim
type Segment struct {
	Index int    `json:"index"`
	Start string `json:"start"`
	End   string `json:"end"`
	Text  string `json:"text"`
}

// represents supported input subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
)

// interface for parsing raw subtitle text
type Parser interface {
	Parse(content string) []Segment
}

// SRTParser is the tolerant SubRip parser
type SRTParser struct{}

func (SRTParser) Parse(content string) []Segment {
	return Parse(content)
}

// reports whether path carries the .srt extension, case-insensitively
func IsSRT(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".srt")
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) (Format, bool) {
	if IsSRT(path) {
		return FormatSRT, true
	}
	return "", false
}
