package subtitle

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// a blank line, possibly holding only whitespace, ends a block
	blockSeparator = regexp.MustCompile(`\n\s*\n`)

	timecodeRegex = regexp.MustCompile(
		`^(\d{2}:\d{2}:\d{2},\d{3})\s+-->\s+(\d{2}:\d{2}:\d{2},\d{3})$`,
	)
)

// Parse extracts segments from raw SRT text. Blocks without a valid
// timecode line or without text are dropped; a missing index line is
// tolerated. Surviving segments are renumbered 1..N in block order.
func Parse(content string) []Segment {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimSpace(content)

	segments := []Segment{}
	if content == "" {
		return segments
	}

	for _, block := range blockSeparator.Split(content, -1) {
		seg, ok := parseBlock(block)
		if !ok {
			continue
		}
		segments = append(segments, seg)
	}

	for i := range segments {
		segments[i].Index = i + 1
	}

	return segments
}

func parseBlock(block string) (Segment, bool) {
	lines := blockLines(block)
	if len(lines) == 0 {
		return Segment{}, false
	}

	// index line is optional
	offset := 0
	if _, err := strconv.Atoi(lines[0]); err == nil {
		offset = 1
	}

	// timecode plus at least one text line
	if len(lines) < offset+2 {
		return Segment{}, false
	}

	matches := timecodeRegex.FindStringSubmatch(lines[offset])
	if matches == nil {
		return Segment{}, false
	}

	text := strings.TrimSpace(strings.Join(lines[offset+1:], " "))
	if text == "" {
		return Segment{}, false
	}

	return Segment{
		Start: matches[1],
		End:   matches[2],
		Text:  text,
	}, true
}

func blockLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
