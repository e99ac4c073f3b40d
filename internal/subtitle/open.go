package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// reads a subtitle file and returns its decoded text
func ReadFile(path string) (string, error) {
	if _, ok := GetFormatFromExtension(path); !ok {
		return "", fmt.Errorf(
			"unsupported subtitle format: %s",
			strings.ToLower(filepath.Ext(path)),
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read SRT file: %w", err)
	}

	return DecodeText(data), nil
}

// reads, decodes and parses a subtitle file
func ParseFile(path string) ([]Segment, error) {
	content, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content), nil
}
