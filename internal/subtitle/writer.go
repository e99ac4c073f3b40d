package subtitle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// output path for the segments of srcPath inside outputDir
func JSONPath(outputDir, srcPath string) string {
	base := filepath.Base(srcPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, base+".json")
}

// EncodeJSON renders segments as an indented JSON array with non-ASCII
// and HTML characters left unescaped.
func EncodeJSON(segments []Segment) ([]byte, error) {
	if segments == nil {
		segments = []Segment{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(segments); err != nil {
		return nil, fmt.Errorf("failed to encode segments: %w", err)
	}
	return buf.Bytes(), nil
}

// writes segments to path, replacing any previous file atomically
func WriteJSON(segments []Segment, path string) error {
	data, err := EncodeJSON(segments)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return writeFileAtomic(path, data, 0644)
}

// loads segments previously written by WriteJSON
func ReadJSON(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read segments: %w", err)
	}

	var segments []Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("failed to decode segments %s: %w", path, err)
	}
	return segments, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	_ = os.Chmod(tmpName, perm)

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
