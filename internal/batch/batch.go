// Package batch turns a list of SRT files into per-file JSON segment files
// and reports what happened to each input.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/rsxdalv/srt-tools/internal/logging"
	"github.com/rsxdalv/srt-tools/internal/subtitle"
)

const lockRetryInterval = 100 * time.Millisecond

var (
	// ErrLocked is returned when another batch holds the output directory lock.
	ErrLocked = errors.New("output directory is locked by another batch")

	errNoOutputDir = errors.New("no output directory: set OutputDir or DefaultDir")
)

// FileResult describes the outcome for one input file. Error is set only
// when the file failed, in which case Segments is zero.
type FileResult struct {
	File       string `json:"file"`
	Segments   int    `json:"segments"`
	OutputJSON string `json:"output_json,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Failed reports whether the file could not be converted.
func (r FileResult) Failed() bool {
	return r.Error != ""
}

// Summary is the result of one Process call.
type Summary struct {
	OutputDir     string       `json:"output_dir"`
	Files         []FileResult `json:"files"`
	TotalSegments int          `json:"total_segments"`
	FileCount     int          `json:"file_count"`
}

// Failures returns the number of files that produced an error entry.
func (s *Summary) Failures() int {
	n := 0
	for _, f := range s.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

type Options struct {
	// OutputDir receives the JSON files; blank falls back to DefaultDir
	OutputDir string
	// DefaultDir is the fallback and must be supplied by the caller
	DefaultDir string
	// Lock guards the output directory with a file lock for the whole run
	Lock bool
	// LockTimeout bounds the wait for the lock; zero tries exactly once
	LockTimeout time.Duration
}

// Processor converts SRT files sequentially.
type Processor struct {
	opts   Options
	parser subtitle.Parser
	logger *logging.Logger
}

func NewProcessor(opts Options, logger *logging.Logger) *Processor {
	return NewProcessorWithParser(opts, subtitle.SRTParser{}, logger)
}

func NewProcessorWithParser(
	opts Options,
	parser subtitle.Parser,
	logger *logging.Logger,
) *Processor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Processor{
		opts:   opts,
		parser: parser,
		logger: logger,
	}
}

// ResolveOutputDir returns the absolute directory Process writes into.
func (p *Processor) ResolveOutputDir() (string, error) {
	dir := strings.TrimSpace(p.opts.OutputDir)
	if dir == "" {
		dir = strings.TrimSpace(p.opts.DefaultDir)
	}
	if dir == "" {
		return "", errNoOutputDir
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory %q: %w", dir, err)
	}
	return abs, nil
}

// Process converts every .srt path in order, writing <name>.json files into
// the output directory. Other paths are skipped without an entry. A file that
// cannot be read or written yields an error entry and the batch continues.
// The returned error covers only failures that prevent the batch from
// starting: an unresolvable output directory, a held lock, or a failure to
// create the output directory. The last one aborts the whole batch rather
// than being recorded once per file, since no file could be written.
func (p *Processor) Process(ctx context.Context, paths []string) (*Summary, error) {
	log := p.logger.With("run", uuid.NewString())

	outputDir, err := p.ResolveOutputDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if p.opts.Lock {
		unlock, err := p.lockOutputDir(ctx, outputDir)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	log.Debugw("Starting batch",
		"output_dir", outputDir,
		"inputs", len(paths),
	)

	summary := &Summary{
		OutputDir: outputDir,
		Files:     []FileResult{},
	}

	for _, path := range paths {
		if !subtitle.IsSRT(path) {
			log.Debugw("Skipping non-SRT file", "file", path)
			continue
		}

		result := p.processFile(path, outputDir)
		if result.Failed() {
			log.Warnw("Failed to convert file",
				"file", path,
				"error", result.Error,
			)
		} else {
			log.Infow("Converted file",
				"file", path,
				"segments", result.Segments,
				"output", result.OutputJSON,
			)
		}

		summary.Files = append(summary.Files, result)
		summary.TotalSegments += result.Segments
	}
	summary.FileCount = len(summary.Files)

	log.Infow("Batch complete",
		"output_dir", outputDir,
		"files", summary.FileCount,
		"failed", summary.Failures(),
		"segments", summary.TotalSegments,
	)

	return summary, nil
}

func (p *Processor) processFile(path, outputDir string) FileResult {
	content, err := subtitle.ReadFile(path)
	if err != nil {
		return FileResult{File: path, Error: err.Error()}
	}

	segments := p.parser.Parse(content)

	outputPath := subtitle.JSONPath(outputDir, path)
	if err := subtitle.WriteJSON(segments, outputPath); err != nil {
		return FileResult{File: path, Error: err.Error()}
	}

	return FileResult{
		File:       path,
		Segments:   len(segments),
		OutputJSON: outputPath,
	}
}

func (p *Processor) lockOutputDir(ctx context.Context, dir string) (func(), error) {
	lockPath := lockFilePath(dir)
	lock := flock.New(lockPath)

	var (
		ok  bool
		err error
	)
	if p.opts.LockTimeout > 0 {
		lockCtx, cancel := context.WithTimeout(ctx, p.opts.LockTimeout)
		defer cancel()
		ok, err = lock.TryLockContext(lockCtx, lockRetryInterval)
	} else {
		ok, err = lock.TryLock()
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
		return nil, fmt.Errorf("failed to acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warnw("Failed to release output lock",
				"lock", lockPath,
				"error", err,
			)
		}
	}, nil
}

// lock files live in the temp dir so the output directory only ever holds
// segment files; the name is derived from the absolute output path
func lockFilePath(outputDir string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(outputDir)))
	return filepath.Join(os.TempDir(), "srt-tools-"+id.String()+".lock")
}
