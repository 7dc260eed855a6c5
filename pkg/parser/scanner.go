package parser

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/testplan/pkg/domain"
)

const (
	// DefaultWorkers indicates that the scanner should use GOMAXPROCS as the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default scan timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size for scanning (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// DefaultSkipPatterns contains directory names that are skipped by default during scanning.
var DefaultSkipPatterns = []string{
	".git",
	".gradle",
	".idea",
	"build",
	"node_modules",
	"out",
	"target",
}

var (
	// ErrScanCancelled is returned when scanning is cancelled via context.
	ErrScanCancelled = errors.New("scanner: scan cancelled")
	// ErrScanTimeout is returned when scanning exceeds the timeout duration.
	ErrScanTimeout = errors.New("scanner: scan timeout")
)

// Scanner discovers Java sources in a file system and parses their class
// declarations.
type Scanner struct {
	options *ScanOptions
}

// ScanResult contains the outcome of a scan operation.
type ScanResult struct {
	// Classes contains every parsed class, sorted by name.
	Classes []*domain.Class

	// Errors contains non-fatal errors encountered during scanning.
	Errors []ScanError

	// Stats provides scan statistics.
	Stats ScanStats
}

// ScanError represents an error that occurred during a specific phase of scanning.
type ScanError struct {
	// Err is the underlying error.
	Err error

	// Path is the file path where the error occurred (may be empty for non-file errors).
	Path string

	// Phase indicates which phase the error occurred in.
	// Values: "discovery", "parsing"
	Phase string
}

// Error implements the error interface.
func (e ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e ScanError) Unwrap() error {
	return e.Err
}

// ScanStats provides statistics about the scan operation.
type ScanStats struct {
	// FilesScanned is the total number of source file candidates discovered.
	FilesScanned int

	// FilesParsed is the number of files that were successfully parsed.
	FilesParsed int

	// FilesFailed is the number of files that failed to parse.
	FilesFailed int

	// ClassesFound is the number of class and interface declarations.
	ClassesFound int

	// Duration is the total scan duration.
	Duration time.Duration
}

// NewScanner creates a new scanner with the given options.
func NewScanner(opts ...ScanOption) *Scanner {
	options := &ScanOptions{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &Scanner{options: options}
}

// Scan discovers .java files in fsys and parses them in parallel.
func (s *Scanner) Scan(ctx context.Context, fsys fs.FS) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := &ScanResult{
		Classes: []*domain.Class{},
		Errors:  []ScanError{},
	}

	files, errs := s.discoverSourceFiles(ctx, fsys)
	for _, err := range errs {
		result.Errors = append(result.Errors, ScanError{
			Err:   err,
			Phase: "discovery",
		})
	}
	result.Stats.FilesScanned = len(files)

	if len(files) > 0 {
		classes, scanErrors := s.parseFilesParallel(ctx, fsys, files)
		result.Classes = classes
		result.Errors = append(result.Errors, scanErrors...)
		result.Stats.FilesFailed = len(scanErrors)
		result.Stats.FilesParsed = len(files) - len(scanErrors)
		result.Stats.ClassesFound = len(classes)
	}
	result.Stats.Duration = time.Since(startTime)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, ErrScanTimeout
		}
		if errors.Is(err, context.Canceled) {
			return result, ErrScanCancelled
		}
	}

	return result, nil
}

// discoverSourceFiles walks fsys to find .java files honoring patterns,
// excludes and the size limit.
func (s *Scanner) discoverSourceFiles(ctx context.Context, fsys fs.FS) ([]string, []error) {
	skipSet := buildSkipSet(DefaultSkipPatterns)

	var (
		files []string
		errs  []error
	)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			errs = append(errs, fmt.Errorf("access error at %s: %w", p, walkErr))
			return nil
		}

		if d.IsDir() {
			if p != "." && skipSet[path.Base(p)] {
				return fs.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(p, ".java") {
			return nil
		}

		if len(s.options.Patterns) > 0 && !matchesAnyPattern(p, s.options.Patterns) {
			return nil
		}
		if matchesAnyPattern(p, s.options.ExcludePatterns) {
			return nil
		}

		if s.options.MaxFileSize > 0 {
			info, err := d.Info()
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to get file info for %s: %w", p, err))
				return nil
			}
			if info.Size() > s.options.MaxFileSize {
				return nil
			}
		}

		files = append(files, p)
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		errs = append(errs, err)
	}

	return files, errs
}

func (s *Scanner) parseFilesParallel(ctx context.Context, fsys fs.FS, files []string) ([]*domain.Class, []ScanError) {
	workers := s.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu         sync.Mutex
		classes    = make([]*domain.Class, 0, len(files))
		scanErrors = make([]ScanError, 0)
	)

	for _, file := range files {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			parsed, err := parseFile(gCtx, fsys, file)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				scanErrors = append(scanErrors, ScanError{
					Err:   err,
					Path:  file,
					Phase: "parsing",
				})
				return nil
			}

			classes = append(classes, parsed...)
			return nil
		})
	}

	_ = g.Wait()

	// Goroutines finish in arbitrary order.
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].Name < classes[j].Name
	})
	sort.Slice(scanErrors, func(i, j int) bool {
		return scanErrors[i].Path < scanErrors[j].Path
	})

	return classes, scanErrors
}

func parseFile(ctx context.Context, fsys fs.FS, p string) ([]*domain.Class, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", p, err)
	}

	return ParseJava(ctx, content, p)
}

func buildSkipSet(patterns []string) map[string]bool {
	skipSet := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		skipSet[p] = true
	}
	return skipSet
}

func matchesAnyPattern(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Scan is a convenience wrapper around NewScanner(opts...).Scan.
func Scan(ctx context.Context, fsys fs.FS, opts ...ScanOption) (*ScanResult, error) {
	return NewScanner(opts...).Scan(ctx, fsys)
}
