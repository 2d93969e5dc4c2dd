package mathfix

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// defaultSuffix keeps origin files safe when no suffix is configured and
// in-place correction was not requested.
const defaultSuffix = "-fixed"

// FileManager selects files under a root directory and runs them through a
// chain of correctors. Each file is processed to completion before the next
// begins; there is no shared mutable state across files.
type FileManager struct {
	// RootDir is the directory to search recursively.
	RootDir string

	// Pattern is a glob matched against file base names (path.Match
	// syntax).
	Pattern string

	// Correctors is the processing chain. Each corrector receives the
	// previous one's output.
	Correctors []Corrector

	// Suffix derives the output file name: stem + Suffix + extension. See
	// Config.Suffix for the defaulting rules.
	Suffix string

	// DeleteOrigin removes the original file after a derived output file
	// has been written. It has no effect when correcting in place.
	DeleteOrigin bool

	// Logger configures logging for the run.
	Logger *slog.Logger

	init   sync.Once
	logger *slog.Logger
}

// SkippedFile records one file that could not be corrected and the reason.
type SkippedFile struct {
	Path string
	Err  error
}

// Report summarizes one Process run. Every skipped file is reported
// individually; none is silently swallowed.
type Report struct {
	Processed []string
	Skipped   []SkippedFile
}

// Files returns every file under RootDir whose base name matches Pattern, in
// walk order.
func (m *FileManager) Files() ([]string, error) {
	if _, err := path.Match(m.Pattern, ""); err != nil {
		return nil, fmt.Errorf("file pattern %q: %w", m.Pattern, err)
	}

	var files []string
	err := filepath.WalkDir(m.RootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, _ := path.Match(m.Pattern, d.Name())
		if ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", m.RootDir, err)
	}
	return files, nil
}

// Process corrects every matched file. A file that fails to tokenize,
// reconcile or write is logged, reported in the Report and skipped; the run
// continues with the next file. The original file of a failed correction is
// left untouched.
func (m *FileManager) Process() (*Report, error) {
	m.init.Do(func() {
		m.logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		if m.Logger != nil {
			m.logger = m.Logger
		}
	})

	files, err := m.Files()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, p := range files {
		if err := m.processFile(p); err != nil {
			m.logger.Error("Skip file", "path", p, "error", err)
			report.Skipped = append(report.Skipped, SkippedFile{Path: p, Err: err})
			continue
		}
		m.logger.Info("Corrected file", "path", p)
		report.Processed = append(report.Processed, p)
	}
	return report, nil
}

func (m *FileManager) processFile(p string) error {
	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	for _, c := range m.Correctors {
		data, err = c.Process(data)
		if err != nil {
			return err
		}
	}

	out := m.outputPath(p)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	if m.DeleteOrigin && out != p {
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("delete origin: %w", err)
		}
	}
	return nil
}

// outputPath derives the output file name: the original stem, the suffix,
// then the extension. An empty suffix with DeleteOrigin set means in-place
// overwrite.
func (m *FileManager) outputPath(p string) string {
	suffix := m.Suffix
	if suffix == "" {
		if m.DeleteOrigin {
			return p
		}
		suffix = defaultSuffix
	}
	ext := filepath.Ext(p)
	stem := strings.TrimSuffix(filepath.Base(p), ext)
	return filepath.Join(filepath.Dir(p), stem+suffix+ext)
}
