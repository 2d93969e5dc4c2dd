package mathfix

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const brokenDoc = `<html><head></head><body><span class="MathJax">$a <b> b$</b></span></body></html>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newManager(t *testing.T, root string) *FileManager {
	t.Helper()
	c, err := NewMathJaxCorrector(nil, nil)
	require.NoError(t, err)
	return &FileManager{
		RootDir:    root,
		Pattern:    "*.html",
		Correctors: []Corrector{c},
		Logger:     discardLogger(),
	}
}

func TestFileManagerFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.html"), brokenDoc)
	writeFile(t, filepath.Join(root, "sub", "b.html"), brokenDoc)
	writeFile(t, filepath.Join(root, "notes.txt"), "not a document")

	m := newManager(t, root)
	files, err := m.Files()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(root, "a.html"),
		filepath.Join(root, "sub", "b.html"),
	}, files)
}

func TestFileManagerBadPattern(t *testing.T) {
	m := newManager(t, t.TempDir())
	m.Pattern = "["
	_, err := m.Files()
	require.Error(t, err)
}

func TestFileManagerProcessDerivedOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.html"), brokenDoc)
	writeFile(t, filepath.Join(root, "sub", "b.html"), brokenDoc)
	writeFile(t, filepath.Join(root, "notes.txt"), "not a document")

	m := newManager(t, root)
	m.Suffix = "-fixed"

	report, err := m.Process()
	require.NoError(t, err)
	require.Len(t, report.Processed, 2)
	require.Empty(t, report.Skipped)

	// Exactly two new files, originals kept, non-matching file untouched.
	for _, p := range []string{
		filepath.Join(root, "a.html"),
		filepath.Join(root, "a-fixed.html"),
		filepath.Join(root, "sub", "b.html"),
		filepath.Join(root, "sub", "b-fixed.html"),
		filepath.Join(root, "notes.txt"),
	} {
		_, err := os.Stat(p)
		require.NoError(t, err, "expected %s to exist", p)
	}

	fixed, err := os.ReadFile(filepath.Join(root, "a-fixed.html"))
	require.NoError(t, err)
	require.Contains(t, string(fixed), "$a &lt;b&gt; b$")
}

func TestFileManagerDefaultSuffixProtectsOrigin(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.html"), brokenDoc)

	m := newManager(t, root)
	// No suffix, no delete-origin: the default suffix kicks in.
	_, err := m.Process()
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "a.html"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "a-fixed.html"))
	require.NoError(t, err)
}

func TestFileManagerDeleteOrigin(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.html"), brokenDoc)

	m := newManager(t, root)
	m.Suffix = "-fixed"
	m.DeleteOrigin = true

	report, err := m.Process()
	require.NoError(t, err)
	require.Len(t, report.Processed, 1)

	_, err = os.Stat(filepath.Join(root, "a.html"))
	require.True(t, os.IsNotExist(err), "origin should be removed")
	_, err = os.Stat(filepath.Join(root, "a-fixed.html"))
	require.NoError(t, err)
}

func TestFileManagerInPlaceOverwrite(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "a.html")
	writeFile(t, p, brokenDoc)

	m := newManager(t, root)
	m.DeleteOrigin = true // empty suffix + delete-origin = in place

	_, err := m.Process()
	require.NoError(t, err)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Contains(t, string(data), "$a &lt;b&gt; b$")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFileManagerSkipsFailedFilesAndContinues(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bad.html"),
		`<html><head></head><body><span class="MathJax">$x</span></body></html>`)
	writeFile(t, filepath.Join(root, "good.html"), brokenDoc)

	m := newManager(t, root)
	m.Suffix = "-fixed"

	report, err := m.Process()
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "good.html")}, report.Processed)
	require.Len(t, report.Skipped, 1)
	require.Equal(t, filepath.Join(root, "bad.html"), report.Skipped[0].Path)
	require.Error(t, report.Skipped[0].Err)

	// The unrepairable file is left as-is: no output written.
	_, err = os.Stat(filepath.Join(root, "bad-fixed.html"))
	require.True(t, os.IsNotExist(err))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name         string
		suffix       string
		deleteOrigin bool
		in           string
		want         string
	}{
		{name: "explicit suffix", suffix: "-v2", in: "/d/x.html", want: "/d/x-v2.html"},
		{name: "default suffix", in: "/d/x.html", want: "/d/x-fixed.html"},
		{name: "in place", deleteOrigin: true, in: "/d/x.html", want: "/d/x.html"},
		{name: "no extension", suffix: "-v2", in: "/d/x", want: "/d/x-v2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &FileManager{Suffix: tt.suffix, DeleteOrigin: tt.deleteOrigin}
			require.Equal(t, filepath.FromSlash(tt.want), m.outputPath(filepath.FromSlash(tt.in)))
		})
	}
}
