package mathfix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "*.html", cfg.Pattern)
	require.Equal(t, "html", cfg.Mode)
	require.NotEmpty(t, cfg.Candidates)
	require.Empty(t, cfg.Delimiters)

	// The defaults must always produce a working corrector.
	_, err := NewMathJaxCorrector(cfg, nil)
	require.NoError(t, err)
}

func TestLoadConfig(t *testing.T) {
	content := `
pattern = "*.xhtml"
mode = "xml"
suffix = "-repaired"
delete_origin = true
candidates = 'tag == "formula"'

[[delimiters]]
name = "paren"
open = '\\\('
close = '\\\)'

[[delimiters]]
name = "dollar"
open = '\$'
`
	path := filepath.Join(t.TempDir(), "mathfix.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "*.xhtml", cfg.Pattern)
	require.Equal(t, "xml", cfg.Mode)
	require.Equal(t, "-repaired", cfg.Suffix)
	require.True(t, cfg.DeleteOrigin)
	require.Equal(t, `tag == "formula"`, cfg.Candidates)
	require.Len(t, cfg.Delimiters, 2)
	require.Equal(t, "paren", cfg.Delimiters[0].Name)
	require.Equal(t, `\\\)`, cfg.Delimiters[0].Close)

	_, err = NewMathJaxCorrector(cfg, nil)
	require.NoError(t, err)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mathfix.toml")
	require.NoError(t, os.WriteFile(path, []byte(`suffix = "-v2"`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "-v2", cfg.Suffix)
	require.Equal(t, "*.html", cfg.Pattern, "unset fields keep defaults")
	require.Equal(t, defaultCandidates, cfg.Candidates)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`pattern = [`), 0o644))
	_, err = LoadConfig(path)
	require.Error(t, err)
}
