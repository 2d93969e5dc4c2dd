package mathfix

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dpotapov/go-mathfix/repair"
)

// defaultCandidates matches the containers MathJax leaves in rendered
// documents: elements carrying a MathJax class, MathML islands and math/tex
// script tags.
const defaultCandidates = `tag == "math" || attrs["class"] matches "MathJax" || attrs["type"] matches "math/tex"`

// Config is the external configuration for a correction run: which files to
// select, how to parse them, which subtrees to inspect and which token
// patterns to recognize. None of this is hard-coded in the corrector.
type Config struct {
	// Pattern is a glob matched against file base names under the root
	// directory.
	Pattern string `toml:"pattern"`

	// Suffix is attached to the original file stem, before the extension,
	// to derive the output name. When empty and DeleteOrigin is false,
	// "-fixed" is used so the origin is never silently clobbered; when
	// empty and DeleteOrigin is true, files are corrected in place.
	Suffix string `toml:"suffix"`

	// DeleteOrigin removes the original file after the corrected one is
	// written.
	DeleteOrigin bool `toml:"delete_origin"`

	// Mode selects the document parser: "html" (default) or "xml".
	Mode string `toml:"mode"`

	// Candidates is the predicate expression identifying subtrees that
	// contain math expressions. See dom.CompilePredicate.
	Candidates string `toml:"candidates"`

	// TagPattern optionally overrides the built-in HTML tag recognizer.
	TagPattern string `toml:"tag_pattern"`

	// Delimiters lists the math delimiter classes. Empty means the MathJax
	// defaults.
	Delimiters []DelimiterConfig `toml:"delimiters"`
}

// DelimiterConfig is one math delimiter class in the configuration file.
type DelimiterConfig struct {
	Name  string `toml:"name"`
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// DefaultConfig returns the configuration for a plain MathJax repair run over
// HTML files.
func DefaultConfig() *Config {
	return &Config{
		Pattern:    "*.html",
		Mode:       "html",
		Candidates: defaultCandidates,
	}
}

// LoadConfig reads a TOML configuration file. Fields absent from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) delimiters() []repair.Delimiter {
	if len(c.Delimiters) == 0 {
		return repair.MathJaxDelimiters()
	}
	delims := make([]repair.Delimiter, len(c.Delimiters))
	for i, d := range c.Delimiters {
		delims[i] = repair.Delimiter{Name: d.Name, Open: d.Open, Close: d.Close}
	}
	return delims
}
