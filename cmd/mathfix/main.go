// Command mathfix repairs documents whose MathJax expressions were corrupted
// by a renderer that misread literal "<" and ">" inside math as HTML tags.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	mathfix "github.com/dpotapov/go-mathfix"
)

var flags struct {
	root         string
	pattern      string
	suffix       string
	deleteOrigin bool
	mode         string
	candidates   string
	config       string
	verbose      bool
}

var rootCmd = &cobra.Command{
	Use:   "mathfix --root DIR [flags]",
	Short: "Repair MathJax expressions broken by tag-sign corruption",
	Long: `Searches a directory tree for documents matching a filename pattern and
repairs math expressions whose "<" and ">" characters were misrendered as
HTML tags. Corrected files are written next to the originals with a name
suffix, or in place. Files that cannot be repaired are reported and skipped;
their originals are left untouched.`,
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.root, "root", ".", "root directory to search recursively")
	f.StringVar(&flags.pattern, "pattern", "", `filename glob to select files (default "*.html")`)
	f.StringVar(&flags.suffix, "suffix", "", `output name suffix before the extension (default "-fixed")`)
	f.BoolVar(&flags.deleteOrigin, "delete-origin", false, "delete the original file after writing the corrected one")
	f.StringVar(&flags.mode, "mode", "", `parse mode: "html" or "xml" (default "html")`)
	f.StringVar(&flags.candidates, "candidates", "", "predicate expression for math-containing elements")
	f.StringVar(&flags.config, "config", "", "path to a TOML configuration file")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
}

func run(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := mathfix.DefaultConfig()
	if flags.config != "" {
		var err error
		if cfg, err = mathfix.LoadConfig(flags.config); err != nil {
			return err
		}
	}

	// Flags override the configuration file.
	if cmd.Flags().Changed("pattern") {
		cfg.Pattern = flags.pattern
	}
	if cmd.Flags().Changed("suffix") {
		cfg.Suffix = flags.suffix
	}
	if cmd.Flags().Changed("delete-origin") {
		cfg.DeleteOrigin = flags.deleteOrigin
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = flags.mode
	}
	if cmd.Flags().Changed("candidates") {
		cfg.Candidates = flags.candidates
	}

	corrector, err := mathfix.NewMathJaxCorrector(cfg, logger)
	if err != nil {
		return err
	}

	fm := &mathfix.FileManager{
		RootDir:      flags.root,
		Pattern:      cfg.Pattern,
		Correctors:   []mathfix.Corrector{corrector},
		Suffix:       cfg.Suffix,
		DeleteOrigin: cfg.DeleteOrigin,
		Logger:       logger,
	}

	report, err := fm.Process()
	if err != nil {
		return err
	}

	cmd.Printf("Corrected %d file(s).\n", len(report.Processed))
	for _, s := range report.Skipped {
		cmd.Printf("Skipped %s: %v\n", s.Path, s.Err)
	}
	if n := len(report.Skipped); n > 0 {
		return fmt.Errorf("%d file(s) could not be corrected", n)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
