package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dgallion1/texthl/internal/config"
	"github.com/dgallion1/texthl/internal/doctree"
	"github.com/dgallion1/texthl/internal/highlight"
	"github.com/dgallion1/texthl/internal/parser"
)

var rootCmd = &cobra.Command{
	Use:   "texthl",
	Short: "Highlight text in documents",
	Long: `texthl marks spans of text in txt, md, html, csv, docx and pdf documents
and prints the highlights as portable descriptors or coloured text.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("ansi")
		switch mode {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		case "auto":
		default:
			return fmt.Errorf("unknown ansi mode: %s", mode)
		}
		return nil
	},
}

func init() {
	rootCmd.Version = "0.1.0"

	rootCmd.AddCommand(highlightCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(restoreCmd)

	rootCmd.PersistentFlags().String("ansi", "auto", "colorize terminal output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "TOML file with highlighter defaults")
	rootCmd.PersistentFlags().Bool("verbose", false, "log engine activity to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDocument parses path and binds a highlighter to its anchor using the
// defaults from --config.
func openDocument(cmd *cobra.Command, path string, extra ...highlight.Option) (*doctree.Document, *highlight.Highlighter, error) {
	defaults := config.DefaultHighlighter()
	if cfgPath, _ := cmd.Flags().GetString("config"); cfgPath != "" {
		var err error
		defaults, err = config.LoadHighlighterDefaults(cfgPath)
		if err != nil {
			return nil, nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	doc, err := parser.ParseFile(f, path)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	opts := append(defaults.Options(),
		highlight.WithBindEvents(false),
		highlight.WithLogger(cliLogger(cmd)),
	)
	h, err := highlight.New(doc.Root, append(opts, extra...)...)
	if err != nil {
		return nil, nil, err
	}
	return doc, h, nil
}

func cliLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
