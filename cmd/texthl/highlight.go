package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/texthl/internal/highlight"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight [flags] FILE",
	Short: "Highlight text in a document and print its descriptors",
	Args:  cobra.ExactArgs(1),
	RunE:  runHighlight,
}

func init() {
	highlightCmd.Flags().String("text", "", "text to highlight (required)")
	highlightCmd.Flags().String("color", "", "marker colour (default from config)")
	highlightCmd.Flags().Int("occurrence", 0, "highlight only the Nth occurrence (1-based); 0 highlights all")
	highlightCmd.Flags().Bool("ignore-case", false, "match case-insensitively")
	highlightCmd.MarkFlagRequired("text")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	occurrence, _ := cmd.Flags().GetInt("occurrence")
	ignoreCase, _ := cmd.Flags().GetBool("ignore-case")
	if occurrence < 0 {
		return fmt.Errorf("occurrence must not be negative")
	}

	_, h, err := openDocument(cmd, args[0])
	if err != nil {
		return err
	}
	if c := cmd.Flags().Lookup("color"); c != nil && c.Changed {
		h.SetColor(c.Value.String())
	}

	n := highlightOccurrences(h, text, !ignoreCase, occurrence)
	if n == 0 {
		return fmt.Errorf("%q not found in %s", text, args[0])
	}

	data, err := h.Serialize()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), data)
	return nil
}

// highlightOccurrences highlights the nth match of text, or every match when
// nth is 0, and returns the number of highlights created.
func highlightOccurrences(h *highlight.Highlighter, text string, caseSensitive bool, nth int) int {
	if nth == 0 {
		return len(h.Find(text, caseSensitive))
	}
	finder := &highlight.TextFinder{}
	for i := 1; ; i++ {
		span, ok := finder.Next(h.Anchor(), text, caseSensitive)
		if !ok {
			return 0
		}
		if i == nth {
			if h.DoHighlight(&span, false) == 0 {
				return 0
			}
			return 1
		}
	}
}
