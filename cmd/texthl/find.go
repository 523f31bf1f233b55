package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var findCmd = &cobra.Command{
	Use:   "find [flags] FILE...",
	Short: "Highlight every occurrence of text in one or more documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFind,
}

func init() {
	findCmd.Flags().String("text", "", "text to find (required)")
	findCmd.Flags().String("color", "", "marker colour (default from config)")
	findCmd.Flags().Bool("ignore-case", false, "match case-insensitively")
	findCmd.Flags().Int("jobs", 0, "files processed in parallel (0 = GOMAXPROCS)")
	findCmd.MarkFlagRequired("text")
}

type findResult struct {
	path    string
	matches int
	text    string
	err     error
}

func runFind(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	ignoreCase, _ := cmd.Flags().GetBool("ignore-case")
	jobs, _ := cmd.Flags().GetInt("jobs")
	markerColor := ""
	if c := cmd.Flags().Lookup("color"); c != nil && c.Changed {
		markerColor = c.Value.String()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each file gets its own tree and highlighter; indexes are unique per
	// goroutine so results need no lock.
	results := make([]findResult, len(args))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(jobs, len(args)))
	for i, path := range args {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			_, h, err := openDocument(cmd, path)
			if err != nil {
				results[i] = findResult{path: path, err: err}
				return nil
			}
			if markerColor != "" {
				h.SetColor(markerColor)
			}
			batches := h.Find(text, !ignoreCase)
			results[i] = findResult{
				path:    path,
				matches: len(batches),
				text:    renderText(h.Anchor()),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.path, r.err)
			continue
		}
		headerColor.Fprint(out, r.path)
		fmt.Fprintf(out, " (%d matches)\n", r.matches)
		if r.matches > 0 {
			fmt.Fprintln(out, r.text)
		}
		fmt.Fprintln(out)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

