package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/texthl/internal/doctree"
	"github.com/dgallion1/texthl/internal/highlight"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [flags] FILE",
	Short: "Apply saved descriptors to a document and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	restoreCmd.Flags().String("descriptors", "", "descriptor file, or - for stdin (required)")
	restoreCmd.Flags().Bool("html", false, "print the highlighted HTML instead of coloured text")
	restoreCmd.MarkFlagRequired("descriptors")
}

func runRestore(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("descriptors")
	asHTML, _ := cmd.Flags().GetBool("html")

	data, err := readDescriptors(cmd.InOrStdin(), src)
	if err != nil {
		return err
	}

	_, h, err := openDocument(cmd, args[0])
	if err != nil {
		return err
	}

	var descs []highlight.Descriptor
	if strings.TrimSpace(data) != "" {
		descs, err = highlight.DecodeDescriptors(data)
		if err != nil {
			return err
		}
	}
	markers, errs := h.Restore(descs)
	fmt.Fprintf(cmd.ErrOrStderr(), "restored %d markers, skipped %d descriptors\n", len(markers), len(errs))

	out := cmd.OutOrStdout()
	if asHTML {
		return doctree.Render(out, h.Anchor())
	}
	fmt.Fprintln(out, renderText(h.Anchor()))
	return nil
}

func readDescriptors(stdin io.Reader, src string) (string, error) {
	if src == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read descriptors: %w", err)
	}
	return string(data), nil
}
