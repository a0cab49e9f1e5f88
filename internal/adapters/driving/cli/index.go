package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docchat-io/docchat/internal/extractors/pdf"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the vector index from the configured document",
	Long: `Extracts passages from the configured document, embeds them and
writes a fresh index snapshot, replacing any existing one.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Document.Path == "" {
		return errors.New("no document configured: set document.path in the config file")
	}

	if err := a.retrieval.Rebuild(cmd.Context()); err != nil {
		if errors.Is(err, pdf.ErrPDFToolNotFound) {
			fmt.Fprintln(cmd.ErrOrStderr(), pdf.InstallInstructions())
		}
		return fmt.Errorf("building index: %w", err)
	}

	cmd.Printf("Indexed %d passages from %s\n", a.retrieval.CorpusSize(), a.cfg.Document.Path)
	return nil
}
