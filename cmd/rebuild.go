package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the vector index from existing output (no model call)",
	Long: `Re-indexes the vector store from the already-written journal markdown
and calendar file. Safe to run any number of times.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, client, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		defer client.Close()

		indexed, err := store.Rebuild(ctx, outputDir)
		if err != nil {
			return err
		}
		fmt.Printf("Vector store rebuilt: %d documents indexed\n", indexed)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(rebuildCmd)
}
