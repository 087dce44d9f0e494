package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var outputDir string

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "declutter",
	Short: "Organize a messy folder into a searchable knowledge base",
	Long: `Declutter ingests a folder of heterogeneous files (notes, logs, CSVs,
JSON, code, images), reduces each to its human-authored signal, classifies
the aggregate with a hosted model, and writes topic journals, a jCal
calendar, and a semantic search index.`,
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "./output", "output directory")
}
