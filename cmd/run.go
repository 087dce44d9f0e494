package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quangdv/declutter/pkg/extract"
	"github.com/quangdv/declutter/pkg/pipeline"
)

var policyFile string

var runCmd = &cobra.Command{
	Use:   "run <input-dir>",
	Short: "Process an input directory end to end",
	Long: `Scans the input directory, extracts a reduced unit per file, sends the
aggregate to the model in a single call, and writes the journal, calendar,
and vector index under the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		inputDir := args[0]

		if info, err := os.Stat(inputDir); err != nil || !info.IsDir() {
			return fmt.Errorf("input directory not found: %s", inputDir)
		}

		policy := extract.DefaultPolicy()
		if policyFile != "" {
			var err error
			policy, err = extract.LoadPolicy(policyFile)
			if err != nil {
				return err
			}
		}

		budget := 0
		if v := os.Getenv("DECLUTTER_BUDGET"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				budget = n
			}
		}

		store, client, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		defer client.Close()

		report, err := pipeline.Run(ctx, pipeline.Config{
			InputDir: inputDir,
			OutDir:   outputDir,
			Policy:   policy,
			Budget:   budget,
		}, client, store)
		if err != nil {
			return err
		}

		fmt.Printf("Processed %d files (%d chars aggregated)\n", report.Files, report.BatchChars)
		fmt.Printf("Topics: %v\n", report.Topics)
		fmt.Printf("Notes: %d, Events: %d\n", report.Notes, report.Events)
		for _, jf := range report.JournalFiles {
			fmt.Printf("  %s (%d notes)\n", jf.Path, jf.Notes)
		}
		fmt.Printf("Calendar: %s\n", report.CalendarPath)
		fmt.Printf("Indexed %d documents\n", report.Indexed)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&policyFile, "policy", "", "YAML extraction policy file (optional)")
	RootCmd.AddCommand(runCmd)
}
