package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quangdv/declutter/pkg/vecstore"
)

var (
	queryLimit int
	queryType  string
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Semantic search over the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		filter := ""
		switch queryType {
		case "all", "":
		case vecstore.TypeNote, vecstore.TypeEvent:
			filter = queryType
		default:
			return fmt.Errorf("type must be note, calendar_event, or all")
		}

		store, client, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		defer client.Close()

		results, err := store.Query(ctx, args[0], queryLimit, filter)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Printf("No results found for: %q\n", args[0])
			return nil
		}

		fmt.Printf("Results for: %q\n", args[0])
		for i, r := range results {
			header := fmt.Sprintf("[%s]", r.Meta.Topic)
			if r.Meta.Type == vecstore.TypeEvent {
				header = fmt.Sprintf("%s %s", r.Meta.Date, r.Meta.Time)
			}
			fmt.Printf("\n%d. %s (score: %.2f)\n", i+1, header, r.Score)
			fmt.Printf("   %s\n", r.Content)
			fmt.Printf("   Source: %s\n", r.Meta.SourceFile)
			if r.Meta.IsImage {
				fmt.Printf("   Image file: %s\n", r.Meta.SourceFile)
			}
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "num-results", "n", 5, "number of results to return")
	queryCmd.Flags().StringVarP(&queryType, "type", "t", "all", "filter by type: note, calendar_event, or all")
	RootCmd.AddCommand(queryCmd)
}
