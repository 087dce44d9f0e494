package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quangdv/declutter/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the knowledge base to MCP clients over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, client, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		defer client.Close()

		return mcp.Run(ctx, store)
	},
}

func init() {
	RootCmd.AddCommand(mcpCmd)
}
