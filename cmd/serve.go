package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quangdv/declutter/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the knowledge base over a REST API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, client, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		defer client.Close()

		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		addr := ":" + port
		fmt.Printf("Serving knowledge base on %s\n", addr)
		return server.New(store).Run(addr)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
