// Copyright © 2026 Arka Labs

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var searchCaller string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a classification-scoped search over the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		router, err := newCore().Router(ctx)
		if err != nil {
			return err
		}
		result, err := router.Search(ctx, args[0], searchCaller)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchCaller, "caller", "cli", "caller id recorded with the search")
	rootCmd.AddCommand(searchCmd)
}
