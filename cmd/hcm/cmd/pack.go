// Copyright © 2026 Arka Labs

package cmd

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Commands to manage immutable packs",
}

var packListType string

var packListCmd = &cobra.Command{
	Use:   "list <mission-id>",
	Short: "List the packs of a mission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		entries, err := c.Packs.List(context.Background(), args[0], packListType)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"packs": entries})
	},
}

var packStoreCmd = &cobra.Command{
	Use:   "store <mission-id> <pack-json>",
	Short: "Store an immutable pack",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pack map[string]interface{}
		if err := jsoniter.UnmarshalFromString(args[1], &pack); err != nil {
			return err
		}
		c := newCore()
		result, err := c.Packs.Store(context.Background(), args[0], pack)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var packGetCmd = &cobra.Command{
	Use:   "get <mission-id> <pack-id>",
	Short: "Show one stored pack",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		pack, err := c.Packs.Get(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(pack)
	},
}

func init() {
	packListCmd.Flags().StringVar(&packListType, "type", "", "filter by pack type")
	packCmd.AddCommand(packListCmd, packStoreCmd, packGetCmd)
	rootCmd.AddCommand(packCmd)
}
