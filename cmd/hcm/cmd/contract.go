// Copyright © 2026 Arka Labs

package cmd

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/arkalabs/hcm/pkg/versioned"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Commands to manage mission contracts",
}

var contractGetVersion string

var contractGetCmd = &cobra.Command{
	Use:   "get <mission-id>",
	Short: "Show the latest contract version of a mission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c := newCore()
		id := versioned.Identity{args[0]}
		if contractGetVersion != "" {
			doc, err := c.Contracts.GetVersion(ctx, id, contractGetVersion)
			if err != nil {
				return err
			}
			return printJSON(doc)
		}
		doc, err := c.Contracts.GetLatest(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var contractExpectedBase string

var contractPutCmd = &cobra.Command{
	Use:   "put <mission-id> <contract-json>",
	Short: "Write a new contract version",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var contract map[string]interface{}
		if err := jsoniter.UnmarshalFromString(args[1], &contract); err != nil {
			return err
		}
		opts := []versioned.PutOption{}
		if cmd.Flags().Changed("expected-base") {
			if contractExpectedBase == "" {
				opts = append(opts, versioned.WithExpectedAbsent())
			} else {
				opts = append(opts, versioned.WithExpectedBase(contractExpectedBase))
			}
		}
		c := newCore()
		doc, err := c.Contracts.PutVersion(context.Background(), versioned.Identity{args[0]}, contract, opts...)
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

func init() {
	contractGetCmd.Flags().StringVar(&contractGetVersion, "version", "",
		"retrieve a specific version by hash instead of the latest")
	contractPutCmd.Flags().StringVar(&contractExpectedBase, "expected-base", "",
		"base version hash the update was made against (empty means the contract must not exist yet)")
	contractCmd.AddCommand(contractGetCmd, contractPutCmd)
	rootCmd.AddCommand(contractCmd)
}
