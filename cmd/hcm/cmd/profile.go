// Copyright © 2026 Arka Labs

package cmd

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/arkalabs/hcm/pkg/versioned"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Commands to manage project profiles",
}

var profileGetCmd = &cobra.Command{
	Use:   "get <project-id>",
	Short: "Show the latest profile version of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		doc, err := c.Profiles.GetLatest(context.Background(), versioned.Identity{args[0]})
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var profileExpectedBase string

var profilePutCmd = &cobra.Command{
	Use:   "put <project-id> <profile-json>",
	Short: "Write a new profile version",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var profile map[string]interface{}
		if err := jsoniter.UnmarshalFromString(args[1], &profile); err != nil {
			return err
		}
		opts := []versioned.PutOption{}
		if cmd.Flags().Changed("expected-base") {
			if profileExpectedBase == "" {
				opts = append(opts, versioned.WithExpectedAbsent())
			} else {
				opts = append(opts, versioned.WithExpectedBase(profileExpectedBase))
			}
		}
		c := newCore()
		doc, err := c.Profiles.PutVersion(context.Background(), versioned.Identity{args[0]}, profile, opts...)
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all project profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		items, err := versioned.ProfileSummaries(context.Background(), c.Store)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"profiles": items})
	},
}

func init() {
	profilePutCmd.Flags().StringVar(&profileExpectedBase, "expected-base", "",
		"base version hash the update was made against (empty means the profile must not exist yet)")
	profileCmd.AddCommand(profileGetCmd, profilePutCmd, profileListCmd)
	rootCmd.AddCommand(profileCmd)
}
