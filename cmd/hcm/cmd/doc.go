// Copyright © 2026 Arka Labs

package cmd

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/arkalabs/hcm/pkg/versioned"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Commands to manage enterprise documents",
}

var docGetCmd = &cobra.Command{
	Use:   "get <space-id> <workspace-id> <doc-id>",
	Short: "Show the latest version of an enterprise document",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		doc, err := c.Docs.GetLatest(context.Background(), versioned.Identity{args[0], args[1], args[2]})
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var docExpectedBase string

var docPutCmd = &cobra.Command{
	Use:   "put <space-id> <workspace-id> <doc-id> <content-json>",
	Short: "Write a new document version",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var content map[string]interface{}
		if err := jsoniter.UnmarshalFromString(args[3], &content); err != nil {
			return err
		}
		opts := []versioned.PutOption{}
		if cmd.Flags().Changed("expected-base") {
			if docExpectedBase == "" {
				opts = append(opts, versioned.WithExpectedAbsent())
			} else {
				opts = append(opts, versioned.WithExpectedBase(docExpectedBase))
			}
		}
		c := newCore()
		doc, err := c.Docs.PutVersion(context.Background(), versioned.Identity{args[0], args[1], args[2]}, content, opts...)
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var docListCmd = &cobra.Command{
	Use:   "list <space-id> <workspace-id>",
	Short: "List the documents of a workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		items, err := versioned.DocSummaries(context.Background(), c.Store, args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"docs": items})
	},
}

func init() {
	docPutCmd.Flags().StringVar(&docExpectedBase, "expected-base", "",
		"base version hash the update was made against (empty means the document must not exist yet)")
	docCmd.AddCommand(docGetCmd, docPutCmd, docListCmd)
	rootCmd.AddCommand(docCmd)
}
