// Copyright © 2026 Arka Labs

package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/arkalabs/hcm/pkg/artifacts"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Commands to manage binary artifacts",
}

var artifactID string

var artifactPutCmd = &cobra.Command{
	Use:   "put <mission-id> <file>",
	Short: "Store a file as a deduplicated artifact blob",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		opts := []artifacts.PutOption{}
		if artifactID != "" {
			opts = append(opts, artifacts.WithArtifactID(artifactID))
		}
		c := newCore()
		result, err := c.Artifacts.Put(context.Background(), args[0], content,
			map[string]interface{}{"filename": args[1]}, opts...)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var artifactGetCmd = &cobra.Command{
	Use:   "get <mission-id> <artifact-id>",
	Short: "Show an artifact's metadata and write its blob to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		art, err := c.Artifacts.Get(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		if art == nil {
			return printJSON(nil)
		}
		if err := printJSON(art.Meta); err != nil {
			return err
		}
		if len(art.Content) > 0 {
			_, err = os.Stdout.Write(art.Content)
		}
		return err
	},
}

func init() {
	artifactPutCmd.Flags().StringVar(&artifactID, "id", "", "artifact id (generated when omitted)")
	artifactCmd.AddCommand(artifactPutCmd, artifactGetCmd)
	rootCmd.AddCommand(artifactCmd)
}
