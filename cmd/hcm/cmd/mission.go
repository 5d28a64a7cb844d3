// Copyright © 2026 Arka Labs

package cmd

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/arkalabs/hcm/pkg/model"
)

var missionCmd = &cobra.Command{
	Use:   "mission",
	Short: "Commands to manage missions",
}

var missionMeta string

var missionScaffoldCmd = &cobra.Command{
	Use:   "scaffold <mission-id>",
	Short: "Create the directory tree and initial state for a mission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta := map[string]interface{}{}
		if missionMeta != "" {
			if err := jsoniter.UnmarshalFromString(missionMeta, &meta); err != nil {
				return err
			}
		}
		c := newCore()
		if err := c.Missions.Scaffold(context.Background(), args[0], meta); err != nil {
			return err
		}
		return printJSON(map[string]string{"mission_id": args[0], "status": "scaffolded"})
	},
}

var missionListBusiness string

var missionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mission ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		ids, err := c.Missions.List(context.Background(), missionListBusiness)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"missions": ids})
	},
}

var journalAuthor string

var missionJournalCmd = &cobra.Command{
	Use:   "journal <mission-id> <message>",
	Short: "Append an entry to a mission's journal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		entry, err := c.Missions.AppendJournal(context.Background(), args[0], model.JournalEntry{
			AuthorType: "human",
			AuthorID:   journalAuthor,
			EntryType:  "note",
			Message:    args[1],
		})
		if err != nil {
			return err
		}
		return printJSON(entry)
	},
}

var missionContextCmd = &cobra.Command{
	Use:   "context <mission-id>",
	Short: "Show the composite context of a mission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		mctx, err := c.Missions.Context(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printJSON(mctx)
	},
}

func init() {
	missionScaffoldCmd.Flags().StringVar(&missionMeta, "meta", "", "mission meta as a JSON object")
	missionListCmd.Flags().StringVar(&missionListBusiness, "business", "", "filter by business id")
	missionJournalCmd.Flags().StringVar(&journalAuthor, "author", "cli", "author id recorded with the entry")
	missionCmd.AddCommand(missionScaffoldCmd, missionListCmd, missionJournalCmd, missionContextCmd)
	rootCmd.AddCommand(missionCmd)
}
