package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyFlags struct {
	companyID string
	limit     int
	verify    bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List a company's dossier version chain",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.companyID, "company", "", "Company ID (required)")
	f.IntVar(&historyFlags.limit, "limit", 50, "Maximum versions to list")
	f.BoolVar(&historyFlags.verify, "verify", false, "Check chain invariants before listing")

	_ = historyCmd.MarkFlagRequired("company")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, snapshots, err := openSnapshots(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	if historyFlags.verify {
		if err := snapshots.VerifyChain(ctx, historyFlags.companyID); err != nil {
			return err
		}
		fmt.Fprintln(out, "chain OK")
	}

	items, err := snapshots.SnapshotHistory(ctx, historyFlags.companyID, historyFlags.limit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintf(out, "No dossier for company %s\n", historyFlags.companyID)
		return nil
	}
	for _, item := range items {
		fmt.Fprintf(out, "v%-4d %-11s %-28s %s  %s\n",
			item.Version, item.BuildType, item.TriggerEvent,
			item.ContentHash[:12], item.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
