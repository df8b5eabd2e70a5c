package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var currentFlags struct {
	companyID string
	content   bool
}

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current dossier snapshot for a company",
	RunE:  runCurrent,
}

func init() {
	f := currentCmd.Flags()
	f.StringVar(&currentFlags.companyID, "company", "", "Company ID (required)")
	f.BoolVar(&currentFlags.content, "content", false, "Print the full content JSON")

	_ = currentCmd.MarkFlagRequired("company")
}

func runCurrent(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, snapshots, err := openSnapshots(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	current, err := snapshots.CurrentSnapshot(ctx, currentFlags.companyID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if current == nil {
		fmt.Fprintf(out, "No dossier for company %s\n", currentFlags.companyID)
		return nil
	}

	fmt.Fprintf(out, "Company:  %s\n", current.CompanyID)
	fmt.Fprintf(out, "Version:  %d\n", current.Version)
	fmt.Fprintf(out, "Build:    %s (%s)\n", current.BuildType, current.TriggerEvent)
	fmt.Fprintf(out, "Hash:     %s\n", current.ContentHash)
	fmt.Fprintf(out, "Sections: %s\n", strings.Join(current.Sections, ", "))
	fmt.Fprintf(out, "Created:  %s\n", current.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if currentFlags.content {
		fmt.Fprintln(out, string(current.Content))
	}
	return nil
}
