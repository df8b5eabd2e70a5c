package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"exitlens/api/internal/config"
	"exitlens/api/internal/search"
)

var searchFlags struct {
	limit int
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search current dossiers by content",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchFlags.limit, "limit", 20, "Maximum results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	db, snapshots, err := openSnapshots(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var meiliClient *search.Meili
	if cfg.MeiliURL != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	service := search.NewService(meiliClient, snapshots)

	response := service.Search(ctx, search.Query{Text: args[0], Limit: searchFlags.limit})
	out := cmd.OutOrStdout()
	if len(response.Results) == 0 {
		fmt.Fprintln(out, "no matches")
		return nil
	}
	for _, result := range response.Results {
		fmt.Fprintf(out, "%-24s v%-4d %-11s %s\n",
			result.CompanyID, result.Version, result.BuildType,
			result.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
