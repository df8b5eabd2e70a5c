package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"exitlens/api/internal/config"
	"exitlens/api/internal/search"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Push every company's current dossier into Meilisearch",
	RunE:  runReindex,
}

func runReindex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	if cfg.MeiliURL == "" {
		return fmt.Errorf("MEILI_URL is not configured")
	}

	db, snapshots, err := openSnapshots(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	meiliClient := search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
	defer meiliClient.Close()
	if !meiliClient.Healthy() {
		return fmt.Errorf("meilisearch is not reachable")
	}

	service := search.NewService(meiliClient, snapshots)
	if err := service.ReindexAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "reindex complete")
	return nil
}
