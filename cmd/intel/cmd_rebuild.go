package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exitlens/api/internal/dossier"
)

var rebuildFlags struct {
	companyID    string
	trigger      string
	source       string
	sectionsFile string
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Run a dossier update from a section-content file",
	Long: "rebuild feeds pre-computed section content (a JSON object keyed by\n" +
		"section name) through the dossier updater. It is an ops/backfill tool;\n" +
		"in the application tier the section builders produce this content.",
	RunE: runRebuild,
}

func init() {
	f := rebuildCmd.Flags()
	f.StringVar(&rebuildFlags.companyID, "company", "", "Company ID (required)")
	f.StringVar(&rebuildFlags.trigger, "trigger", string(dossier.TriggerFullRebuild), "Trigger event name")
	f.StringVar(&rebuildFlags.source, "source", "intel-cli", "Trigger source recorded on the snapshot")
	f.StringVar(&rebuildFlags.sectionsFile, "sections-file", "", "Path to section content JSON (required)")

	_ = rebuildCmd.MarkFlagRequired("company")
	_ = rebuildCmd.MarkFlagRequired("sections-file")
}

// fileBuilder serves section content from a flat JSON file instead of the
// app-tier builders.
type fileBuilder struct {
	sections map[dossier.Section]json.RawMessage
}

func newFileBuilder(path string) (fileBuilder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileBuilder{}, fmt.Errorf("read sections file: %w", err)
	}
	var sections map[dossier.Section]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return fileBuilder{}, fmt.Errorf("parse sections file: %w", err)
	}
	return fileBuilder{sections: sections}, nil
}

func (b fileBuilder) BuildAll(_ context.Context, _ string) (dossier.Content, error) {
	var content dossier.Content
	for name, raw := range b.sections {
		if err := content.SetSection(name, raw); err != nil {
			return dossier.Content{}, err
		}
	}
	return content, nil
}

func (b fileBuilder) Build(_ context.Context, _ string, names []dossier.Section) (map[dossier.Section]json.RawMessage, error) {
	partial := make(map[dossier.Section]json.RawMessage, len(names))
	for _, name := range names {
		if raw, ok := b.sections[name]; ok {
			partial[name] = raw
		}
	}
	return partial, nil
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, snapshots, err := openSnapshots(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	builder, err := newFileBuilder(rebuildFlags.sectionsFile)
	if err != nil {
		return err
	}

	service := dossier.New(snapshots, builder, nil, nil)
	snapshot, err := service.Update(ctx, rebuildFlags.companyID, dossier.TriggerEvent(rebuildFlags.trigger), rebuildFlags.source)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "company %s at version %d (%s, hash %s)\n",
		snapshot.CompanyID, snapshot.Version, snapshot.BuildType, snapshot.ContentHash[:12])
	return nil
}
