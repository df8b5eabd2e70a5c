package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exitlens/api/internal/recommend"
)

var recommendFlags struct {
	inputsFile string
	asJSON     bool
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank playbooks against a company's signal inputs",
	Long: "recommend runs the scoring engine on caller-supplied signal arrays\n" +
		"(DRS categories, risk discounts, quality adjustments) read from a\n" +
		"JSON file, and prints the ranked playbook list.",
	RunE: runRecommend,
}

func init() {
	f := recommendCmd.Flags()
	f.StringVar(&recommendFlags.inputsFile, "inputs", "", "Path to inputs JSON (required)")
	f.BoolVar(&recommendFlags.asJSON, "json", false, "Emit the full result as JSON")

	_ = recommendCmd.MarkFlagRequired("inputs")
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(recommendFlags.inputsFile)
	if err != nil {
		return fmt.Errorf("read inputs file: %w", err)
	}
	var inputs recommend.Inputs
	if err := json.Unmarshal(data, &inputs); err != nil {
		return fmt.Errorf("parse inputs file: %w", err)
	}

	registry, err := recommend.LoadRegistry()
	if err != nil {
		return err
	}

	result := recommend.Recommend(registry, inputs)
	out := cmd.OutOrStdout()

	if recommendFlags.asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	for _, item := range result.Recommendations {
		marker := " "
		if item.IsRecommended {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-26s %-13s score %.3f  impact $%d-$%d\n",
			marker, item.Playbook.Slug, item.Playbook.Category,
			item.RelevanceScore, item.EstimatedImpactLow, item.EstimatedImpactHigh)
	}
	fmt.Fprintf(out, "\nTop category: %s\n", result.TopCategory)
	fmt.Fprintf(out, "Addressable impact: $%d-$%d\n",
		result.TotalAddressableImpact.Low, result.TotalAddressableImpact.High)
	return nil
}
