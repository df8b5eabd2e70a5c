package recommend

import "testing"

func rankRegistry() []Playbook {
	return []Playbook{
		{
			Slug: "customer-diversification", Category: "market",
			Triggers:      []Trigger{{Source: SourceRSS, Signal: "Customer Concentration", Weight: 1}},
			ImpactBaseLow: 50_000, ImpactBaseHigh: 120_000,
		},
		{
			Slug: "owner-independence", Category: "team",
			Triggers:      []Trigger{{Source: SourceDRS, Signal: "Team Readiness", Weight: 1}},
			ImpactBaseLow: 40_000, ImpactBaseHigh: 90_000,
		},
		{
			Slug: "financial-hygiene", Category: "financial",
			Triggers:      []Trigger{{Source: SourceDRS, Signal: "Financial Readiness", Weight: 1}},
			ImpactBaseLow: 30_000, ImpactBaseHigh: 70_000,
		},
		{
			Slug: "legal-cleanup", Category: "legal",
			Triggers:      []Trigger{{Source: SourceRSS, Signal: "Legal Exposure", Weight: 1}},
			ImpactBaseLow: 20_000, ImpactBaseHigh: 45_000,
		},
	}
}

func findRecommendation(t *testing.T, result Result, slug string) Recommendation {
	t.Helper()
	for _, recommendation := range result.Recommendations {
		if recommendation.Playbook.Slug == slug {
			return recommendation
		}
	}
	t.Fatalf("playbook %s missing from result", slug)
	return Recommendation{}
}

func TestRecommendRanksBySeverity(t *testing.T) {
	inputs := Inputs{
		DRSCategories: []DRSCategory{
			{Category: "Team Readiness", Score: 0.3},      // severity 0.7
			{Category: "Financial Readiness", Score: 0.9}, // severity 0.1
		},
		RiskDiscounts: []RiskDiscount{
			{Name: "Customer Concentration", Rate: 0.25}, // severity 1.0
		},
		CompanyProfile: CompanyProfile{AdjustedEBITDA: 1_000_000},
	}

	result := Recommend(rankRegistry(), inputs)

	if len(result.Recommendations) != 4 {
		t.Fatalf("got %d recommendations, want every playbook ranked", len(result.Recommendations))
	}
	order := []string{"customer-diversification", "owner-independence", "financial-hygiene", "legal-cleanup"}
	for i, slug := range order {
		if result.Recommendations[i].Playbook.Slug != slug {
			t.Errorf("position %d = %s, want %s", i, result.Recommendations[i].Playbook.Slug, slug)
		}
	}
	if result.TopCategory != "market" {
		t.Errorf("top category = %s, want market", result.TopCategory)
	}
}

func TestRecommendTopThreeCarryTheFlag(t *testing.T) {
	inputs := Inputs{
		DRSCategories: []DRSCategory{
			{Category: "Team Readiness", Score: 0.3},
			{Category: "Financial Readiness", Score: 0.5},
		},
		RiskDiscounts: []RiskDiscount{
			{Name: "Customer Concentration", Rate: 0.25},
			{Name: "Legal Exposure", Rate: 0.05},
		},
		CompanyProfile: CompanyProfile{AdjustedEBITDA: 1_000_000},
	}

	result := Recommend(rankRegistry(), inputs)

	recommended := 0
	for _, recommendation := range result.Recommendations {
		if recommendation.IsRecommended {
			recommended++
		}
	}
	if recommended != 3 {
		t.Errorf("recommended = %d, want 3", recommended)
	}
	if findRecommendation(t, result, "legal-cleanup").IsRecommended {
		t.Error("fourth-ranked playbook must not be recommended")
	}
}

func TestRecommendActivePlaybookSinksButStaysVisible(t *testing.T) {
	inputs := Inputs{
		RiskDiscounts: []RiskDiscount{
			{Name: "Customer Concentration", Rate: 0.225}, // severity 0.9
		},
		DRSCategories: []DRSCategory{
			{Category: "Team Readiness", Score: 0.5}, // severity 0.5
		},
		ActivePlaybookSlugs: []string{"customer-diversification"},
		CompanyProfile:      CompanyProfile{AdjustedEBITDA: 1_000_000},
	}

	result := Recommend(rankRegistry(), inputs)

	// Active at 0.9 orders as 0.45, below the inactive 0.5.
	if result.Recommendations[0].Playbook.Slug != "owner-independence" {
		t.Errorf("top slot = %s, want the inactive playbook", result.Recommendations[0].Playbook.Slug)
	}
	active := findRecommendation(t, result, "customer-diversification")
	if !almostEqual(active.RelevanceScore, 0.9) {
		t.Errorf("stored relevance = %v, the penalty must not touch it", active.RelevanceScore)
	}
	if active.IsRecommended {
		t.Error("active playbook must never carry the recommended flag")
	}
}

func TestRecommendActiveNeverRecommendedEvenWhenSlotsRemain(t *testing.T) {
	registry := rankRegistry()[:2]
	inputs := Inputs{
		RiskDiscounts:       []RiskDiscount{{Name: "Customer Concentration", Rate: 0.25}},
		ActivePlaybookSlugs: []string{"customer-diversification", "owner-independence"},
	}

	result := Recommend(registry, inputs)
	for _, recommendation := range result.Recommendations {
		if recommendation.IsRecommended {
			t.Errorf("%s is active and must not be recommended", recommendation.Playbook.Slug)
		}
	}
	if result.TotalAddressableImpact != (ImpactRange{}) {
		t.Errorf("impact total = %+v, want zero with nothing recommended", result.TotalAddressableImpact)
	}
}

func TestRecommendTotalImpactSumsRecommendedOnly(t *testing.T) {
	inputs := Inputs{
		DRSCategories: []DRSCategory{
			{Category: "Team Readiness", Score: 0.3},
			{Category: "Financial Readiness", Score: 0.5},
		},
		RiskDiscounts: []RiskDiscount{
			{Name: "Customer Concentration", Rate: 0.25},
			{Name: "Legal Exposure", Rate: 0.10},
		},
		CompanyProfile: CompanyProfile{AdjustedEBITDA: 2_000_000},
	}

	result := Recommend(rankRegistry(), inputs)

	// Top three at 2x scale: (50k+40k+30k)*2 and (120k+90k+70k)*2.
	want := ImpactRange{Low: 240_000, High: 560_000}
	if result.TotalAddressableImpact != want {
		t.Errorf("impact total = %+v, want %+v", result.TotalAddressableImpact, want)
	}
}

func TestRecommendTopCategoryTieKeepsFirstSeen(t *testing.T) {
	registry := []Playbook{
		{Slug: "a", Category: "market", Triggers: []Trigger{{Source: SourceDRS, Signal: "X", Weight: 1}}},
		{Slug: "b", Category: "team", Triggers: []Trigger{{Source: SourceDRS, Signal: "X", Weight: 1}}},
	}
	inputs := Inputs{
		DRSCategories: []DRSCategory{{Category: "X", Score: 0.4}},
	}

	result := Recommend(registry, inputs)
	if result.TopCategory != "market" {
		t.Errorf("top category = %s, want first-seen category on a tie", result.TopCategory)
	}
}

func TestRecommendEmptyInputs(t *testing.T) {
	result := Recommend(rankRegistry(), Inputs{})

	for _, recommendation := range result.Recommendations {
		if recommendation.RelevanceScore != 0 {
			t.Errorf("%s relevance = %v, want 0 with no signals", recommendation.Playbook.Slug, recommendation.RelevanceScore)
		}
	}
	// Ranking still marks the top of the stable order.
	recommended := 0
	for _, recommendation := range result.Recommendations {
		if recommendation.IsRecommended {
			recommended++
		}
	}
	if recommended != 3 {
		t.Errorf("recommended = %d, want 3 even at zero relevance", recommended)
	}
}

func TestRecommendEmptyRegistry(t *testing.T) {
	result := Recommend(nil, Inputs{})
	if len(result.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want none", result.Recommendations)
	}
	if result.TopCategory != "" {
		t.Errorf("top category = %q, want empty", result.TopCategory)
	}
}
