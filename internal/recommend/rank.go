package recommend

import "sort"

const (
	// topN caps how many playbooks carry the recommended flag.
	topN = 3
	// activeScorePenalty halves an active playbook's score for ordering
	// only; the stored relevance is never altered.
	activeScorePenalty = 0.5
)

// Recommend evaluates every playbook in the registry against the inputs and
// returns the ranked, annotated result. Single pass, no shared state.
func Recommend(registry []Playbook, inputs Inputs) Result {
	maps := NormalizeSignals(inputs)

	active := make(map[string]bool, len(inputs.ActivePlaybookSlugs))
	for _, slug := range inputs.ActivePlaybookSlugs {
		active[slug] = true
	}

	recommendations := make([]Recommendation, 0, len(registry))
	var categoryOrder []string
	categoryScores := make(map[string]float64)
	for _, playbook := range registry {
		score, breakdown := ScorePlaybook(playbook, maps)
		impact := PersonalizeImpact(playbook, inputs.CompanyProfile.AdjustedEBITDA)
		recommendations = append(recommendations, Recommendation{
			Playbook:            playbook,
			RelevanceScore:      score,
			EstimatedImpactLow:  impact.Low,
			EstimatedImpactHigh: impact.High,
			SignalBreakdown:     breakdown,
		})
		if _, seen := categoryScores[playbook.Category]; !seen {
			categoryOrder = append(categoryOrder, playbook.Category)
		}
		categoryScores[playbook.Category] += score
	}

	// Active playbooks sink in the ordering but stay visible in the list.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return effectiveScore(recommendations[i], active) > effectiveScore(recommendations[j], active)
	})

	marked := 0
	for i := range recommendations {
		if marked == topN {
			break
		}
		if active[recommendations[i].Playbook.Slug] {
			continue
		}
		recommendations[i].IsRecommended = true
		marked++
	}

	var total ImpactRange
	for _, recommendation := range recommendations {
		if !recommendation.IsRecommended {
			continue
		}
		total.Low += recommendation.EstimatedImpactLow
		total.High += recommendation.EstimatedImpactHigh
	}

	return Result{
		Recommendations:        recommendations,
		TotalAddressableImpact: total,
		TopCategory:            topCategory(categoryOrder, categoryScores),
	}
}

func effectiveScore(recommendation Recommendation, active map[string]bool) float64 {
	if active[recommendation.Playbook.Slug] {
		return recommendation.RelevanceScore * activeScorePenalty
	}
	return recommendation.RelevanceScore
}

// topCategory sums unadjusted relevance per category and picks the strict
// maximum; the first-seen category wins ties.
func topCategory(order []string, scores map[string]float64) string {
	best := ""
	bestScore := 0.0
	for _, category := range order {
		if best == "" || scores[category] > bestScore {
			best = category
			bestScore = scores[category]
		}
	}
	return best
}
