package recommend

import "math"

// baselineEBITDA is the company size playbook impact figures are authored
// against.
const baselineEBITDA = 1_000_000

// ScorePlaybook computes the weighted relevance of one playbook against the
// normalized signal maps, with a per-trigger breakdown in declaration
// order. Pure; safe to call concurrently.
func ScorePlaybook(playbook Playbook, maps SignalMaps) (float64, []SignalContribution) {
	breakdown := make([]SignalContribution, 0, len(playbook.Triggers))
	score := 0.0
	for _, trigger := range playbook.Triggers {
		rawStrength := lookupSignal(trigger, maps)
		contribution := rawStrength * trigger.Weight
		score += contribution
		breakdown = append(breakdown, SignalContribution{
			Source:       trigger.Source,
			Signal:       trigger.Signal,
			Weight:       trigger.Weight,
			RawStrength:  rawStrength,
			Contribution: contribution,
		})
	}
	return clamp01(score), breakdown
}

// PersonalizeImpact scales a playbook's baseline impact range to the
// company's size. Negative or zero EBITDA floors the scale at zero rather
// than producing a negative figure.
func PersonalizeImpact(playbook Playbook, adjustedEBITDA float64) ImpactRange {
	scale := math.Max(0, adjustedEBITDA) / baselineEBITDA
	return ImpactRange{
		Low:  int64(math.Round(playbook.ImpactBaseLow * scale)),
		High: int64(math.Round(playbook.ImpactBaseHigh * scale)),
	}
}
