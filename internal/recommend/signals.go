package recommend

import (
	"sort"
	"strings"
)

const (
	// rssMaxRate is the discount rate treated as full severity.
	rssMaxRate = 0.25
	// bqsMaxImpact is the absolute quality impact treated as full severity.
	bqsMaxImpact = 0.35
)

// SignalMaps holds the three normalized signal domains, each mapping a
// signal name to a severity in [0,1].
type SignalMaps struct {
	DRS map[string]float64
	RSS map[string]float64
	BQS map[string]float64
}

// NormalizeSignals converts the three heterogeneous input arrays into
// comparable severities. DRS scores are gaps (1 - score), RSS rates are
// scaled against rssMaxRate, and only negative BQS impacts count -
// strengths are not problems to fix.
func NormalizeSignals(inputs Inputs) SignalMaps {
	maps := SignalMaps{
		DRS: make(map[string]float64, len(inputs.DRSCategories)),
		RSS: make(map[string]float64, len(inputs.RiskDiscounts)),
		BQS: make(map[string]float64),
	}
	for _, category := range inputs.DRSCategories {
		maps.DRS[category.Category] = clamp01(1 - category.Score)
	}
	for _, discount := range inputs.RiskDiscounts {
		maps.RSS[discount.Name] = clamp01(discount.Rate / rssMaxRate)
	}
	for _, adjustment := range inputs.QualityAdjustments {
		if adjustment.Impact >= 0 {
			continue
		}
		maps.BQS[adjustment.Factor] = clamp01(-adjustment.Impact / bqsMaxImpact)
	}
	return maps
}

// lookupSignal resolves a trigger against the normalized maps. RSS and BQS
// allow prefix matches to bridge naming variants between the registry and
// the valuation engine ("Customer Concentration" matching a discount named
// "Customer Concentration (Single)"). Missing signals read as zero.
func lookupSignal(trigger Trigger, maps SignalMaps) float64 {
	switch trigger.Source {
	case SourceDRS:
		return maps.DRS[trigger.Signal]
	case SourceRSS:
		if strength, ok := prefixLookup(maps.RSS, trigger.Signal); ok {
			return strength
		}
		return maps.RSS[trigger.Signal]
	case SourceBQS:
		if strength, ok := maps.BQS[trigger.Signal]; ok {
			return strength
		}
		if strength, ok := prefixLookup(maps.BQS, trigger.Signal); ok {
			return strength
		}
	}
	return 0
}

// prefixLookup scans for the first key starting with prefix, in sorted key
// order so the result is deterministic. Linear over the map; fine at the
// tens-of-entries scale these registries run at.
func prefixLookup(m map[string]float64, prefix string) (float64, bool) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			return m[key], true
		}
	}
	return 0, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
