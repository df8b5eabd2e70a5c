package recommend

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed playbooks.yaml
var playbooksYAML []byte

type registryFile struct {
	Playbooks []Playbook `yaml:"playbooks"`
}

// LoadRegistry parses and validates the embedded playbook definitions.
// Called once at process start; the returned slice is read-only at runtime.
func LoadRegistry() ([]Playbook, error) {
	var file registryFile
	if err := yaml.Unmarshal(playbooksYAML, &file); err != nil {
		return nil, fmt.Errorf("parse playbook registry: %w", err)
	}
	if len(file.Playbooks) == 0 {
		return nil, fmt.Errorf("playbook registry is empty")
	}

	seen := make(map[string]bool, len(file.Playbooks))
	for _, playbook := range file.Playbooks {
		if err := validatePlaybook(playbook); err != nil {
			return nil, err
		}
		if seen[playbook.Slug] {
			return nil, fmt.Errorf("playbook %s: duplicate slug", playbook.Slug)
		}
		seen[playbook.Slug] = true
	}
	return file.Playbooks, nil
}

func validatePlaybook(playbook Playbook) error {
	if playbook.Slug == "" {
		return fmt.Errorf("playbook with empty slug")
	}
	if playbook.Category == "" {
		return fmt.Errorf("playbook %s: empty category", playbook.Slug)
	}
	if playbook.ImpactBaseLow < 0 || playbook.ImpactBaseHigh < playbook.ImpactBaseLow {
		return fmt.Errorf("playbook %s: invalid impact range [%v, %v]", playbook.Slug, playbook.ImpactBaseLow, playbook.ImpactBaseHigh)
	}
	if len(playbook.Triggers) == 0 {
		return fmt.Errorf("playbook %s: no triggers", playbook.Slug)
	}
	weightSum := 0.0
	for _, trigger := range playbook.Triggers {
		switch trigger.Source {
		case SourceDRS, SourceRSS, SourceBQS:
		default:
			return fmt.Errorf("playbook %s: unknown trigger source %q", playbook.Slug, trigger.Source)
		}
		if trigger.Signal == "" {
			return fmt.Errorf("playbook %s: trigger with empty signal", playbook.Slug)
		}
		if trigger.Weight < 0 {
			return fmt.Errorf("playbook %s: negative trigger weight %v", playbook.Slug, trigger.Weight)
		}
		weightSum += trigger.Weight
	}
	// Authoring convention: weights sum to at most 1 so the relevance clamp
	// stays meaningful.
	if weightSum > 1+1e-9 {
		return fmt.Errorf("playbook %s: trigger weights sum to %v", playbook.Slug, weightSum)
	}
	return nil
}
