package dossier

import (
	"encoding/json"
	"fmt"
)

// Content is the dossier body: one opaque JSON blob per named section.
// The struct replaces the loose section-name-keyed object the builders
// trade in, so a merge is an explicit per-field replace instead of a
// dynamic spread.
type Content struct {
	Identity    json.RawMessage `json:"identity,omitempty"`
	Financials  json.RawMessage `json:"financials,omitempty"`
	Assessment  json.RawMessage `json:"assessment,omitempty"`
	Valuation   json.RawMessage `json:"valuation,omitempty"`
	Tasks       json.RawMessage `json:"tasks,omitempty"`
	Evidence    json.RawMessage `json:"evidence,omitempty"`
	Signals     json.RawMessage `json:"signals,omitempty"`
	Engagement  json.RawMessage `json:"engagement,omitempty"`
	AIContext   json.RawMessage `json:"aiContext,omitempty"`
	NAFlags     json.RawMessage `json:"naFlags,omitempty"`
	Disclosures json.RawMessage `json:"disclosures,omitempty"`
	Notes       json.RawMessage `json:"notes,omitempty"`
}

// ParseContent decodes a stored snapshot body.
func ParseContent(raw json.RawMessage) (Content, error) {
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return Content{}, fmt.Errorf("parse dossier content: %w", err)
	}
	return c, nil
}

// Section returns the blob for a named section, nil when absent.
func (c *Content) Section(name Section) json.RawMessage {
	switch name {
	case SectionIdentity:
		return c.Identity
	case SectionFinancials:
		return c.Financials
	case SectionAssessment:
		return c.Assessment
	case SectionValuation:
		return c.Valuation
	case SectionTasks:
		return c.Tasks
	case SectionEvidence:
		return c.Evidence
	case SectionSignals:
		return c.Signals
	case SectionEngagement:
		return c.Engagement
	case SectionAIContext:
		return c.AIContext
	case SectionNAFlags:
		return c.NAFlags
	case SectionDisclosures:
		return c.Disclosures
	case SectionNotes:
		return c.Notes
	}
	return nil
}

// SetSection replaces the blob for a named section. Unknown names error so
// a misconfigured builder cannot silently drop output.
func (c *Content) SetSection(name Section, raw json.RawMessage) error {
	switch name {
	case SectionIdentity:
		c.Identity = raw
	case SectionFinancials:
		c.Financials = raw
	case SectionAssessment:
		c.Assessment = raw
	case SectionValuation:
		c.Valuation = raw
	case SectionTasks:
		c.Tasks = raw
	case SectionEvidence:
		c.Evidence = raw
	case SectionSignals:
		c.Signals = raw
	case SectionEngagement:
		c.Engagement = raw
	case SectionAIContext:
		c.AIContext = raw
	case SectionNAFlags:
		c.NAFlags = raw
	case SectionDisclosures:
		c.Disclosures = raw
	case SectionNotes:
		c.Notes = raw
	default:
		return fmt.Errorf("unknown dossier section %q", name)
	}
	return nil
}

// Merge lays the rebuilt sections over the receiver. Sections absent from
// partial are kept as-is.
func (c *Content) Merge(partial map[Section]json.RawMessage) error {
	for name, raw := range partial {
		if err := c.SetSection(name, raw); err != nil {
			return err
		}
	}
	return nil
}
