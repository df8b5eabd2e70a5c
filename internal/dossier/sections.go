package dossier

// Section names one slice of dossier content. The set is fixed; builders own
// what goes inside each section, the core only routes and stores them.
type Section string

const (
	SectionIdentity    Section = "identity"
	SectionFinancials  Section = "financials"
	SectionAssessment  Section = "assessment"
	SectionValuation   Section = "valuation"
	SectionTasks       Section = "tasks"
	SectionEvidence    Section = "evidence"
	SectionSignals     Section = "signals"
	SectionEngagement  Section = "engagement"
	SectionAIContext   Section = "aiContext"
	SectionNAFlags     Section = "naFlags"
	SectionDisclosures Section = "disclosures"
	SectionNotes       Section = "notes"
)

// AllSections is the full build order. Keep in sync with Content's fields.
var AllSections = []Section{
	SectionIdentity,
	SectionFinancials,
	SectionAssessment,
	SectionValuation,
	SectionTasks,
	SectionEvidence,
	SectionSignals,
	SectionEngagement,
	SectionAIContext,
	SectionNAFlags,
	SectionDisclosures,
	SectionNotes,
}

// TriggerEvent is a named occurrence that invalidates a fixed set of
// sections.
type TriggerEvent string

const (
	TriggerTaskCompleted      TriggerEvent = "task.completed"
	TriggerAssessmentSaved    TriggerEvent = "assessment.response_saved"
	TriggerValuationUpdated   TriggerEvent = "valuation.updated"
	TriggerDocumentUploaded   TriggerEvent = "document.uploaded"
	TriggerEvidenceLinked     TriggerEvent = "evidence.linked"
	TriggerEngagementRecorded TriggerEvent = "engagement.recorded"
	TriggerNAFlagsChanged     TriggerEvent = "na_flags.changed"
	TriggerDisclosureUpdated  TriggerEvent = "disclosure.updated"
	TriggerNoteSaved          TriggerEvent = "note.saved"
	TriggerProfileUpdated     TriggerEvent = "company.profile_updated"
	TriggerFullRebuild        TriggerEvent = "dossier.full_rebuild"
)

// triggerSections maps each trigger to the sections it can invalidate.
var triggerSections = map[TriggerEvent][]Section{
	TriggerTaskCompleted:      {SectionTasks, SectionSignals, SectionEngagement},
	TriggerAssessmentSaved:    {SectionAssessment, SectionSignals, SectionAIContext},
	TriggerValuationUpdated:   {SectionValuation, SectionFinancials, SectionSignals},
	TriggerDocumentUploaded:   {SectionEvidence, SectionDisclosures},
	TriggerEvidenceLinked:     {SectionEvidence, SectionSignals},
	TriggerEngagementRecorded: {SectionEngagement},
	TriggerNAFlagsChanged:     {SectionNAFlags, SectionAssessment},
	TriggerDisclosureUpdated:  {SectionDisclosures},
	TriggerNoteSaved:          {SectionNotes, SectionAIContext},
	TriggerProfileUpdated:     {SectionIdentity, SectionFinancials},
	TriggerFullRebuild:        AllSections,
}

// SectionsFor resolves the sections a trigger invalidates. Unknown triggers
// return nil; the updater treats that as a full rebuild rather than dropping
// the event.
func SectionsFor(event TriggerEvent) []Section {
	return triggerSections[event]
}
