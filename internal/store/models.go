package store

import (
	"encoding/json"
	"time"
)

const (
	BuildFull        = "FULL"
	BuildIncremental = "INCREMENTAL"
)

// Snapshot is one immutable version of a company's dossier. Rows are only
// ever appended; the single mutation permitted after insert is flipping the
// old head's IsCurrent to false when a new head supersedes it.
type Snapshot struct {
	ID            string
	CompanyID     string
	Version       int
	Content       json.RawMessage
	ContentHash   string
	BuildType     string
	TriggerEvent  string
	TriggerSource string
	Sections      []string
	PreviousID    *string
	IsCurrent     bool
	CreatedAt     time.Time
}

// SnapshotSummary is the lightweight projection used by search and the
// history listing.
type SnapshotSummary struct {
	ID           string
	CompanyID    string
	Version      int
	ContentHash  string
	BuildType    string
	TriggerEvent string
	CreatedAt    time.Time
}
