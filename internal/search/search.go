// Package search indexes the head dossier snapshot of each company so
// internal tooling can find companies by dossier content. Meilisearch is
// preferred when configured; Postgres is the fallback.
package search

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"exitlens/api/internal/store"
)

// Record is one company's entry in the dossier index. ID is the company ID;
// a new snapshot version overwrites the previous entry.
type Record struct {
	ID           string `json:"id"`
	CompanyID    string `json:"companyId"`
	Version      int    `json:"version"`
	BuildType    string `json:"buildType"`
	TriggerEvent string `json:"triggerEvent"`
	Text         string `json:"text"`
	UpdatedAt    int64  `json:"updatedAt"`
}

type Query struct {
	Text  string
	Limit int
}

type Result struct {
	CompanyID    string    `json:"companyId"`
	Version      int       `json:"version"`
	BuildType    string    `json:"buildType"`
	TriggerEvent string    `json:"triggerEvent"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Response struct {
	Results []Result `json:"results"`
	Total   int64    `json:"total"`
	Query   string   `json:"query"`
}

// maxRecordText caps how much flattened content goes into the index.
const maxRecordText = 8192

// SnapshotRecord flattens a snapshot into an index record. Only string
// values from the content blobs are kept; structure and numbers are not
// searchable.
func SnapshotRecord(snapshot store.Snapshot) Record {
	return Record{
		ID:           snapshot.CompanyID,
		CompanyID:    snapshot.CompanyID,
		Version:      snapshot.Version,
		BuildType:    snapshot.BuildType,
		TriggerEvent: snapshot.TriggerEvent,
		Text:         flattenText(snapshot.Content),
		UpdatedAt:    snapshot.CreatedAt.Unix(),
	}
}

func flattenText(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	var value any
	if err := dec.Decode(&value); err != nil {
		return ""
	}
	var parts []string
	collectStrings(value, &parts)
	text := strings.Join(parts, " ")
	if len(text) > maxRecordText {
		text = text[:maxRecordText]
	}
	return text
}

func collectStrings(value any, parts *[]string) {
	switch v := value.(type) {
	case map[string]any:
		for _, item := range v {
			collectStrings(item, parts)
		}
	case []any:
		for _, item := range v {
			collectStrings(item, parts)
		}
	case string:
		if strings.TrimSpace(v) != "" {
			*parts = append(*parts, v)
		}
	}
}
