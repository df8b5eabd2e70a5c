package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"exitlens/api/internal/store"
)

func TestSnapshotRecordFlattensStringValues(t *testing.T) {
	created := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	snapshot := store.Snapshot{
		ID:           "dos_1",
		CompanyID:    "co_42",
		Version:      7,
		BuildType:    store.BuildIncremental,
		TriggerEvent: "task.completed",
		CreatedAt:    created,
		Content: json.RawMessage(`{
			"identity": {"name": "Acme Industrial", "employees": 54},
			"tasks": {"items": [{"title": "Clean up cap table"}]},
			"notes": {"text": "  "}
		}`),
	}

	record := SnapshotRecord(snapshot)

	if record.ID != "co_42" || record.CompanyID != "co_42" {
		t.Errorf("record keyed by %s, want the company id", record.ID)
	}
	if record.Version != 7 || record.BuildType != store.BuildIncremental {
		t.Errorf("metadata = %+v", record)
	}
	if record.UpdatedAt != created.Unix() {
		t.Errorf("updatedAt = %d", record.UpdatedAt)
	}
	if !strings.Contains(record.Text, "Acme Industrial") {
		t.Errorf("text missing identity name: %q", record.Text)
	}
	if !strings.Contains(record.Text, "Clean up cap table") {
		t.Errorf("text missing nested task title: %q", record.Text)
	}
	if strings.Contains(record.Text, "54") {
		t.Errorf("numbers must not be indexed: %q", record.Text)
	}
	if strings.Contains(record.Text, "  ") {
		t.Errorf("blank strings must be dropped: %q", record.Text)
	}
}

// The index is configured against these document keys; a drift here breaks
// upserts silently.
func TestRecordDocumentKeys(t *testing.T) {
	raw, err := json.Marshal(Record{ID: "co_1", CompanyID: "co_1"})
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	for _, key := range []string{"id", "companyId", "version", "buildType", "triggerEvent", "text", "updatedAt"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("record document missing key %q", key)
		}
	}
}

func TestSnapshotRecordCapsText(t *testing.T) {
	long := strings.Repeat("a", maxRecordText*2)
	raw, err := json.Marshal(map[string]any{"notes": map[string]any{"text": long}})
	if err != nil {
		t.Fatal(err)
	}
	record := SnapshotRecord(store.Snapshot{Content: raw})
	if len(record.Text) != maxRecordText {
		t.Errorf("text length = %d, want capped at %d", len(record.Text), maxRecordText)
	}
}

func TestSnapshotRecordInvalidContent(t *testing.T) {
	record := SnapshotRecord(store.Snapshot{Content: json.RawMessage(`{broken`)})
	if record.Text != "" {
		t.Errorf("text = %q, want empty for unreadable content", record.Text)
	}
}

type fakeSummaryStore struct {
	searchFn func(context.Context, string, int) ([]store.SnapshotSummary, error)
	listFn   func(context.Context) ([]store.Snapshot, error)
}

func (f *fakeSummaryStore) SearchSummaries(ctx context.Context, query string, limit int) ([]store.SnapshotSummary, error) {
	return f.searchFn(ctx, query, limit)
}

func (f *fakeSummaryStore) ListCurrentSnapshots(ctx context.Context) ([]store.Snapshot, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, errors.New("unexpected list")
}

func TestServiceFallsBackToPostgres(t *testing.T) {
	created := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	snapshots := &fakeSummaryStore{
		searchFn: func(_ context.Context, query string, limit int) ([]store.SnapshotSummary, error) {
			if query != "acme" || limit != 5 {
				t.Errorf("fallback got query=%q limit=%d", query, limit)
			}
			return []store.SnapshotSummary{
				{CompanyID: "co_42", Version: 7, BuildType: store.BuildFull, TriggerEvent: "dossier.full_rebuild", CreatedAt: created},
			}, nil
		},
	}
	service := NewService(nil, snapshots)

	response := service.Search(context.Background(), Query{Text: "acme", Limit: 5})

	if response.Total != 1 || len(response.Results) != 1 {
		t.Fatalf("response = %+v", response)
	}
	result := response.Results[0]
	if result.CompanyID != "co_42" || result.Version != 7 || !result.UpdatedAt.Equal(created) {
		t.Errorf("result = %+v", result)
	}
	if response.Query != "acme" {
		t.Errorf("query echo = %q", response.Query)
	}
}

func TestServiceFallbackErrorYieldsEmptyResponse(t *testing.T) {
	snapshots := &fakeSummaryStore{
		searchFn: func(context.Context, string, int) ([]store.SnapshotSummary, error) {
			return nil, errors.New("db down")
		},
	}
	service := NewService(nil, snapshots)

	response := service.Search(context.Background(), Query{Text: "acme", Limit: 5})
	if response.Results == nil {
		t.Error("results must be an empty slice, not nil")
	}
	if len(response.Results) != 0 || response.Total != 0 {
		t.Errorf("response = %+v, want empty", response)
	}
}

func TestServiceIndexSnapshotWithoutMeiliIsNoop(t *testing.T) {
	service := NewService(nil, &fakeSummaryStore{})
	// Must not panic or touch the store.
	service.IndexSnapshot(store.Snapshot{CompanyID: "co_1"})
}

func TestServiceReindexAllWithoutMeiliIsNoop(t *testing.T) {
	service := NewService(nil, &fakeSummaryStore{})
	if err := service.ReindexAll(context.Background()); err != nil {
		t.Errorf("reindex without meilisearch should be a no-op, got %v", err)
	}
}
