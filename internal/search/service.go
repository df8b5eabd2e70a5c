package search

import (
	"context"
	"log"

	"exitlens/api/internal/store"
)

type summaryStore interface {
	SearchSummaries(ctx context.Context, query string, limit int) ([]store.SnapshotSummary, error)
	ListCurrentSnapshots(ctx context.Context) ([]store.Snapshot, error)
}

// Service is the facade that tries Meilisearch first and falls back to the
// Postgres content scan.
type Service struct {
	meili     *Meili
	snapshots summaryStore
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured.
func NewService(meili *Meili, snapshots summaryStore) *Service {
	return &Service{meili: meili, snapshots: snapshots}
}

// Search tries Meilisearch if healthy, otherwise falls back to Postgres.
func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to postgres: %v", err)
	}

	summaries, err := s.snapshots.SearchSummaries(ctx, q.Text, q.Limit)
	if err != nil {
		log.Printf("search: postgres fallback error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	results := make([]Result, 0, len(summaries))
	for _, summary := range summaries {
		results = append(results, Result{
			CompanyID:    summary.CompanyID,
			Version:      summary.Version,
			BuildType:    summary.BuildType,
			TriggerEvent: summary.TriggerEvent,
			UpdatedAt:    summary.CreatedAt,
		})
	}
	return Response{Results: results, Total: int64(len(results)), Query: q.Text}
}

// IndexSnapshot pushes a new head snapshot into the index
// (fire-and-forget to Meilisearch).
func (s *Service) IndexSnapshot(snapshot store.Snapshot) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexRecord(SnapshotRecord(snapshot)); err != nil {
			log.Printf("search: index dossier %s: %v", snapshot.CompanyID, err)
		}
	}()
}

// ReindexAll reads every company's head snapshot from Postgres and pushes
// the batch into Meilisearch.
func (s *Service) ReindexAll(ctx context.Context) error {
	if s.meili == nil || !s.meili.Healthy() {
		return nil
	}
	snapshots, err := s.snapshots.ListCurrentSnapshots(ctx)
	if err != nil {
		return err
	}
	records := make([]Record, 0, len(snapshots))
	for _, snapshot := range snapshots {
		records = append(records, SnapshotRecord(snapshot))
	}
	return s.meili.IndexRecords(records)
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
