package dossier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"exitlens/api/internal/store"
	"exitlens/api/internal/util"
)

// maxAdvanceAttempts bounds the optimistic-concurrency retry loop when two
// triggers for the same company race on the chain head.
const maxAdvanceAttempts = 3

const backgroundUpdateTimeout = 30 * time.Second

type dataStore interface {
	CurrentSnapshot(ctx context.Context, companyID string) (*store.Snapshot, error)
	AdvanceChain(ctx context.Context, prev *store.Snapshot, next store.Snapshot) (store.Snapshot, error)
}

type snapshotCache interface {
	Get(ctx context.Context, companyID string) (*store.Snapshot, error)
	Put(ctx context.Context, snapshot store.Snapshot) error
}

type snapshotIndexer interface {
	IndexSnapshot(snapshot store.Snapshot)
}

// Service orchestrates dossier rebuilds: full on first trigger, incremental
// afterwards, deduplicated by content hash.
type Service struct {
	store   dataStore
	builder Builder
	cache   snapshotCache
	index   snapshotIndexer
}

// New creates the updater. cache and index may be nil; both are best-effort
// side channels, never load-bearing for correctness.
func New(snapshots *store.SnapshotStore, builder Builder, cache snapshotCache, index snapshotIndexer) *Service {
	return &Service{
		store:   snapshots,
		builder: builder,
		cache:   cache,
		index:   index,
	}
}

// Update recomputes the sections the trigger invalidates, merges them over
// the current snapshot, and advances the version chain unless nothing
// changed. The returned snapshot is the chain head after the call.
func (s *Service) Update(ctx context.Context, companyID string, trigger TriggerEvent, source string) (*store.Snapshot, error) {
	var lastErr error
	for attempt := 0; attempt < maxAdvanceAttempts; attempt++ {
		current, err := s.store.CurrentSnapshot(ctx, companyID)
		if err != nil {
			return nil, err
		}

		content, buildType, rebuilt, err := s.assemble(ctx, companyID, trigger, current)
		if err != nil {
			return nil, err
		}

		hash, err := ContentHash(content)
		if err != nil {
			return nil, err
		}
		if current != nil && hash == current.ContentHash {
			// No semantic change; the chain never advances on a no-op.
			return current, nil
		}

		raw, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("marshal dossier content: %w", err)
		}

		next := store.Snapshot{
			ID:            util.NewID("dos"),
			CompanyID:     companyID,
			Version:       1,
			Content:       raw,
			ContentHash:   hash,
			BuildType:     buildType,
			TriggerEvent:  string(trigger),
			TriggerSource: source,
			Sections:      sectionNames(rebuilt),
		}
		if current != nil {
			next.Version = current.Version + 1
			previousID := current.ID
			next.PreviousID = &previousID
		}

		saved, err := s.store.AdvanceChain(ctx, current, next)
		if errors.Is(err, store.ErrChainConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}

		s.afterAdvance(ctx, saved)
		return &saved, nil
	}
	return nil, fmt.Errorf("update dossier for %s after %d attempts: %w", companyID, maxAdvanceAttempts, lastErr)
}

// assemble resolves what to rebuild and produces the merged content. Any
// builder failure aborts the update; a snapshot is never assembled from a
// partial build.
func (s *Service) assemble(ctx context.Context, companyID string, trigger TriggerEvent, current *store.Snapshot) (Content, string, []Section, error) {
	if current == nil {
		content, err := s.builder.BuildAll(ctx, companyID)
		if err != nil {
			return Content{}, "", nil, err
		}
		return content, store.BuildFull, AllSections, nil
	}

	names := SectionsFor(trigger)
	if names == nil {
		// Unknown trigger: rebuild everything rather than guessing which
		// sections it touches.
		content, err := s.builder.BuildAll(ctx, companyID)
		if err != nil {
			return Content{}, "", nil, err
		}
		return content, store.BuildIncremental, AllSections, nil
	}

	partial, err := s.builder.Build(ctx, companyID, names)
	if err != nil {
		return Content{}, "", nil, err
	}
	content, err := ParseContent(current.Content)
	if err != nil {
		return Content{}, "", nil, err
	}
	if err := content.Merge(partial); err != nil {
		return Content{}, "", nil, err
	}
	return content, store.BuildIncremental, names, nil
}

// Current returns the head snapshot, consulting the read-through cache
// first. Absence is a normal nil, nil outcome.
func (s *Service) Current(ctx context.Context, companyID string) (*store.Snapshot, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, companyID)
		if err != nil {
			log.Printf("dossier: cache read for %s: %v", companyID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	current, err := s.store.CurrentSnapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if current != nil && s.cache != nil {
		if err := s.cache.Put(ctx, *current); err != nil {
			log.Printf("dossier: cache fill for %s: %v", companyID, err)
		}
	}
	return current, nil
}

// TriggerUpdate runs Update off the caller's control flow. This is the only
// place in the core where an error is swallowed: cache maintenance must
// never fail the operation that triggered it.
func (s *Service) TriggerUpdate(companyID string, trigger TriggerEvent, source string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundUpdateTimeout)
		defer cancel()
		if _, err := s.Update(ctx, companyID, trigger, source); err != nil {
			log.Printf("dossier: background update for %s (%s): %v", companyID, trigger, err)
		}
	}()
}

func (s *Service) afterAdvance(ctx context.Context, saved store.Snapshot) {
	if s.cache != nil {
		if err := s.cache.Put(ctx, saved); err != nil {
			log.Printf("dossier: cache refresh for %s: %v", saved.CompanyID, err)
		}
	}
	if s.index != nil {
		s.index.IndexSnapshot(saved)
	}
}

func sectionNames(sections []Section) []string {
	names := make([]string, len(sections))
	for i, section := range sections {
		names[i] = string(section)
	}
	return names
}
