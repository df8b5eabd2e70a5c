package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrChainConflict is returned by AdvanceChain when the head of a company's
// version chain moved between the caller's read and the write. Callers are
// expected to re-read the head and retry.
var ErrChainConflict = errors.New("dossier chain conflict")

type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) DB() *sql.DB {
	return s.db
}

const snapshotColumns = `id, company_id, version, content, content_hash, build_type, trigger_event, COALESCE(trigger_source, ''), sections, previous_id, is_current, created_at`

func scanSnapshot(row interface{ Scan(...any) error }) (Snapshot, error) {
	var item Snapshot
	var content, sections []byte
	err := row.Scan(
		&item.ID,
		&item.CompanyID,
		&item.Version,
		&content,
		&item.ContentHash,
		&item.BuildType,
		&item.TriggerEvent,
		&item.TriggerSource,
		&sections,
		&item.PreviousID,
		&item.IsCurrent,
		&item.CreatedAt,
	)
	if err != nil {
		return Snapshot{}, err
	}
	item.Content = json.RawMessage(content)
	if err := json.Unmarshal(sections, &item.Sections); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot sections: %w", err)
	}
	return item, nil
}

// CurrentSnapshot returns the head of the company's chain, or nil when the
// company has never been built.
func (s *SnapshotStore) CurrentSnapshot(ctx context.Context, companyID string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM dossier_snapshots
		WHERE company_id=$1 AND is_current
	`, companyID)
	item, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current snapshot: %w", err)
	}
	return &item, nil
}

func (s *SnapshotStore) GetSnapshot(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM dossier_snapshots
		WHERE id=$1
	`, id)
	item, err := scanSnapshot(row)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return item, nil
}

// AdvanceChain supersedes prev with next inside a single transaction. The
// flip of the old head is conditioned on it still being current; if the
// condition fails, or the (company_id, version) slot is already taken, the
// chain moved under us and ErrChainConflict is returned.
func (s *SnapshotStore) AdvanceChain(ctx context.Context, prev *Snapshot, next Snapshot) (Snapshot, error) {
	sections := next.Sections
	if sections == nil {
		sections = []string{}
	}
	encodedSections, err := json.Marshal(sections)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal snapshot sections: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin advance tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if prev != nil {
		result, err := tx.ExecContext(ctx, `
			UPDATE dossier_snapshots
			SET is_current=FALSE
			WHERE id=$1 AND is_current
		`, prev.ID)
		if err != nil {
			return Snapshot{}, fmt.Errorf("retire snapshot head: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return Snapshot{}, fmt.Errorf("retire snapshot head rows: %w", err)
		}
		if affected != 1 {
			return Snapshot{}, ErrChainConflict
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO dossier_snapshots (id, company_id, version, content, content_hash, build_type, trigger_event, trigger_source, sections, previous_id, is_current)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, $9::jsonb, $10, TRUE)
		RETURNING created_at
	`,
		next.ID,
		next.CompanyID,
		next.Version,
		string(next.Content),
		next.ContentHash,
		next.BuildType,
		next.TriggerEvent,
		next.TriggerSource,
		string(encodedSections),
		next.PreviousID,
	).Scan(&next.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Snapshot{}, ErrChainConflict
		}
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit advance tx: %w", err)
	}
	next.IsCurrent = true
	next.Sections = sections
	return next, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SnapshotHistory lists the company's versions newest first.
func (s *SnapshotStore) SnapshotHistory(ctx context.Context, companyID string, limit int) ([]SnapshotSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, version, content_hash, build_type, trigger_event, created_at
		FROM dossier_snapshots
		WHERE company_id=$1
		ORDER BY version DESC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("snapshot history: %w", err)
	}
	defer rows.Close()

	items := make([]SnapshotSummary, 0)
	for rows.Next() {
		var item SnapshotSummary
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.Version, &item.ContentHash, &item.BuildType, &item.TriggerEvent, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot summary: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot history: %w", err)
	}
	return items, nil
}

// ListCurrentSnapshots returns every company's head, used by the search
// reindexer.
func (s *SnapshotStore) ListCurrentSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM dossier_snapshots
		WHERE is_current
		ORDER BY company_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list current snapshots: %w", err)
	}
	defer rows.Close()

	items := make([]Snapshot, 0)
	for rows.Next() {
		item, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan current snapshot: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate current snapshots: %w", err)
	}
	return items, nil
}

// SearchSummaries is the Postgres fallback for dossier search: a plain
// substring match over the head snapshots' content.
func (s *SnapshotStore) SearchSummaries(ctx context.Context, query string, limit int) ([]SnapshotSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, version, content_hash, build_type, trigger_event, created_at
		FROM dossier_snapshots
		WHERE is_current
		  AND (company_id ILIKE '%' || $1 || '%' OR content::text ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search snapshots: %w", err)
	}
	defer rows.Close()

	items := make([]SnapshotSummary, 0)
	for rows.Next() {
		var item SnapshotSummary
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.Version, &item.ContentHash, &item.BuildType, &item.TriggerEvent, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan search summary: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search summaries: %w", err)
	}
	return items, nil
}

// VerifyChain walks a company's full chain oldest first and checks the
// structural invariants: exactly one head, versions contiguous from 1,
// previous_id linking each row to its predecessor, and no two consecutive
// rows sharing a content hash.
func (s *SnapshotStore) VerifyChain(ctx context.Context, companyID string) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version, content_hash, previous_id, is_current
		FROM dossier_snapshots
		WHERE company_id=$1
		ORDER BY version ASC
	`, companyID)
	if err != nil {
		return fmt.Errorf("verify chain: %w", err)
	}
	defer rows.Close()

	var (
		prevID   string
		prevHash string
		count    int
		heads    int
	)
	for rows.Next() {
		var id, hash string
		var version int
		var previousID *string
		var isCurrent bool
		if err := rows.Scan(&id, &version, &hash, &previousID, &isCurrent); err != nil {
			return fmt.Errorf("scan chain row: %w", err)
		}
		count++
		if version != count {
			return fmt.Errorf("chain %s: version %d at position %d", companyID, version, count)
		}
		if count == 1 {
			if previousID != nil {
				return fmt.Errorf("chain %s: first version has previous_id", companyID)
			}
		} else {
			if previousID == nil || *previousID != prevID {
				return fmt.Errorf("chain %s: version %d not linked to its predecessor", companyID, version)
			}
			if hash == prevHash {
				return fmt.Errorf("chain %s: versions %d and %d share content hash", companyID, version-1, version)
			}
		}
		if isCurrent {
			heads++
		}
		prevID, prevHash = id, hash
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate chain: %w", err)
	}
	if count > 0 && heads != 1 {
		return fmt.Errorf("chain %s: %d current rows", companyID, heads)
	}
	return nil
}

// Ping verifies the database connection is alive
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
