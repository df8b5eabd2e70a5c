package search

import (
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxDossiers = "exitlens_dossiers"

// Meili pushes dossier records into Meilisearch. Health is polled in the
// background; an unhealthy instance is skipped, not retried inline.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the dossier index.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxDossiers,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("search: create index %s (may already exist): %v", idxDossiers, err)
	}

	index := m.client.Index(idxDossiers)
	filterable := []interface{}{"buildType", "triggerEvent"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("search: update filterable attrs for %s: %v", idxDossiers, err)
	}
	searchable := []string{"companyId", "text"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("search: update searchable attrs for %s: %v", idxDossiers, err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Healthy reports the last observed health state.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// IndexRecord upserts one dossier record.
func (m *Meili) IndexRecord(record Record) error {
	if _, err := m.client.Index(idxDossiers).AddDocuments([]Record{record}, nil); err != nil {
		return fmt.Errorf("index dossier %s: %w", record.CompanyID, err)
	}
	return nil
}

// IndexRecords upserts a batch of dossier records.
func (m *Meili) IndexRecords(records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := m.client.Index(idxDossiers).AddDocuments(records, nil); err != nil {
		return fmt.Errorf("index %d dossiers: %w", len(records), err)
	}
	return nil
}

// Search queries the dossier index.
func (m *Meili) Search(q Query) ([]Result, int64, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	resp, err := m.client.Index(idxDossiers).Search(q.Text, &meili.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch search: %w", err)
	}

	results := make([]Result, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		results = append(results, Result{
			CompanyID:    decodeString(hit, "companyId"),
			Version:      int(decodeInt64(hit, "version")),
			BuildType:    decodeString(hit, "buildType"),
			TriggerEvent: decodeString(hit, "triggerEvent"),
			UpdatedAt:    time.Unix(decodeInt64(hit, "updatedAt"), 0).UTC(),
		})
	}
	return results, resp.EstimatedTotalHits, nil
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func decodeInt64(hit meili.Hit, key string) int64 {
	raw, ok := hit[key]
	if !ok {
		return 0
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return 0
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}
