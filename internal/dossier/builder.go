package dossier

import (
	"context"
	"encoding/json"
)

// Builder is the contract with the section builders that live in the app
// tier. The core never looks inside the blobs it gets back.
type Builder interface {
	// BuildAll computes every section for a full rebuild.
	BuildAll(ctx context.Context, companyID string) (Content, error)
	// Build computes only the named sections. The returned map may be a
	// subset of names if a section legitimately has no content, but any
	// error must abort the whole update.
	Build(ctx context.Context, companyID string, names []Section) (map[Section]json.RawMessage, error)
}
