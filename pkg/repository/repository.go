package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/tsuzuri/pkg/model"
)

// ListOptions controls keyset listing of entries. After is exclusive: the
// page starts strictly past that key in the requested order.
type ListOptions struct {
	After       *model.PageKey
	Query       string
	StarredOnly bool
	Order       model.SortOrder
	Limit       int
}

// Repository defines the interface for journal entry persistence.
//
// The three embedding writes (UpdateEmbedding, MarkEmbeddingFailed,
// ResetEmbeddingStatus) are field-scoped: they never touch user-edited
// fields, and UpdateEntry never touches embedding fields. That separation is
// what makes the lack of locking safe.
type Repository interface {
	// PutEntry saves a new entry
	PutEntry(ctx context.Context, entry *model.Entry) error

	// GetEntry retrieves an entry by ID
	GetEntry(ctx context.Context, id model.EntryID) (*model.Entry, error)

	// GetEntries retrieves entries by ID in one batch. Result order is
	// unspecified and missing IDs are silently skipped.
	GetEntries(ctx context.Context, ids []model.EntryID) ([]*model.Entry, error)

	// UpdateEntry updates the user-edited fields of an existing entry
	UpdateEntry(ctx context.Context, entry *model.Entry) error

	// DeleteEntry removes an entry
	DeleteEntry(ctx context.Context, id model.EntryID) error

	// SetStarred toggles the starred flag
	SetStarred(ctx context.Context, id model.EntryID, starred bool) error

	// UpdateEmbedding records a successful enrichment: vector stored, status
	// complete, error cleared
	UpdateEmbedding(ctx context.Context, id model.EntryID, vec firestore.Vector32) error

	// MarkEmbeddingFailed records a failed enrichment with its message
	MarkEmbeddingFailed(ctx context.Context, id model.EntryID, message string) error

	// ResetEmbeddingStatus puts an entry back to pending
	ResetEmbeddingStatus(ctx context.Context, id model.EntryID) error

	// ListPendingEmbeddings returns all entries with status pending or failed
	ListPendingEmbeddings(ctx context.Context) ([]*model.Entry, error)

	// ListEntries returns one keyset page of entries
	ListEntries(ctx context.Context, opts ListOptions) ([]*model.Entry, error)

	// SearchSimilarEntries performs nearest-neighbor search and returns up to
	// limit (id, similarity) pairs in descending similarity
	SearchSimilarEntries(ctx context.Context, vec []float32, limit int) ([]*model.EntryMatch, error)
}

// matchQuery reports whether an entry matches a case-insensitive substring
// query against title or body. An empty query matches everything.
func matchQuery(entry *model.Entry, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(entry.Title), q) ||
		strings.Contains(strings.ToLower(entry.Body), q)
}

// afterKey reports whether an entry sorts strictly past the given keyset
// position in the requested order.
func afterKey(entry *model.Entry, key *model.PageKey, order model.SortOrder) bool {
	if key == nil {
		return true
	}
	if order == model.SortAsc {
		return entry.EventDate > key.EventDate ||
			(entry.EventDate == key.EventDate && string(entry.ID) > string(key.ID))
	}
	return entry.EventDate < key.EventDate ||
		(entry.EventDate == key.EventDate && string(entry.ID) < string(key.ID))
}

// keyLess orders two entries by (event_date, id) for the given direction.
func keyLess(a, b *model.Entry, order model.SortOrder) bool {
	if order == model.SortAsc {
		if a.EventDate != b.EventDate {
			return a.EventDate < b.EventDate
		}
		return string(a.ID) < string(b.ID)
	}
	if a.EventDate != b.EventDate {
		return a.EventDate > b.EventDate
	}
	return string(a.ID) > string(b.ID)
}
