package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
)

// Memory implements Repository in process memory. It backs unit tests and
// local experiments, and mirrors the Firestore contract exactly: batch gets
// come back in storage order, not request order.
type Memory struct {
	mu      sync.RWMutex
	entries map[model.EntryID]*model.Entry
}

// NewMemory creates a new in-memory repository
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[model.EntryID]*model.Entry),
	}
}

func clone(entry *model.Entry) *model.Entry {
	copied := *entry
	copied.Tags = append([]string(nil), entry.Tags...)
	copied.Embedding = append(firestore.Vector32(nil), entry.Embedding...)
	return &copied
}

func (r *Memory) PutEntry(ctx context.Context, entry *model.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := clone(entry)
	now := time.Now()
	saved.CreatedAt = now
	saved.UpdatedAt = now
	r.entries[entry.ID] = saved
	return nil
}

func (r *Memory) GetEntry(ctx context.Context, id model.EntryID) (*model.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrEntryNotFound, "no such entry", goerr.V("id", id))
	}
	return clone(entry), nil
}

func (r *Memory) GetEntries(ctx context.Context, ids []model.EntryID) ([]*model.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[model.EntryID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	// Map iteration order is deliberate: the batch fetch contract does not
	// preserve request order, and callers must not rely on it.
	var entries []*model.Entry
	for id, entry := range r.entries {
		if wanted[id] {
			entries = append(entries, clone(entry))
		}
	}
	return entries, nil
}

func (r *Memory) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.entries[entry.ID]
	if !ok {
		return goerr.Wrap(model.ErrEntryNotFound, "no such entry", goerr.V("id", entry.ID))
	}

	current.Title = entry.Title
	current.Body = entry.Body
	current.EventDate = entry.EventDate
	current.Tags = append([]string(nil), entry.Tags...)
	current.Category = entry.Category
	current.UpdatedAt = time.Now()
	return nil
}

func (r *Memory) DeleteEntry(ctx context.Context, id model.EntryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
	return nil
}

func (r *Memory) SetStarred(ctx context.Context, id model.EntryID, starred bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return goerr.Wrap(model.ErrEntryNotFound, "no such entry", goerr.V("id", id))
	}
	entry.Starred = starred
	entry.UpdatedAt = time.Now()
	return nil
}

func (r *Memory) UpdateEmbedding(ctx context.Context, id model.EntryID, vec firestore.Vector32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return goerr.Wrap(model.ErrPersistence, "failed to store embedding", goerr.V("id", id))
	}
	entry.Embedding = append(firestore.Vector32(nil), vec...)
	entry.EmbeddingStatus = model.EmbeddingComplete
	entry.EmbeddingError = ""
	entry.UpdatedAt = time.Now()
	return nil
}

func (r *Memory) MarkEmbeddingFailed(ctx context.Context, id model.EntryID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return goerr.Wrap(model.ErrPersistence, "failed to record embedding failure", goerr.V("id", id))
	}
	entry.EmbeddingStatus = model.EmbeddingFailed
	entry.EmbeddingError = message
	entry.UpdatedAt = time.Now()
	return nil
}

func (r *Memory) ResetEmbeddingStatus(ctx context.Context, id model.EntryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return goerr.Wrap(model.ErrPersistence, "failed to reset embedding status", goerr.V("id", id))
	}
	entry.EmbeddingStatus = model.EmbeddingPending
	entry.EmbeddingError = ""
	entry.UpdatedAt = time.Now()
	return nil
}

func (r *Memory) ListPendingEmbeddings(ctx context.Context) ([]*model.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*model.Entry
	for _, entry := range r.entries {
		if entry.EmbeddingStatus == model.EmbeddingPending || entry.EmbeddingStatus == model.EmbeddingFailed {
			entries = append(entries, clone(entry))
		}
	}

	// Stable order keeps sweep logs and tests deterministic.
	sort.Slice(entries, func(i, j int) bool {
		return keyLess(entries[i], entries[j], model.SortAsc)
	})
	return entries, nil
}

func (r *Memory) ListEntries(ctx context.Context, opts ListOptions) ([]*model.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*model.Entry
	for _, entry := range r.entries {
		if opts.StarredOnly && !entry.Starred {
			continue
		}
		if !matchQuery(entry, opts.Query) {
			continue
		}
		if !afterKey(entry, opts.After, opts.Order) {
			continue
		}
		entries = append(entries, clone(entry))
	}

	sort.Slice(entries, func(i, j int) bool {
		return keyLess(entries[i], entries[j], opts.Order)
	})

	if len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries, nil
}

func (r *Memory) SearchSimilarEntries(ctx context.Context, vec []float32, limit int) ([]*model.EntryMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*model.EntryMatch
	for _, entry := range r.entries {
		if len(entry.Embedding) == 0 {
			continue
		}
		matches = append(matches, &model.EntryMatch{
			ID:         entry.ID,
			Similarity: cosineSimilarity(vec, entry.Embedding),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
