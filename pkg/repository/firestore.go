package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	entryCollection = "entries"

	// distanceField is where FindNearest writes the cosine distance of each
	// candidate. Similarity reported to callers is 1 - distance.
	distanceField = "vector_distance"
)

// Firestore implements Repository using Firestore, including its native
// vector search for nearest-neighbor queries.
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) entries() *firestore.CollectionRef {
	return r.client.Collection(entryCollection)
}

func (r *Firestore) PutEntry(ctx context.Context, entry *model.Entry) error {
	if _, err := r.entries().Doc(string(entry.ID)).Set(ctx, entry); err != nil {
		return goerr.Wrap(model.ErrPersistence, "failed to save entry",
			goerr.V("id", entry.ID), goerr.V("cause", err.Error()))
	}
	return nil
}

func (r *Firestore) GetEntry(ctx context.Context, id model.EntryID) (*model.Entry, error) {
	doc, err := r.entries().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrEntryNotFound, "no such entry", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get entry", goerr.V("id", id))
	}

	var entry model.Entry
	if err := doc.DataTo(&entry); err != nil {
		return nil, goerr.Wrap(err, "failed to decode entry", goerr.V("id", id))
	}

	return &entry, nil
}

func (r *Firestore) GetEntries(ctx context.Context, ids []model.EntryID) ([]*model.Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = r.entries().Doc(string(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to batch get entries")
	}

	entries := make([]*model.Entry, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var entry model.Entry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode entry", goerr.V("id", doc.Ref.ID))
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

func (r *Firestore) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	// Field-scoped on purpose: never touches the embedding columns.
	updates := []firestore.Update{
		{Path: "title", Value: entry.Title},
		{Path: "body", Value: entry.Body},
		{Path: "event_date", Value: entry.EventDate},
		{Path: "tags", Value: entry.Tags},
		{Path: "category", Value: entry.Category},
		{Path: "updated_at", Value: firestore.ServerTimestamp},
	}
	if _, err := r.entries().Doc(string(entry.ID)).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrEntryNotFound, "no such entry", goerr.V("id", entry.ID))
		}
		return goerr.Wrap(model.ErrPersistence, "failed to update entry",
			goerr.V("id", entry.ID), goerr.V("cause", err.Error()))
	}
	return nil
}

func (r *Firestore) DeleteEntry(ctx context.Context, id model.EntryID) error {
	if _, err := r.entries().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(model.ErrPersistence, "failed to delete entry",
			goerr.V("id", id), goerr.V("cause", err.Error()))
	}
	return nil
}

func (r *Firestore) SetStarred(ctx context.Context, id model.EntryID, starred bool) error {
	updates := []firestore.Update{
		{Path: "starred", Value: starred},
		{Path: "updated_at", Value: firestore.ServerTimestamp},
	}
	if _, err := r.entries().Doc(string(id)).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrEntryNotFound, "no such entry", goerr.V("id", id))
		}
		return goerr.Wrap(model.ErrPersistence, "failed to update starred flag",
			goerr.V("id", id), goerr.V("cause", err.Error()))
	}
	return nil
}

func (r *Firestore) UpdateEmbedding(ctx context.Context, id model.EntryID, vec firestore.Vector32) error {
	updates := []firestore.Update{
		{Path: "embedding", Value: vec},
		{Path: "embedding_status", Value: model.EmbeddingComplete},
		{Path: "embedding_error", Value: ""},
		{Path: "updated_at", Value: firestore.ServerTimestamp},
	}
	if _, err := r.entries().Doc(string(id)).Update(ctx, updates); err != nil {
		return goerr.Wrap(model.ErrPersistence, "failed to store embedding",
			goerr.V("id", id), goerr.V("cause", err.Error()))
	}
	return nil
}

func (r *Firestore) MarkEmbeddingFailed(ctx context.Context, id model.EntryID, message string) error {
	updates := []firestore.Update{
		{Path: "embedding_status", Value: model.EmbeddingFailed},
		{Path: "embedding_error", Value: message},
		{Path: "updated_at", Value: firestore.ServerTimestamp},
	}
	if _, err := r.entries().Doc(string(id)).Update(ctx, updates); err != nil {
		return goerr.Wrap(model.ErrPersistence, "failed to record embedding failure",
			goerr.V("id", id), goerr.V("cause", err.Error()))
	}
	return nil
}

func (r *Firestore) ResetEmbeddingStatus(ctx context.Context, id model.EntryID) error {
	updates := []firestore.Update{
		{Path: "embedding_status", Value: model.EmbeddingPending},
		{Path: "embedding_error", Value: ""},
		{Path: "updated_at", Value: firestore.ServerTimestamp},
	}
	if _, err := r.entries().Doc(string(id)).Update(ctx, updates); err != nil {
		return goerr.Wrap(model.ErrPersistence, "failed to reset embedding status",
			goerr.V("id", id), goerr.V("cause", err.Error()))
	}
	return nil
}

func (r *Firestore) ListPendingEmbeddings(ctx context.Context) ([]*model.Entry, error) {
	query := r.entries().Where("embedding_status", "in", []string{
		string(model.EmbeddingPending),
		string(model.EmbeddingFailed),
	})

	iter := query.Documents(ctx)
	defer iter.Stop()

	var entries []*model.Entry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list pending entries")
		}

		var entry model.Entry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode entry", goerr.V("id", doc.Ref.ID))
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

func (r *Firestore) ListEntries(ctx context.Context, opts ListOptions) ([]*model.Entry, error) {
	dir := firestore.Desc
	if opts.Order == model.SortAsc {
		dir = firestore.Asc
	}

	query := r.entries().OrderBy("event_date", dir).OrderBy("id", dir)
	if opts.StarredOnly {
		query = query.Where("starred", "==", true)
	}
	if opts.After != nil {
		query = query.StartAfter(opts.After.EventDate, string(opts.After.ID))
	}
	// The substring filter cannot run server-side, so only limit the query
	// when no filter is applied; otherwise stream in key order and filter.
	if opts.Query == "" {
		query = query.Limit(opts.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var entries []*model.Entry
	for len(entries) < opts.Limit {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list entries")
		}

		var entry model.Entry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode entry", goerr.V("id", doc.Ref.ID))
		}
		if !matchQuery(&entry, opts.Query) {
			continue
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

func (r *Firestore) SearchSimilarEntries(ctx context.Context, vec []float32, limit int) ([]*model.EntryMatch, error) {
	query := r.entries().FindNearest("embedding", firestore.Vector32(vec), limit,
		firestore.DistanceMeasureCosine, &firestore.FindNearestOptions{
			DistanceResultField: distanceField,
		})

	iter := query.Documents(ctx)
	defer iter.Stop()

	var matches []*model.EntryMatch
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search similar entries")
		}

		distance, ok := doc.Data()[distanceField].(float64)
		if !ok {
			return nil, goerr.New("vector search result without distance", goerr.V("id", doc.Ref.ID))
		}

		matches = append(matches, &model.EntryMatch{
			ID:         model.EntryID(doc.Ref.ID),
			Similarity: 1 - distance,
		})
	}

	return matches, nil
}
