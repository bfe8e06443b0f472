package entry

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/m-mizutani/tsuzuri/pkg/utils/logging"
)

// Enrich computes the embedding of an entry body and persists the outcome.
// Safe to call repeatedly for the same entry; the last write wins and the
// result converges for unchanged input.
//
// A compute failure is recorded to the status store before it is returned,
// so a best-effort caller can drop the error and the failure stays visible
// on the entry. A persistence failure is returned chained to
// model.ErrPersistence and is never swallowed here.
func (u *UseCase) Enrich(ctx context.Context, id model.EntryID, body string) error {
	vec, err := u.gemini.Embedding(ctx, body)
	if err != nil {
		message := err.Error()
		if message == "" {
			message = "embedding failed"
		}
		if markErr := u.repo.MarkEmbeddingFailed(ctx, id, message); markErr != nil {
			// Both failures matter to the caller: the write error is the
			// cause, the compute error rides along as a value.
			return goerr.Wrap(markErr, "failed to record embedding failure",
				goerr.V("id", id), goerr.V("embed_error", message))
		}
		return err
	}

	if err := u.repo.UpdateEmbedding(ctx, id, firestore.Vector32(vec)); err != nil {
		return goerr.Wrap(err, "failed to persist embedding", goerr.V("id", id))
	}

	return nil
}

// tryEnrich is the fire-and-forget path used after create, import, and body
// edits. Failures are durable in the status store, so they are only logged.
func (u *UseCase) tryEnrich(ctx context.Context, id model.EntryID, body string) {
	if err := u.Enrich(ctx, id, body); err != nil {
		logging.From(ctx).Warn("background enrichment failed", "id", id, "error", err)
	}
}

// SweepResult reports a bulk enrichment pass
type SweepResult struct {
	Processed int
	Failed    int
}

// EnrichPending re-runs enrichment for every entry whose embedding is
// pending or failed. Entries are processed strictly one at a time to bound
// the request rate against the embedding service; one entry's failure never
// aborts the sweep.
func (u *UseCase) EnrichPending(ctx context.Context) (*SweepResult, error) {
	entries, err := u.repo.ListPendingEmbeddings(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list pending entries")
	}

	logger := logging.From(ctx)
	result := &SweepResult{Processed: len(entries)}

	for _, e := range entries {
		if err := u.Enrich(ctx, e.ID, e.Body); err != nil {
			result.Failed++
			logger.Warn("enrichment failed during sweep", "id", e.ID, "error", err)
		}
	}

	return result, nil
}
