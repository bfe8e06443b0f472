package entry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/m-mizutani/tsuzuri/pkg/repository"
	"github.com/m-mizutani/tsuzuri/pkg/usecase/entry"
)

func TestEnrichSuccess(t *testing.T) {
	repo := repository.NewMemory()
	gemini := &mockGemini{dims: 4}
	uc := entry.New(repo, gemini)
	ctx := context.Background()

	seedEntry(t, repo, "e1", "2024-03-01", "", "a quiet morning", false)
	gt.NoError(t, uc.Enrich(ctx, "e1", "a quiet morning"))

	got, err := repo.GetEntry(ctx, "e1")
	gt.NoError(t, err)
	gt.Equal(t, got.EmbeddingStatus, model.EmbeddingComplete)
	gt.A(t, got.Embedding).Length(4)
	gt.Equal(t, got.EmbeddingError, "")
}

func TestEnrichIsIdempotent(t *testing.T) {
	repo := repository.NewMemory()
	gemini := &mockGemini{dims: 4}
	uc := entry.New(repo, gemini)
	ctx := context.Background()

	seedEntry(t, repo, "e1", "2024-03-01", "", "same body", false)
	gt.NoError(t, uc.Enrich(ctx, "e1", "same body"))

	first, err := repo.GetEntry(ctx, "e1")
	gt.NoError(t, err)

	gt.NoError(t, uc.Enrich(ctx, "e1", "same body"))
	second, err := repo.GetEntry(ctx, "e1")
	gt.NoError(t, err)

	gt.Equal(t, second.EmbeddingStatus, model.EmbeddingComplete)
	gt.Equal(t, second.Embedding, first.Embedding)
}

func TestEnrichRecordsComputeFailure(t *testing.T) {
	repo := repository.NewMemory()
	gemini := &mockGemini{
		dims: 4,
		embeddingFunc: func(ctx context.Context, text string) ([]float32, error) {
			return nil, goerr.New("service unavailable")
		},
	}
	uc := entry.New(repo, gemini)
	ctx := context.Background()

	seedEntry(t, repo, "e1", "2024-03-01", "", "doomed", false)

	err := uc.Enrich(ctx, "e1", "doomed")
	gt.Error(t, err)

	// The failure is durable even though the error was also returned
	got, getErr := repo.GetEntry(ctx, "e1")
	gt.NoError(t, getErr)
	gt.Equal(t, got.EmbeddingStatus, model.EmbeddingFailed)
	gt.S(t, got.EmbeddingError).Contains("service unavailable")
	gt.A(t, got.Embedding).Length(0)
}

func TestEnrichPersistenceFailureOnSuccess(t *testing.T) {
	repo := &failingRepo{Repository: repository.NewMemory(), failUpdateEmbedding: true}
	gemini := &mockGemini{dims: 4}
	uc := entry.New(repo, gemini)
	ctx := context.Background()

	seedEntry(t, repo, "e1", "2024-03-01", "", "fine body", false)

	err := uc.Enrich(ctx, "e1", "fine body")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrPersistence))
}

func TestEnrichPersistenceFailureOnFailurePath(t *testing.T) {
	repo := &failingRepo{Repository: repository.NewMemory(), failMarkFailed: true}
	gemini := &mockGemini{
		dims: 4,
		embeddingFunc: func(ctx context.Context, text string) ([]float32, error) {
			return nil, goerr.New("quota exceeded")
		},
	}
	uc := entry.New(repo, gemini)
	ctx := context.Background()

	seedEntry(t, repo, "e1", "2024-03-01", "", "doubly doomed", false)

	err := uc.Enrich(ctx, "e1", "doubly doomed")
	gt.Error(t, err)
	// The write failure is the cause and must not be swallowed by the
	// compute failure.
	gt.True(t, errors.Is(err, model.ErrPersistence))
}

func TestEnrichPendingSweep(t *testing.T) {
	repo := repository.NewMemory()
	gemini := &mockGemini{
		dims: 4,
		embeddingFunc: func(ctx context.Context, text string) ([]float32, error) {
			if text == "middle" {
				return nil, goerr.New("transient failure")
			}
			return deterministicVector(text, 4), nil
		},
	}
	uc := entry.New(repo, gemini)
	ctx := context.Background()

	seedEntry(t, repo, "a", "2024-01-01", "", "first", false)
	seedEntry(t, repo, "b", "2024-01-02", "", "middle", false)
	seedEntry(t, repo, "c", "2024-01-03", "", "last", false)

	result, err := uc.EnrichPending(ctx)
	gt.NoError(t, err)
	gt.Equal(t, result.Processed, 3)
	gt.Equal(t, result.Failed, 1)

	// One entry's failure never touches its neighbors
	for _, tc := range []struct {
		id     model.EntryID
		status model.EmbeddingStatus
	}{
		{"a", model.EmbeddingComplete},
		{"b", model.EmbeddingFailed},
		{"c", model.EmbeddingComplete},
	} {
		got, err := repo.GetEntry(ctx, tc.id)
		gt.NoError(t, err)
		gt.Equal(t, got.EmbeddingStatus, tc.status)
	}

	gt.True(t, !gemini.overlapped)
	gt.A(t, gemini.calls).Length(3)
}

func TestEnrichPendingRetriesFailed(t *testing.T) {
	repo := repository.NewMemory()
	gemini := &mockGemini{dims: 4}
	uc := entry.New(repo, gemini)
	ctx := context.Background()

	seedEntry(t, repo, "f", "2024-01-01", "", "failed before", false)
	gt.NoError(t, repo.MarkEmbeddingFailed(ctx, "f", "old failure"))

	result, err := uc.EnrichPending(ctx)
	gt.NoError(t, err)
	gt.Equal(t, result.Processed, 1)
	gt.Equal(t, result.Failed, 0)

	got, err := repo.GetEntry(ctx, "f")
	gt.NoError(t, err)
	gt.Equal(t, got.EmbeddingStatus, model.EmbeddingComplete)
	gt.Equal(t, got.EmbeddingError, "")
}

func TestEnrichPendingSkipsComplete(t *testing.T) {
	repo := repository.NewMemory()
	gemini := &mockGemini{dims: 4}
	uc := entry.New(repo, gemini)
	ctx := context.Background()

	seedEntry(t, repo, "done", "2024-01-01", "", "already embedded", false)
	gt.NoError(t, uc.Enrich(ctx, "done", "already embedded"))
	seedEntry(t, repo, "todo", "2024-01-02", "", "still waiting", false)

	gemini.calls = nil
	result, err := uc.EnrichPending(ctx)
	gt.NoError(t, err)
	gt.Equal(t, result.Processed, 1)
	gt.A(t, gemini.calls).Length(1)
	gt.Equal(t, gemini.calls[0], "still waiting")
}
