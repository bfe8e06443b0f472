package entry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/m-mizutani/tsuzuri/pkg/repository"

	"cloud.google.com/go/firestore"
)

// mockGemini is a mock implementation of adapter.Gemini for testing. The
// default behavior returns a deterministic vector derived from the text.
type mockGemini struct {
	mu            sync.Mutex
	dims          int
	embeddingFunc func(ctx context.Context, text string) ([]float32, error)

	calls      []string
	inFlight   int
	overlapped bool
}

func (m *mockGemini) Embedding(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.inFlight++
	if m.inFlight > 1 {
		m.overlapped = true
	}
	m.calls = append(m.calls, text)
	fn := m.embeddingFunc
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if fn != nil {
		return fn(ctx, text)
	}
	return deterministicVector(text, m.dims), nil
}

func (m *mockGemini) Dimensions() int {
	return m.dims
}

// deterministicVector maps a text to a fixed vector, so repeated enrichment
// of the same body produces identical embeddings.
func deterministicVector(text string, dims int) []float32 {
	vec := make([]float32, dims)
	for i, b := range []byte(text) {
		vec[i%dims] += float32(b)
	}
	return vec
}

// failingRepo injects write failures into an otherwise working repository
type failingRepo struct {
	repository.Repository
	failUpdateEmbedding bool
	failMarkFailed      bool
}

func (r *failingRepo) UpdateEmbedding(ctx context.Context, id model.EntryID, vec firestore.Vector32) error {
	if r.failUpdateEmbedding {
		return goerr.Wrap(model.ErrPersistence, "injected write failure", goerr.V("id", id))
	}
	return r.Repository.UpdateEmbedding(ctx, id, vec)
}

func (r *failingRepo) MarkEmbeddingFailed(ctx context.Context, id model.EntryID, message string) error {
	if r.failMarkFailed {
		return goerr.Wrap(model.ErrPersistence, "injected write failure", goerr.V("id", id))
	}
	return r.Repository.MarkEmbeddingFailed(ctx, id, message)
}

func seedEntry(t *testing.T, repo repository.Repository, id, date, title, body string, starred bool) {
	t.Helper()
	err := repo.PutEntry(context.Background(), &model.Entry{
		ID:              model.EntryID(id),
		Title:           title,
		Body:            body,
		EventDate:       date,
		Starred:         starred,
		EmbeddingStatus: model.EmbeddingPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	})
	gt.NoError(t, err)
}
