package entry

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/tsuzuri/pkg/adapter"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/m-mizutani/tsuzuri/pkg/repository"
)

const defaultPageSize = 10

// UseCase provides journal entry operations
type UseCase struct {
	repo     repository.Repository
	gemini   adapter.Gemini
	output   io.Writer
	pageSize int
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithOutput sets the output writer
func WithOutput(w io.Writer) Option {
	return func(uc *UseCase) {
		uc.output = w
	}
}

// WithPageSize sets the fixed page size of ListPage
func WithPageSize(n int) Option {
	return func(uc *UseCase) {
		uc.pageSize = n
	}
}

// New creates a new entry UseCase instance
func New(
	repo repository.Repository,
	gemini adapter.Gemini,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:     repo,
		gemini:   gemini,
		output:   os.Stdout,
		pageSize: defaultPageSize,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Get retrieves a single entry
func (u *UseCase) Get(ctx context.Context, id model.EntryID) (*model.Entry, error) {
	return u.repo.GetEntry(ctx, id)
}

// Delete removes an entry. The embedding is entry-local data, so nothing
// else needs cleanup.
func (u *UseCase) Delete(ctx context.Context, id model.EntryID) error {
	return u.repo.DeleteEntry(ctx, id)
}
