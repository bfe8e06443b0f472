package entry

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
)

// CreateOptions contains the user-provided fields of a new entry
type CreateOptions struct {
	Title     string
	Body      string
	EventDate string // YYYY-MM-DD, defaults to today
	Tags      []string
	Category  model.Category
	Starred   bool
}

// Create saves a new entry with embedding status pending, then triggers a
// best-effort enrichment. The create itself never fails on an enrichment
// problem; the durable failed status is how the user finds out.
func (u *UseCase) Create(ctx context.Context, opts CreateOptions) (*model.Entry, error) {
	if opts.Body == "" {
		return nil, goerr.New("entry body is required")
	}

	eventDate := opts.EventDate
	if eventDate == "" {
		eventDate = time.Now().Format(model.DateFormat)
	}
	if err := model.ValidateDate(eventDate); err != nil {
		return nil, err
	}
	if err := opts.Category.Validate(); err != nil {
		return nil, err
	}

	entry := &model.Entry{
		ID:              model.NewEntryID(),
		Title:           opts.Title,
		Body:            opts.Body,
		EventDate:       eventDate,
		Tags:            opts.Tags,
		Category:        opts.Category,
		Starred:         opts.Starred,
		EmbeddingStatus: model.EmbeddingPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := u.repo.PutEntry(ctx, entry); err != nil {
		return nil, err
	}

	u.tryEnrich(ctx, entry.ID, entry.Body)

	return entry, nil
}
