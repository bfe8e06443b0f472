package entry

import (
	"context"

	"github.com/m-mizutani/tsuzuri/pkg/model"
)

// UpdateOptions carries partial edits; nil fields are left unchanged
type UpdateOptions struct {
	Title     *string
	Body      *string
	EventDate *string
	Tags      *[]string
	Category  *model.Category
}

// Update applies user edits to an entry. A body change invalidates the
// stored embedding: status goes back to pending and a best-effort re-run
// fires immediately.
func (u *UseCase) Update(ctx context.Context, id model.EntryID, opts UpdateOptions) (*model.Entry, error) {
	entry, err := u.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	bodyChanged := false
	if opts.Title != nil {
		entry.Title = *opts.Title
	}
	if opts.Body != nil && *opts.Body != entry.Body {
		entry.Body = *opts.Body
		bodyChanged = true
	}
	if opts.EventDate != nil {
		if err := model.ValidateDate(*opts.EventDate); err != nil {
			return nil, err
		}
		entry.EventDate = *opts.EventDate
	}
	if opts.Tags != nil {
		entry.Tags = *opts.Tags
	}
	if opts.Category != nil {
		if err := opts.Category.Validate(); err != nil {
			return nil, err
		}
		entry.Category = *opts.Category
	}

	if err := u.repo.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	if bodyChanged {
		if err := u.repo.ResetEmbeddingStatus(ctx, id); err != nil {
			return nil, err
		}
		u.tryEnrich(ctx, id, entry.Body)
	}

	return u.repo.GetEntry(ctx, id)
}

// SetStarred toggles the starred flag of an entry
func (u *UseCase) SetStarred(ctx context.Context, id model.EntryID, starred bool) error {
	return u.repo.SetStarred(ctx, id, starred)
}
