package entry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/m-mizutani/tsuzuri/pkg/repository"
)

// ListInput controls one page request. All continuation state lives in the
// cursor; the engine itself is stateless between calls.
type ListInput struct {
	Cursor      string
	Query       string
	StarredOnly bool
	Order       model.SortOrder // default desc
}

// Page is one page of entries. NextCursor is empty when the page is short,
// which signals exhaustion.
type Page struct {
	Entries    []*model.Entry
	NextCursor string
}

// ListPage serves entries under the (event_date, id) total order with
// keyset pagination.
func (u *UseCase) ListPage(ctx context.Context, input ListInput) (*Page, error) {
	order := input.Order
	if order == "" {
		order = model.SortDesc
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}

	var after *model.PageKey
	if input.Cursor != "" {
		key, err := decodeCursor(input.Cursor)
		if err != nil {
			return nil, err
		}
		after = key
	}

	entries, err := u.repo.ListEntries(ctx, repository.ListOptions{
		After:       after,
		Query:       strings.TrimSpace(input.Query),
		StarredOnly: input.StarredOnly,
		Order:       order,
		Limit:       u.pageSize,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list entries")
	}

	page := &Page{Entries: entries}

	// A full page may still be the last one; the caller discovers that on
	// the following request, which comes back empty with no cursor.
	if len(entries) == u.pageSize {
		last := entries[len(entries)-1]
		page.NextCursor = encodeCursor(&model.PageKey{
			EventDate: last.EventDate,
			ID:        last.ID,
		})
	}

	return page, nil
}

func encodeCursor(key *model.PageKey) string {
	raw, err := json.Marshal(key)
	if err != nil {
		// PageKey is two strings; this cannot fail.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor rejects anything it cannot parse. A malformed cursor is a
// client error, never an implicit first page.
func decodeCursor(cursor string) (*model.PageKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, goerr.Wrap(model.ErrInvalidCursor, "cursor is not valid base64", goerr.V("cursor", cursor))
	}

	var key model.PageKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, goerr.Wrap(model.ErrInvalidCursor, "cursor is not valid JSON", goerr.V("cursor", cursor))
	}
	if key.EventDate == "" || key.ID == "" {
		return nil, goerr.Wrap(model.ErrInvalidCursor, "cursor is missing fields", goerr.V("cursor", cursor))
	}

	return &key, nil
}
