package entry

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/m-mizutani/tsuzuri/pkg/repository"
)

// Snapshot is the export format: every entry, oldest first
type Snapshot struct {
	ExportedAt time.Time      `json:"exported_at"`
	Count      int            `json:"count"`
	Entries    []*model.Entry `json:"entries"`
}

// Export writes a JSON snapshot of all entries. It walks the keyset pages
// in ascending order rather than loading the collection in one read.
func (u *UseCase) Export(ctx context.Context, w io.Writer) error {
	var all []*model.Entry
	var after *model.PageKey

	for {
		entries, err := u.repo.ListEntries(ctx, repository.ListOptions{
			After: after,
			Order: model.SortAsc,
			Limit: u.pageSize,
		})
		if err != nil {
			return goerr.Wrap(err, "failed to list entries for export")
		}

		all = append(all, entries...)
		if len(entries) < u.pageSize {
			break
		}
		last := entries[len(entries)-1]
		after = &model.PageKey{EventDate: last.EventDate, ID: last.ID}
	}

	snapshot := Snapshot{
		ExportedAt: time.Now(),
		Count:      len(all),
		Entries:    all,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return goerr.Wrap(err, "failed to encode snapshot")
	}

	return nil
}
