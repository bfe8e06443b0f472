package entry

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
)

// TopMatches returns up to limit entries most similar to the given one, in
// descending similarity. An entry without a completed embedding has no
// neighbors; that is an empty result, not an error.
func (u *UseCase) TopMatches(ctx context.Context, id model.EntryID, limit int) ([]*model.RelatedEntry, error) {
	target, err := u.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(target.Embedding) == 0 {
		return nil, nil
	}

	// Ask for one extra: the entry is usually its own best match and gets
	// dropped below.
	matches, err := u.repo.SearchSimilarEntries(ctx, target.Embedding, limit+1)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search similar entries", goerr.V("id", id))
	}

	rank := make(map[model.EntryID]int, len(matches))
	similarity := make(map[model.EntryID]float64, len(matches))
	ids := make([]model.EntryID, 0, len(matches))
	for _, m := range matches {
		if m.ID == id {
			continue
		}
		if len(ids) == limit {
			break
		}
		rank[m.ID] = len(ids)
		similarity[m.ID] = m.Similarity
		ids = append(ids, m.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	resolved, err := u.repo.GetEntries(ctx, ids)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve similar entries", goerr.V("id", id))
	}

	related := make([]*model.RelatedEntry, 0, len(resolved))
	for _, e := range resolved {
		related = append(related, &model.RelatedEntry{
			Entry:      e,
			Similarity: similarity[e.ID],
		})
	}

	// The batch fetch comes back in storage order; restore the neighbor
	// ranking before returning.
	sort.Slice(related, func(i, j int) bool {
		return rank[related[i].Entry.ID] < rank[related[j].Entry.ID]
	})

	return related, nil
}
