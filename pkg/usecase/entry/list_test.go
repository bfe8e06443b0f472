package entry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/m-mizutani/tsuzuri/pkg/repository"
	"github.com/m-mizutani/tsuzuri/pkg/usecase/entry"
)

func TestListPageKeysetPaging(t *testing.T) {
	repo := repository.NewMemory()
	uc := entry.New(repo, nil, entry.WithPageSize(2))
	ctx := context.Background()

	// B and C share a date; the id breaks the tie
	seedEntry(t, repo, "a", "2024-01-01", "A", "a", false)
	seedEntry(t, repo, "b", "2024-01-02", "B", "b", false)
	seedEntry(t, repo, "c", "2024-01-02", "C", "c", false)

	first, err := uc.ListPage(ctx, entry.ListInput{})
	gt.NoError(t, err)
	gt.A(t, first.Entries).Length(2)
	gt.Equal(t, first.Entries[0].ID, model.EntryID("c"))
	gt.Equal(t, first.Entries[1].ID, model.EntryID("b"))
	gt.True(t, first.NextCursor != "")

	second, err := uc.ListPage(ctx, entry.ListInput{Cursor: first.NextCursor})
	gt.NoError(t, err)
	gt.A(t, second.Entries).Length(1)
	gt.Equal(t, second.Entries[0].ID, model.EntryID("a"))
	gt.Equal(t, second.NextCursor, "")
}

func TestListPageChainingVisitsEveryEntryOnce(t *testing.T) {
	repo := repository.NewMemory()
	uc := entry.New(repo, nil, entry.WithPageSize(3))
	ctx := context.Background()

	dates := []string{
		"2024-01-03", "2024-01-01", "2024-01-05", "2024-01-02",
		"2024-01-04", "2024-01-02", "2024-01-06",
	}
	for i, date := range dates {
		seedEntry(t, repo, string(rune('a'+i)), date, "", "body", false)
	}

	seen := map[model.EntryID]bool{}
	var ordered []*model.Entry
	cursor := ""
	for {
		page, err := uc.ListPage(ctx, entry.ListInput{Cursor: cursor})
		gt.NoError(t, err)
		for _, e := range page.Entries {
			gt.True(t, !seen[e.ID])
			seen[e.ID] = true
			ordered = append(ordered, e)
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	gt.A(t, ordered).Length(len(dates))
	for i := 0; i < len(ordered)-1; i++ {
		cur, next := ordered[i], ordered[i+1]
		gt.True(t, cur.EventDate > next.EventDate ||
			(cur.EventDate == next.EventDate && cur.ID > next.ID))
	}
}

func TestListPageExactBoundary(t *testing.T) {
	repo := repository.NewMemory()
	uc := entry.New(repo, nil, entry.WithPageSize(3))
	ctx := context.Background()

	seedEntry(t, repo, "a", "2024-01-01", "", "a", false)
	seedEntry(t, repo, "b", "2024-01-02", "", "b", false)
	seedEntry(t, repo, "c", "2024-01-03", "", "c", false)

	// A full page still carries a cursor; exhaustion only shows on the
	// following request.
	first, err := uc.ListPage(ctx, entry.ListInput{})
	gt.NoError(t, err)
	gt.A(t, first.Entries).Length(3)
	gt.True(t, first.NextCursor != "")

	second, err := uc.ListPage(ctx, entry.ListInput{Cursor: first.NextCursor})
	gt.NoError(t, err)
	gt.A(t, second.Entries).Length(0)
	gt.Equal(t, second.NextCursor, "")
}

func TestListPageInvalidCursor(t *testing.T) {
	repo := repository.NewMemory()
	uc := entry.New(repo, nil)
	ctx := context.Background()

	for _, cursor := range []string{
		"!!not-base64!!",
		"bm90IGpzb24",    // "not json"
		"e30",            // "{}"
		"eyJpZCI6ImEifQ", // {"id":"a"} without event_date
	} {
		_, err := uc.ListPage(ctx, entry.ListInput{Cursor: cursor})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrInvalidCursor))
	}
}

func TestListPageAscending(t *testing.T) {
	repo := repository.NewMemory()
	uc := entry.New(repo, nil, entry.WithPageSize(2))
	ctx := context.Background()

	seedEntry(t, repo, "a", "2024-01-01", "", "a", false)
	seedEntry(t, repo, "b", "2024-01-02", "", "b", false)
	seedEntry(t, repo, "c", "2024-01-03", "", "c", false)

	first, err := uc.ListPage(ctx, entry.ListInput{Order: model.SortAsc})
	gt.NoError(t, err)
	gt.Equal(t, first.Entries[0].ID, model.EntryID("a"))
	gt.Equal(t, first.Entries[1].ID, model.EntryID("b"))

	second, err := uc.ListPage(ctx, entry.ListInput{Order: model.SortAsc, Cursor: first.NextCursor})
	gt.NoError(t, err)
	gt.A(t, second.Entries).Length(1)
	gt.Equal(t, second.Entries[0].ID, model.EntryID("c"))
}

func TestListPageInvalidOrder(t *testing.T) {
	repo := repository.NewMemory()
	uc := entry.New(repo, nil)

	_, err := uc.ListPage(context.Background(), entry.ListInput{Order: "sideways"})
	gt.Error(t, err)
}

func TestListPageFilters(t *testing.T) {
	repo := repository.NewMemory()
	uc := entry.New(repo, nil, entry.WithPageSize(10))
	ctx := context.Background()

	seedEntry(t, repo, "a", "2024-01-01", "Morning walk", "fog over the river", false)
	seedEntry(t, repo, "b", "2024-01-02", "Errands", "post office and bank", true)
	seedEntry(t, repo, "c", "2024-01-03", "River dream", "the bridge was gone", true)

	page, err := uc.ListPage(ctx, entry.ListInput{Query: "river", StarredOnly: true})
	gt.NoError(t, err)
	gt.A(t, page.Entries).Length(1)
	gt.Equal(t, page.Entries[0].ID, model.EntryID("c"))
}
