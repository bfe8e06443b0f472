package entry

import (
	"context"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"gopkg.in/yaml.v3"
)

// ImportEntry is one record of an import file (YAML or JSON)
type ImportEntry struct {
	Title     string   `yaml:"title"`
	Body      string   `yaml:"body"`
	EventDate string   `yaml:"event_date"`
	Tags      []string `yaml:"tags"`
	Category  string   `yaml:"category"`
	Starred   bool     `yaml:"starred"`
}

// ImportResult reports a bulk import
type ImportResult struct {
	Created []*model.Entry
}

// Import bulk-creates entries from a YAML document (a sequence of entries).
// Each created entry goes through the same best-effort enrichment as a
// single create, sequentially.
func (u *UseCase) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var records []ImportEntry
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		return nil, goerr.Wrap(err, "failed to decode import file")
	}

	result := &ImportResult{}
	for i, record := range records {
		created, err := u.Create(ctx, CreateOptions{
			Title:     record.Title,
			Body:      record.Body,
			EventDate: record.EventDate,
			Tags:      record.Tags,
			Category:  model.Category(record.Category),
			Starred:   record.Starred,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to import entry", goerr.V("index", i))
		}
		result.Created = append(result.Created, created)
	}

	return result, nil
}
