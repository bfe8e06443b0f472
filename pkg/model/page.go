package model

import "github.com/m-mizutani/goerr/v2"

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Validate checks if the sort order is valid
func (s SortOrder) Validate() error {
	switch s {
	case SortAsc, SortDesc:
		return nil
	default:
		return goerr.New("invalid sort order", goerr.V("order", s))
	}
}

// PageKey is the keyset position of a row in the (event_date, id) total
// order. The id breaks ties in the same direction as the date, so the order
// is strict and pages never overlap or skip.
type PageKey struct {
	EventDate string  `json:"event_date"`
	ID        EntryID `json:"id"`
}
