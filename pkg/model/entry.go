package model

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type EntryID string

// NewEntryID generates a new unique EntryID
func NewEntryID() EntryID {
	return EntryID(uuid.New().String())
}

// DateFormat is the layout of Entry.EventDate. Dates are stored as plain
// strings so that lexicographic order matches chronological order.
const DateFormat = "2006-01-02"

type Category string

const (
	CategoryDream      Category = "dream"
	CategoryJournal    Category = "journal"
	CategoryTripReport Category = "trip report"
	CategoryOuting     Category = "outing"
	CategoryEssay      Category = "essay"
	CategoryNote       Category = "note"
	CategoryOther      Category = "other"
)

// Validate checks if the category is valid. An empty category is allowed.
func (c Category) Validate() error {
	switch c {
	case "", CategoryDream, CategoryJournal, CategoryTripReport, CategoryOuting, CategoryEssay, CategoryNote, CategoryOther:
		return nil
	default:
		return goerr.Wrap(ErrInvalidCategory, "unknown category", goerr.V("category", c))
	}
}

type EmbeddingStatus string

const (
	EmbeddingPending  EmbeddingStatus = "pending"
	EmbeddingComplete EmbeddingStatus = "complete"
	EmbeddingFailed   EmbeddingStatus = "failed"
)

// Entry is a single journal record. The embedding fields are written only by
// the enrichment pipeline; all other fields are written only by user edits.
type Entry struct {
	ID        EntryID  `firestore:"id" json:"id"`
	Title     string   `firestore:"title" json:"title,omitempty"`
	Body      string   `firestore:"body" json:"body"`
	EventDate string   `firestore:"event_date" json:"event_date"`
	Tags      []string `firestore:"tags" json:"tags,omitempty"`
	Category  Category `firestore:"category" json:"category,omitempty"`
	Starred   bool     `firestore:"starred" json:"starred"`

	Embedding       firestore.Vector32 `firestore:"embedding" json:"-"`
	EmbeddingStatus EmbeddingStatus    `firestore:"embedding_status" json:"embedding_status"`
	EmbeddingError  string             `firestore:"embedding_error" json:"embedding_error,omitempty"`

	CreatedAt time.Time `firestore:"created_at" json:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at" json:"updated_at"`
}

// ValidateDate checks that a date string matches DateFormat.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return goerr.Wrap(ErrInvalidDate, "event date must be YYYY-MM-DD", goerr.V("date", date))
	}
	return nil
}

// EntryMatch is a nearest-neighbor candidate returned by the datastore:
// an entry ID with its similarity score, before record resolution.
type EntryMatch struct {
	ID         EntryID
	Similarity float64
}

// RelatedEntry is a fully resolved entry with its similarity score attached.
type RelatedEntry struct {
	Entry      *Entry
	Similarity float64
}
