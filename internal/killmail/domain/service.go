package domain

import "context"

// IngestResult reports what a single poll of the feed produced.
type IngestResult struct {
	Outcome    Outcome `json:"outcome"`
	KillmailID int64   `json:"killmail_id,omitempty"`
}

type Service interface {
	// IngestOne pulls at most one killmail from the feed and persists it
	// together with its parsed fit. Duplicates and an empty queue are
	// successful outcomes, not errors.
	IngestOne(ctx context.Context) (IngestResult, error)
	Get(ctx context.Context, killmailID int64) (*Killmail, error)
	List(ctx context.Context, filter ListFilter) ([]Killmail, error)
}
