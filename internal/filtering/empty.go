package filtering

import (
	"context"

	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"
)

type dropEmptyFilter struct{}

// NewDropEmpty creates a filter that removes postings carrying nothing worth
// persisting: a missing id, or no title and no description at all.
func NewDropEmpty() Filter {
	return &dropEmptyFilter{}
}

func (f *dropEmptyFilter) Name() string { return "drop_empty" }

func (f *dropEmptyFilter) Apply(_ context.Context, p *linkedin.Postings) (*linkedin.Postings, Step, error) {
	initial := p.Len()

	kept := make([]*linkedin.Posting, 0, initial)
	for _, posting := range p.Items {
		if posting.ID == "" {
			continue
		}
		if (posting.Title == "" || posting.Title == linkedin.UnknownField) && posting.Description == "" {
			continue
		}
		kept = append(kept, posting)
	}

	next := &linkedin.Postings{Items: kept}
	return next, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
