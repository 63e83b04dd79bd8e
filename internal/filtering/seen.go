package filtering

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"
)

type seenFilter struct {
	seen mapset.Set[string]
}

// NewSeen creates a filter that removes postings whose id is already in the
// persisted store. Membership is exact string equality; the store itself is
// never touched.
func NewSeen(seen mapset.Set[string]) Filter {
	return &seenFilter{seen: seen}
}

func (f *seenFilter) Name() string { return "seen_ids" }

func (f *seenFilter) Apply(_ context.Context, p *linkedin.Postings) (*linkedin.Postings, Step, error) {
	initial := p.Len()

	kept := make([]*linkedin.Posting, 0, initial)
	for _, posting := range p.Items {
		if f.seen != nil && f.seen.Contains(posting.ID) {
			continue
		}
		kept = append(kept, posting)
	}

	next := &linkedin.Postings{Items: kept}
	return next, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
