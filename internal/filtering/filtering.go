// Package filtering runs postings through an ordered list of filter steps
// before they reach the rating and persistence stages.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"
)

// Filter represents a single filtering step applied to postings.
type Filter interface {
	Name() string
	Apply(ctx context.Context, p *linkedin.Postings) (*linkedin.Postings, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Filtering {
	return &Filtering{steps: steps, logger: logger}
}

// Run executes the supplied filters sequentially, returning the remaining
// postings in their original relative order.
func (f *Filtering) Run(ctx context.Context, p *linkedin.Postings) (*linkedin.Postings, error) {
	for _, step := range f.steps {
		next, info, err := step.Apply(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if f.logger != nil {
			f.logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		p = next
	}

	return p, nil
}
