// Package rating defines the fit rating attached to postings by the batch
// rating step and the comment format it is persisted in.
package rating

import (
	"context"
	"strings"

	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"
)

// Rating is the fit verdict for a single posting.
type Rating string

const (
	High    Rating = "High"
	Medium  Rating = "Medium"
	Low     Rating = "Low"
	Unknown Rating = "Unknown"
)

const (
	// PlaceholderOmitted is the single bullet attached when the rating
	// response did not cover a posting.
	PlaceholderOmitted = "No analysis returned"
	// PlaceholderError is the single bullet attached to every posting in a
	// batch whose rating request or response failed outright.
	PlaceholderError = "Error generating analysis"
)

// Assessment is the outcome of the batch rating step for one posting.
type Assessment struct {
	Rating  Rating
	Bullets []string
}

// Rater scores every posting in one batched request. Implementations must
// return exactly one assessment per input posting and must degrade to
// Unknown instead of failing the run.
type Rater interface {
	Rate(ctx context.Context, postings *linkedin.Postings) map[string]*Assessment
}

// Parse maps a free-form rating string onto the enumerated values,
// defaulting to Unknown.
func Parse(s string) Rating {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return High
	case "medium":
		return Medium
	case "low":
		return Low
	default:
		return Unknown
	}
}

// Fallback builds an all-Unknown assessment map carrying the given bullet
// for every posting in the batch.
func Fallback(postings *linkedin.Postings, bullet string) map[string]*Assessment {
	assessments := make(map[string]*Assessment, postings.Len())
	for _, posting := range postings.Items {
		assessments[posting.ID] = &Assessment{
			Rating:  Unknown,
			Bullets: []string{bullet},
		}
	}
	return assessments
}
