package filtering

import (
	"context"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"
)

func postingsWithIDs(ids ...string) *linkedin.Postings {
	postings := &linkedin.Postings{}
	for _, id := range ids {
		p := linkedin.NewPosting(id)
		p.Title = "Product Manager"
		postings.Items = append(postings.Items, p)
	}
	return postings
}

func TestSeenFilterDropsKnownIDs(t *testing.T) {
	seen := mapset.NewSet("100")

	next, step, err := NewSeen(seen).Apply(context.Background(), postingsWithIDs("100", "200"))

	require.NoError(t, err)
	assert.Equal(t, Step{Initial: 2, Dropped: 1, Left: 1}, step)
	assert.Equal(t, []string{"200"}, next.IDs())
}

func TestSeenFilterPreservesOrder(t *testing.T) {
	seen := mapset.NewSet("2", "4")

	next, _, err := NewSeen(seen).Apply(context.Background(), postingsWithIDs("1", "2", "3", "4", "5"))

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "5"}, next.IDs())
}

func TestSeenFilterIsIdempotentAfterPersisting(t *testing.T) {
	seen := mapset.NewSet("100")
	filter := NewSeen(seen)

	first, _, err := filter.Apply(context.Background(), postingsWithIDs("100", "200", "300"))
	require.NoError(t, err)
	require.Equal(t, []string{"200", "300"}, first.IDs())

	// Simulate persisting the survivors and rerunning the same scan.
	for _, id := range first.IDs() {
		seen.Add(id)
	}

	second, step, err := filter.Apply(context.Background(), postingsWithIDs("100", "200", "300"))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Len())
	assert.Equal(t, Step{Initial: 3, Dropped: 3, Left: 0}, step)
}

func TestSeenFilterNilSetKeepsEverything(t *testing.T) {
	next, step, err := NewSeen(nil).Apply(context.Background(), postingsWithIDs("1", "2"))

	require.NoError(t, err)
	assert.Equal(t, 2, next.Len())
	assert.Equal(t, 0, step.Dropped)
}

func TestDropEmptyFilter(t *testing.T) {
	noID := &linkedin.Posting{Title: "Ghost"}

	unknownEmpty := linkedin.NewPosting("10")

	unknownWithDescription := linkedin.NewPosting("20")
	unknownWithDescription.Description = "We build rockets."

	titled := linkedin.NewPosting("30")
	titled.Title = "Product Manager"

	postings := &linkedin.Postings{Items: []*linkedin.Posting{noID, unknownEmpty, unknownWithDescription, titled}}

	next, step, err := NewDropEmpty().Apply(context.Background(), postings)

	require.NoError(t, err)
	assert.Equal(t, Step{Initial: 4, Dropped: 2, Left: 2}, step)
	assert.Equal(t, []string{"20", "30"}, next.IDs())
}

func TestRunAppliesStepsInOrder(t *testing.T) {
	seen := mapset.NewSet("1")

	empty := linkedin.NewPosting("2")

	kept := linkedin.NewPosting("3")
	kept.Title = "Product Manager"

	known := linkedin.NewPosting("1")
	known.Title = "Product Manager"

	postings := &linkedin.Postings{Items: []*linkedin.Posting{known, empty, kept}}

	pipeline := New([]Filter{NewDropEmpty(), NewSeen(seen)}, zap.NewNop())
	result, err := pipeline.Run(context.Background(), postings)

	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, result.IDs())
}
