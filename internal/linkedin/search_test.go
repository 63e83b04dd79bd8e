package linkedin

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchParamsURL(t *testing.T) {
	params := &SearchParams{
		Keywords:        "product manager",
		GeoID:           "90000084",
		Distance:        25,
		SortBy:          "DD",
		SpellCorrection: true,
		Lookback:        ShortLookback,
	}

	raw := params.URL()
	require.True(t, strings.HasPrefix(raw, "https://www.linkedin.com/jobs/search/?"))

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "product manager", q.Get("keywords"))
	assert.Equal(t, "90000084", q.Get("geoId"))
	assert.Equal(t, "25", q.Get("distance"))
	assert.Equal(t, "DD", q.Get("sortBy"))
	assert.Equal(t, "true", q.Get("spellCorrectionEnabled"))
	assert.Equal(t, "r3600", q.Get("f_TPR"))
	assert.Equal(t, "viewjobs", q.Get("alertAction"))
	assert.Equal(t, "JOB_SEARCH_PAGE_JOB_FILTER", q.Get("origin"))
}

func TestSearchParamsURLLongLookback(t *testing.T) {
	params := &SearchParams{Keywords: "pm", Lookback: LongLookback}

	parsed, err := url.Parse(params.URL())
	require.NoError(t, err)

	assert.Equal(t, "r32400", parsed.Query().Get("f_TPR"))
}

func TestSearchParamsURLDefaultsLookback(t *testing.T) {
	params := &SearchParams{Keywords: "pm"}

	parsed, err := url.Parse(params.URL())
	require.NoError(t, err)

	assert.Equal(t, "r3600", parsed.Query().Get("f_TPR"))
}

func TestSearchParamsURLSkipsDisabledAndEmpty(t *testing.T) {
	params := &SearchParams{Keywords: "pm", SpellCorrection: false}

	parsed, err := url.Parse(params.URL())
	require.NoError(t, err)

	q := parsed.Query()
	assert.False(t, q.Has("spellCorrectionEnabled"))
	assert.False(t, q.Has("geoId"))
	assert.False(t, q.Has("distance"))
}

func TestLookbackWindow(t *testing.T) {
	tests := []struct {
		name          string
		runHour       string
		overnightHour string
		expected      time.Duration
	}{
		{"overnight run", "09", "09", LongLookback},
		{"regular run", "14", "09", ShortLookback},
		{"run hour unset", "", "09", ShortLookback},
		{"both empty", "", "", ShortLookback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LookbackWindow(tt.runHour, tt.overnightHour))
		})
	}
}

func TestJobURL(t *testing.T) {
	assert.Equal(t, "https://www.linkedin.com/jobs/view/4012345678/", JobURL("4012345678"))
}

func TestNewPostingDefaults(t *testing.T) {
	p := NewPosting("42")

	assert.Equal(t, "42", p.ID)
	assert.Equal(t, UnknownField, p.Title)
	assert.Equal(t, UnknownField, p.Company)
	assert.Equal(t, UnknownField, p.Location)
	assert.Equal(t, JobURL("42"), p.URL)
	assert.Empty(t, p.Description)
}

func TestPostingsFindByID(t *testing.T) {
	postings := &Postings{Items: []*Posting{NewPosting("1"), NewPosting("2")}}

	require.NotNil(t, postings.FindByID("2"))
	assert.Nil(t, postings.FindByID("3"))
	assert.Equal(t, []string{"1", "2"}, postings.IDs())
}
