package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"
	"github.com/emmayisun/linkedin-job-tracker/internal/rating"
)

var scanTime = time.Date(2026, 8, 27, 14, 0, 0, 0, time.UTC)

func ratedPosting() *linkedin.Posting {
	p := linkedin.NewPosting("4012345678")
	p.Title = "Senior Product Manager"
	p.Company = "Acme"
	p.Experience = "5+ years"
	p.Salary = "$180,000/yr"
	p.Comment = rating.Synthesize(&rating.Assessment{
		Rating:  rating.High,
		Bullets: []string{"strong AI platform fit", "matches seniority", "salary in band"},
	})
	return p
}

func TestRenderEmpty(t *testing.T) {
	html, err := Render(&linkedin.Postings{}, scanTime)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "No new jobs found in the past hour.")
	assert.Contains(t, body, "Found <strong>0</strong> new job(s)")
	assert.Contains(t, body, "2026-08-27 14:00 UTC")
	assert.NotContains(t, body, "<table")
}

func TestRenderRatedPosting(t *testing.T) {
	postings := &linkedin.Postings{Items: []*linkedin.Posting{ratedPosting()}}

	html, err := Render(postings, scanTime)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "Senior Product Manager")
	assert.Contains(t, body, linkedin.JobURL("4012345678"))
	assert.Contains(t, body, "[High]")
	assert.Contains(t, body, "#d4edda")
	assert.Contains(t, body, "<li>strong AI platform fit</li>")
	assert.Contains(t, body, "Found <strong>1</strong> new job(s)")
	assert.NotContains(t, body, "No new jobs found")
}

func TestRenderUnratedPostingUsesUnknownColor(t *testing.T) {
	p := linkedin.NewPosting("1")
	p.Title = "PM"
	postings := &linkedin.Postings{Items: []*linkedin.Posting{p}}

	html, err := Render(postings, scanTime)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "[Unknown]")
	assert.Contains(t, body, "#e2e3e5")
}

func TestRenderEscapesHTML(t *testing.T) {
	p := ratedPosting()
	p.Title = "PM <script>alert(1)</script>"
	postings := &linkedin.Postings{Items: []*linkedin.Posting{p}}

	html, err := Render(postings, scanTime)
	require.NoError(t, err)

	assert.NotContains(t, string(html), "<script>alert(1)</script>")
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_body.html")

	require.NoError(t, Write(path, &linkedin.Postings{}, scanTime))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "No new jobs found")
}

func TestWriteFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "has_new_jobs.txt")

	require.NoError(t, WriteFlag(path, true))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "true", string(raw))

	require.NoError(t, WriteFlag(path, false))
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "false", string(raw))
}
