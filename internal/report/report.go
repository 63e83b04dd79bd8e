// Package report renders the HTML run summary and the run-result flag
// consumed by the external scheduler.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"time"

	_ "embed"

	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"
	"github.com/emmayisun/linkedin-job-tracker/internal/rating"
)

//go:embed report.html.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

// ratingColors keys the comment cell background by rating.
var ratingColors = map[rating.Rating]string{
	rating.High:    "#d4edda",
	rating.Medium:  "#fff3cd",
	rating.Low:     "#f8d7da",
	rating.Unknown: "#e2e3e5",
}

type row struct {
	Title      string
	Company    string
	Experience string
	Salary     string
	URL        string
	Rating     rating.Rating
	Color      string
	Bullets    []string
}

type data struct {
	ScanTime string
	Count    int
	Rows     []row
}

// Render formats the rated postings as a standalone HTML document. An empty
// list renders a "no new postings" notice in place of the table.
func Render(postings *linkedin.Postings, scanTime time.Time) ([]byte, error) {
	d := data{
		ScanTime: scanTime.UTC().Format("2006-01-02 15:04 UTC"),
		Count:    postings.Len(),
	}

	for _, posting := range postings.Items {
		r := rating.ExtractRating(posting.Comment)
		d.Rows = append(d.Rows, row{
			Title:      posting.Title,
			Company:    posting.Company,
			Experience: posting.Experience,
			Salary:     posting.Salary,
			URL:        posting.URL,
			Rating:     r,
			Color:      ratingColors[r],
			Bullets:    rating.Bullets(posting.Comment),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	return buf.Bytes(), nil
}

// Write renders the report and overwrites the file at path.
func Write(path string, postings *linkedin.Postings, scanTime time.Time) error {
	html, err := Render(postings, scanTime)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, html, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteFlag overwrites the run-result flag artifact with the literal string
// "true" or "false".
func WriteFlag(path string, found bool) error {
	if err := os.WriteFile(path, []byte(strconv.FormatBool(found)), 0o644); err != nil {
		return fmt.Errorf("write run-result flag: %w", err)
	}
	return nil
}
