// Package store persists run records to an append-only CSV file and derives
// the seen-set used for deduplication.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"
)

// TimestampFormat is the layout of the timestamp column; records are always
// stamped in UTC.
const TimestampFormat = "2006-01-02 15:04 UTC"

// Columns is the fixed header of the store file. The header is written once
// when the file is created and existing rows are never rewritten.
var Columns = []string{
	"timestamp",
	"job_id",
	"job_title",
	"company",
	"location",
	"experience_years",
	"salary",
	"comment",
	"job_url",
}

const jobIDColumn = "job_id"

// Record is one persisted row.
type Record struct {
	Timestamp  string
	JobID      string
	Title      string
	Company    string
	Location   string
	Experience string
	Salary     string
	Comment    string
	URL        string
}

// RecordFrom merges a posting into a run record stamped with the given time.
func RecordFrom(at time.Time, p *linkedin.Posting) Record {
	return Record{
		Timestamp:  at.UTC().Format(TimestampFormat),
		JobID:      p.ID,
		Title:      p.Title,
		Company:    p.Company,
		Location:   p.Location,
		Experience: p.Experience,
		Salary:     p.Salary,
		Comment:    p.Comment,
		URL:        p.URL,
	}
}

func (r Record) row() []string {
	return []string{
		r.Timestamp,
		r.JobID,
		r.Title,
		r.Company,
		r.Location,
		r.Experience,
		r.Salary,
		r.Comment,
		r.URL,
	}
}

type Store struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// SeenIDs returns the set of job ids across all persisted records. A store
// file that does not exist yet yields an empty set, not an error.
func (s *Store) SeenIDs() (mapset.Set[string], error) {
	seen := mapset.NewSet[string]()

	file, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open store file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store header: %w", err)
	}

	idx := -1
	for i, name := range header {
		if name == jobIDColumn {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("store file %q has no %s column", s.path, jobIDColumn)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read store row: %w", err)
		}
		if idx < len(row) && row[idx] != "" {
			seen.Add(row[idx])
		}
	}

	return seen, nil
}

// Append writes the records to the end of the store file, creating it with
// the header row first when needed. Appending is the only mutation the store
// supports.
func (s *Store) Append(records []Record) error {
	writeHeader := false
	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		writeHeader = true
	case err != nil:
		return fmt.Errorf("stat store file: %w", err)
	default:
		writeHeader = info.Size() == 0
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open store file for append: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if writeHeader {
		if err := writer.Write(Columns); err != nil {
			return fmt.Errorf("write store header: %w", err)
		}
	}

	for _, record := range records {
		if err := writer.Write(record.row()); err != nil {
			return fmt.Errorf("write store row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush store file: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("appended run records", zap.Int("count", len(records)), zap.String("path", s.path))
	}

	return nil
}
