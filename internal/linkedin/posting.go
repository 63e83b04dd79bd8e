package linkedin

import "fmt"

const (
	// UnknownField marks a card attribute that could not be extracted.
	UnknownField = "Unknown"

	// DescriptionLimit bounds the description excerpt kept on a posting.
	DescriptionLimit = 3000

	jobViewURL = "https://www.linkedin.com/jobs/view/%s/"
)

// Posting is one scraped job listing. Card attributes default to
// UnknownField and the description stays empty when the detail panel fails
// to load; whatever was collected before the failure is kept.
type Posting struct {
	ID          string
	Title       string
	Company     string
	Location    string
	Experience  string
	Salary      string
	Description string
	URL         string

	// Comment is attached after the batch rating step and is the text that
	// gets persisted with the posting.
	Comment string
}

type Postings struct {
	Items []*Posting
}

// NewPosting returns a posting with all card attributes defaulted.
func NewPosting(id string) *Posting {
	return &Posting{
		ID:       id,
		Title:    UnknownField,
		Company:  UnknownField,
		Location: UnknownField,
		URL:      JobURL(id),
	}
}

// JobURL builds the canonical job view URL for a posting id.
func JobURL(id string) string {
	return fmt.Sprintf(jobViewURL, id)
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) IDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, posting := range p.Items {
		ids = append(ids, posting.ID)
	}
	return ids
}

func (p *Postings) FindByID(id string) *Posting {
	for _, posting := range p.Items {
		if posting.ID == id {
			return posting
		}
	}
	return nil
}
