// Package extract derives structured posting attributes from unstructured
// text with ordered, first-match-wins rule lists.
package extract

import (
	"fmt"
	"regexp"
)

const (
	// NotSpecified is returned when no experience requirement is found.
	NotSpecified = "Not specified"
	// NotListed is returned when no salary figure is found.
	NotListed = "Not listed"
)

// experienceRules are tried in order; the first match wins. Rules anchored
// on the word "experience" take priority so that "3-5 years of experience"
// is not claimed by the looser bare-range patterns.
var experienceRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*[-–]?\s*(\d+)?\+?\s*years?\s+(?:of\s+)?(?:relevant\s+)?(?:professional\s+)?experience`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s+(?:of\s+)?(?:relevant\s+)?(?:professional\s+)?experience`),
	regexp.MustCompile(`(?i)(\d+)\s*[-–]\s*(\d+)\s*years?`),
	regexp.MustCompile(`(?i)(\d+)\+\s*years?`),
	regexp.MustCompile(`(?i)minimum\s+(?:of\s+)?(\d+)\s*years?`),
	regexp.MustCompile(`(?i)at\s+least\s+(\d+)\s*years?`),
}

// salaryPattern matches a dollar amount with optional thousands separators,
// decimal part, K suffix and /yr suffix, optionally followed by a second
// amount. The range separator is a real alternation, so the word "to" only
// matches as a whole word between the two amounts.
var salaryPattern = regexp.MustCompile(`\$[\d,]+(?:\.\d+)?[Kk]?(?:/yr)?(?:\s*(?:[-–—]|to)\s*\$[\d,]+(?:\.\d+)?[Kk]?(?:/yr)?)?`)

// Experience extracts a years-of-experience requirement from free text.
// Two captured bounds render as "low-high years", a single bound as
// "n+ years". Only the first occurrence in the text is considered.
func Experience(text string) string {
	for _, rule := range experienceRules {
		match := rule.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		groups := make([]string, 0, 2)
		for _, g := range match[1:] {
			if g != "" {
				groups = append(groups, g)
			}
		}

		if len(groups) == 2 {
			return fmt.Sprintf("%s-%s years", groups[0], groups[1])
		}
		return fmt.Sprintf("%s+ years", groups[0])
	}

	return NotSpecified
}

// Salary extracts a salary figure, checking the structured card metadata
// strings before falling back to the description text. Metadata badges are
// far less likely to contain an unrelated dollar figure than free-form
// description prose, hence the priority order.
func Salary(meta []string, description string) string {
	for _, m := range meta {
		if match := salaryPattern.FindString(m); match != "" {
			return match
		}
	}

	if match := salaryPattern.FindString(description); match != "" {
		return match
	}

	return NotListed
}
