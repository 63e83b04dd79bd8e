package rating

import (
	"regexp"
	"strings"
)

const bulletPrefix = "- "

// ratingAnchor also admits Unknown so that every comment Synthesize can
// produce round-trips through ExtractRating, even when a bullet happens to
// mention one of the rated words.
var ratingAnchor = regexp.MustCompile(`(?i)Rating:\s*(High|Medium|Low|Unknown)`)

var ratingLine = regexp.MustCompile(`(?i)Rating:\s*(High|Medium|Low|Unknown)\s*\n?`)

// Synthesize renders an assessment as the comment text persisted with a
// posting: the rating on its own line, then one marker-prefixed line per
// bullet in order.
func Synthesize(a *Assessment) string {
	var b strings.Builder
	b.WriteString("Rating: ")
	b.WriteString(string(a.Rating))
	for _, bullet := range a.Bullets {
		b.WriteString("\n")
		b.WriteString(bulletPrefix)
		b.WriteString(bullet)
	}
	return b.String()
}

// ExtractRating recovers the rating from a previously synthesized comment.
// The anchored "Rating: <value>" form wins; otherwise the text is searched
// for any of the rated words, and a comment with neither yields Unknown.
func ExtractRating(comment string) Rating {
	if match := ratingAnchor.FindStringSubmatch(comment); match != nil {
		return Parse(match[1])
	}

	lower := strings.ToLower(comment)
	for _, r := range []Rating{High, Medium, Low} {
		if strings.Contains(lower, strings.ToLower(string(r))) {
			return r
		}
	}

	return Unknown
}

// Bullets returns the bullet lines of a synthesized comment, in order.
func Bullets(comment string) []string {
	stripped := ratingLine.ReplaceAllString(comment, "")

	var bullets []string
	for _, line := range strings.Split(stripped, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), bulletPrefix))
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}
