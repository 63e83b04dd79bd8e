package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"
	"github.com/emmayisun/linkedin-job-tracker/internal/logger"
	"github.com/emmayisun/linkedin-job-tracker/internal/rating"
	"github.com/emmayisun/linkedin-job-tracker/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	// promptDescriptionLimit bounds the description excerpt embedded in the
	// rating prompt, independently of the excerpt kept for storage.
	promptDescriptionLimit = 2000

	defaultMaxLogLength = 200

	maxBullets = 3
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Rater scores a whole batch of postings with a single Gemini request.
type Rater struct {
	generator contentGenerator
	profile   string
	logger    *zap.Logger
	maxLogLen int
}

func NewRater(generator contentGenerator, profile string, maxLogLength int, log *zap.Logger) *Rater {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Rater{
		generator: generator,
		profile:   profile,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// ratingRecord is one entry of the structured batch response.
type ratingRecord struct {
	JobID   string   `mapstructure:"job_id"`
	Rating  string   `mapstructure:"rating"`
	Bullets []string `mapstructure:"bullets"`
}

// Rate sends one request covering every posting and maps the response back
// by job id. Every input posting gets exactly one assessment: postings the
// model omitted degrade to Unknown with a placeholder bullet, and a failed
// request or unparseable response degrades the whole batch the same way.
// Rate never fails the run.
func (r *Rater) Rate(ctx context.Context, postings *linkedin.Postings) map[string]*rating.Assessment {
	prompt, err := r.buildPrompt(postings)
	if err != nil {
		r.logger.Warn("building rating prompt failed", zap.Error(err))
		return rating.Fallback(postings, rating.PlaceholderError)
	}

	r.logger.Debug("gemini batch rating request",
		zap.String("model", r.generator.Model()),
		zap.Int("postings", postings.Len()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		r.logger.Warn("batch rating request failed", zap.Error(err))
		return rating.Fallback(postings, rating.PlaceholderError)
	}

	r.logger.Debug("gemini batch rating response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
	)

	records, err := parseResponse(raw)
	if err != nil {
		r.logger.Warn("batch rating response is not parseable",
			zap.Error(err),
			zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
		)
		return rating.Fallback(postings, rating.PlaceholderError)
	}

	byID := make(map[string]*ratingRecord, len(records))
	for i := range records {
		byID[records[i].JobID] = &records[i]
	}

	assessments := make(map[string]*rating.Assessment, postings.Len())
	for _, posting := range postings.Items {
		record, ok := byID[posting.ID]
		if !ok {
			r.logger.Warn("rating response omitted posting", zap.String("job_id", posting.ID))
			assessments[posting.ID] = &rating.Assessment{
				Rating:  rating.Unknown,
				Bullets: []string{rating.PlaceholderOmitted},
			}
			continue
		}

		assessments[posting.ID] = &rating.Assessment{
			Rating:  rating.Parse(record.Rating),
			Bullets: normalizeBullets(record.Bullets),
		}
	}

	return assessments
}

func (r *Rater) buildPrompt(postings *linkedin.Postings) (string, error) {
	payload := make([]map[string]string, 0, postings.Len())
	for _, posting := range postings.Items {
		payload = append(payload, map[string]string{
			"job_id":      posting.ID,
			"title":       posting.Title,
			"company":     posting.Company,
			"description": utils.TruncateRunes(posting.Description, promptDescriptionLimit),
		})
	}

	postingsJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal postings payload: %w", err)
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{PROFILE}}", r.profile)
	prompt = strings.ReplaceAll(prompt, "{{POSTINGS_JSON}}", string(postingsJSON))
	return prompt, nil
}

func parseResponse(raw string) ([]ratingRecord, error) {
	cleaned := extractJSON(raw)

	var data []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var records []ratingRecord
	if err := mapstructure.Decode(data, &records); err != nil {
		return nil, fmt.Errorf("decode rating records: %w", err)
	}

	return records, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func normalizeBullets(bullets []string) []string {
	cleaned := make([]string, 0, maxBullets)
	for _, bullet := range bullets {
		bullet = strings.TrimSpace(bullet)
		if bullet == "" {
			continue
		}
		cleaned = append(cleaned, bullet)
		if len(cleaned) == maxBullets {
			break
		}
	}

	if len(cleaned) == 0 {
		return []string{rating.PlaceholderOmitted}
	}
	return cleaned
}
