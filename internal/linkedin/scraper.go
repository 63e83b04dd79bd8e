package linkedin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/emmayisun/linkedin-job-tracker/internal/extract"
	"github.com/emmayisun/linkedin-job-tracker/internal/utils"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	cardSelector        = "[data-job-id]"
	titleLinkSelector   = `a[href*="/jobs/view/"]`
	companySelector     = ".artdeco-entity-lockup__subtitle"
	detailsSelector     = "#job-details"
	salaryBadgeSelector = ".job-details-jobs-unified-top-card__job-insight-view-model-secondary span"

	debugScreenshotPath = "debug_screenshot.png"
)

// Client drives a headless browser session against the job search page.
type Client struct {
	// ctx bounds the waits between page interactions.
	ctx    context.Context
	cookie string
	logger *zap.Logger

	UserAgent string
	Headless  bool
}

func New(ctx context.Context, logger *zap.Logger, cookie string) *Client {
	return &Client{
		ctx:       ctx,
		cookie:    cookie,
		logger:    logger,
		UserAgent: defaultUserAgent,
		Headless:  true,
	}
}

// Scrape loads the search results page and extracts one posting per job
// card. An unusable page (expired cookie, changed layout) yields an empty
// list, not an error; a failing card is skipped or kept partial.
func (c *Client) Scrape(params *SearchParams) (*Postings, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(c.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
		UserAgent: playwright.String(c.UserAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("create browser context: %w", err)
	}

	if err := browserCtx.AddCookies([]playwright.OptionalCookie{{
		Name:   "li_at",
		Value:  c.cookie,
		Domain: playwright.String(".linkedin.com"),
		Path:   playwright.String("/"),
	}}); err != nil {
		return nil, fmt.Errorf("set session cookie: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	c.logger.Info("navigating to job search", zap.String("url", params.URL()))
	if _, err := page.Goto(params.URL(), playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return nil, fmt.Errorf("load search page: %w", err)
	}

	// Wait for client-side rendering of the result list.
	if err := utils.WaitFor(c.ctx, 5*time.Second); err != nil {
		return nil, err
	}

	cards, err := page.Locator(cardSelector).All()
	if err != nil {
		return nil, fmt.Errorf("query job cards: %w", err)
	}

	if len(cards) == 0 {
		c.logger.Warn("no job cards found",
			zap.String("hint", "session cookie may be expired or the page layout changed"),
		)
		if _, err := page.Screenshot(playwright.PageScreenshotOptions{
			Path: playwright.String(debugScreenshotPath),
		}); err == nil {
			c.logger.Info("saved debug screenshot", zap.String("path", debugScreenshotPath))
		}
		return &Postings{}, nil
	}

	c.logger.Info("found job cards", zap.Int("count", len(cards)))

	postings := &Postings{}
	for i, card := range cards {
		posting := c.extractCard(page, card)
		if posting == nil {
			continue
		}

		c.logger.Info("scraped posting",
			zap.String("progress", fmt.Sprintf("%d/%d", i+1, len(cards))),
			zap.String("job_id", posting.ID),
			zap.String("title", posting.Title),
			zap.String("company", posting.Company),
		)

		postings.Items = append(postings.Items, posting)
	}

	return postings, nil
}

// extractCard fills a posting field by field. Each step that fails leaves
// its field at the default and later steps still run with whatever has been
// collected so far.
func (c *Client) extractCard(page playwright.Page, card playwright.Locator) *Posting {
	id, err := card.GetAttribute("data-job-id")
	if err != nil || id == "" {
		return nil
	}

	posting := NewPosting(id)

	if title := c.cardTitle(card); title != "" {
		posting.Title = title
	}

	company := card.Locator(companySelector).First()
	if n, err := company.Count(); err == nil && n > 0 {
		if text, err := company.InnerText(); err == nil && strings.TrimSpace(text) != "" {
			posting.Company = strings.TrimSpace(text)
		}
	}

	cardMeta, err := card.Locator("li").AllInnerTexts()
	if err != nil {
		cardMeta = nil
	}
	for i := range cardMeta {
		cardMeta[i] = strings.TrimSpace(cardMeta[i])
	}
	if len(cardMeta) > 0 && cardMeta[0] != "" {
		posting.Location = cardMeta[0]
	}

	description, detailSalary := c.loadDetails(page, card, id)

	salaryMeta := cardMeta
	if detailSalary != "" {
		salaryMeta = append(salaryMeta, detailSalary)
	}

	posting.Salary = extract.Salary(salaryMeta, description)
	posting.Experience = extract.Experience(description)
	posting.Description = utils.TruncateRunes(description, DescriptionLimit)

	return posting
}

func (c *Client) cardTitle(card playwright.Locator) string {
	link := card.Locator(titleLinkSelector).First()
	if n, err := link.Count(); err != nil || n == 0 {
		return ""
	}

	// Prefer the <strong> tag inside the link: the link also carries a
	// visually-hidden span with a "with verification" suffix, which would
	// duplicate the title text.
	strong := link.Locator("strong").First()
	if n, err := strong.Count(); err == nil && n > 0 {
		if text, err := strong.InnerText(); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}

	if text, err := link.InnerText(); err == nil {
		return strings.TrimSpace(text)
	}
	return ""
}

// loadDetails clicks the card and pulls the full description plus the
// salary badge from the detail panel. Any failure returns what was obtained
// up to that point.
func (c *Client) loadDetails(page playwright.Page, card playwright.Locator, id string) (string, string) {
	if err := card.Click(); err != nil {
		c.logger.Warn("clicking job card failed", zap.String("job_id", id), zap.Error(err))
		return "", ""
	}

	if err := utils.WaitFor(c.ctx, utils.Jitter(2*time.Second, 4*time.Second)); err != nil {
		return "", ""
	}

	if _, err := page.WaitForSelector(detailsSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		c.logger.Warn("description panel did not load", zap.String("job_id", id), zap.Error(err))
		return "", ""
	}

	description := ""
	if text, err := page.Locator(detailsSelector).First().InnerText(); err == nil {
		description = strings.TrimSpace(text)
	}

	detailSalary := ""
	badges, err := page.Locator(salaryBadgeSelector).AllInnerTexts()
	if err != nil {
		return description, ""
	}
	for _, badge := range badges {
		badge = strings.TrimSpace(badge)
		if strings.Contains(badge, "$") && strings.Contains(strings.ToLower(badge), "/yr") {
			detailSalary = badge
			break
		}
	}

	return description, detailSalary
}
