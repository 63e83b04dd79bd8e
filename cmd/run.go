package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/emmayisun/linkedin-job-tracker/internal/filtering"
	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"
	"github.com/emmayisun/linkedin-job-tracker/internal/logger"
	"github.com/emmayisun/linkedin-job-tracker/internal/rating"
	"github.com/emmayisun/linkedin-job-tracker/internal/rating/gemini"
	"github.com/emmayisun/linkedin-job-tracker/internal/report"
	"github.com/emmayisun/linkedin-job-tracker/internal/secrets"
	"github.com/emmayisun/linkedin-job-tracker/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	// defaultProfile is the built-in candidate profile used when none is
	// configured. It is read-only configuration for the rating client.
	defaultProfile = "A product manager targeting enterprise AI product management roles " +
		"at reputable companies. Prefers roles centered on AI/ML platforms, applied AI " +
		"products, or AI infrastructure for business customers."
)

var prompt = promptui.Select{
	Label: "Persist these postings and update the report?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scrape-rate-persist cycle",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before persisting results")
	runCmd.Flags().Bool("dry-run", false, "scrape and rate but do not touch the store, report, or flag")
	runCmd.Flags().Bool("headful", false, "run the browser with a visible window")
	runCmd.Flags().StringP("csv-file", "o", "", "override the tracker CSV path")

	viper.BindPFlag("output.csv-file", runCmd.Flags().Lookup("csv-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	zlog.Info("starting the linkedin-job-tracker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	zlog.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.Search == nil || config.Output == nil || config.Gemini == nil {
		zlog.Fatal("config is required")
	}

	// Credentials are resolved before any network activity; missing ones
	// are the only condition that aborts the whole run.
	cookie, err := secrets.Load(secrets.Source{
		Name: "linkedin session cookie",
		File: config.CookieFile,
		Env:  envCookie,
	})
	if err != nil {
		zlog.Fatal("loading linkedin session cookie",
			zap.Error(err),
			zap.String("hint", "set LI_AT_COOKIE, LI_AT_COOKIE_FILE, or the 'cookie-file' key in the configuration file"),
		)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
		Env:  envAPIKey,
	})
	if err != nil {
		zlog.Fatal("loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE, or the 'gemini.api-key-file' key in the configuration file"),
		)
	}

	tracker := store.New(config.Output.CSVFile, zlog)

	seen, err := tracker.SeenIDs()
	if err != nil {
		zlog.Fatal("loading seen job ids", zap.Error(err))
	}
	zlog.Info("loaded seen job ids", zap.Int("count", seen.Cardinality()))

	scraper := linkedin.New(ctx, zlog, cookie)
	if config.UserAgent != "" {
		scraper.UserAgent = config.UserAgent
	}
	if cmd.Flag("headful").Value.String() == "true" {
		scraper.Headless = false
	}

	params := config.Search
	params.Lookback = linkedin.LookbackWindow(viper.GetString("run-hour"), params.OvernightHour)

	zlog.Info("starting the search",
		zap.String("keywords", params.Keywords),
		zap.Duration("lookback", params.Lookback),
	)

	postings, err := scraper.Scrape(params)
	if err != nil {
		zlog.Warn("scraping failed", zap.Error(err))
		postings = &linkedin.Postings{}
	}

	if postings.Len() == 0 {
		zlog.Warn("no postings scraped this run")
		finishEmpty(config, zlog)
		return
	}

	zlog.Info("scraped postings", zap.Int("count", postings.Len()))

	filters := filtering.New([]filtering.Filter{
		filtering.NewDropEmpty(),
		filtering.NewSeen(seen),
	}, zlog)

	fresh, err := filters.Run(ctx, postings)
	if err != nil {
		zlog.Fatal("filtering failed", zap.Error(err))
	}

	if fresh.Len() == 0 {
		zlog.Info("no new postings after filters")
		finishEmpty(config, zlog)
		return
	}

	zlog.Info("rating new postings", zap.Int("count", fresh.Len()))
	assessments := rateBatch(ctx, config, apiKey, fresh, zlog)

	for _, posting := range fresh.Items {
		posting.Comment = rating.Synthesize(assessments[posting.ID])
	}

	if cmd.Flag("dry-run").Value.String() == "true" {
		summarize(fresh, zlog)
		zlog.Info("dry run requested; store, report, and flag untouched")
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "false" {
		summarize(fresh, zlog)
		_, action, err := prompt.Run()
		if err != nil {
			zlog.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			zlog.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	now := time.Now().UTC()

	records := make([]store.Record, 0, fresh.Len())
	for _, posting := range fresh.Items {
		records = append(records, store.RecordFrom(now, posting))
	}

	if err := tracker.Append(records); err != nil {
		zlog.Fatal("persisting run records", zap.Error(err))
	}

	if err := report.Write(config.Output.HTMLFile, fresh, now); err != nil {
		zlog.Fatal("writing the report", zap.Error(err))
	}

	if err := report.WriteFlag(config.Output.FlagFile, true); err != nil {
		zlog.Fatal("writing the run-result flag", zap.Error(err))
	}

	summarize(fresh, zlog)
}

// rateBatch builds the Gemini rater and scores the batch. A rating-service
// failure of any kind degrades to Unknown assessments; it never aborts the
// run.
func rateBatch(ctx context.Context, config *Config, apiKey string, postings *linkedin.Postings, zlog *zap.Logger) map[string]*rating.Assessment {
	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model)
	if err != nil {
		zlog.Warn("rating service unavailable", zap.Error(err))
		return rating.Fallback(postings, rating.PlaceholderError)
	}

	profile := config.Profile
	if profile == "" {
		profile = defaultProfile
	}

	raterLogger := zlog.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	rater := gemini.NewRater(generator, profile, config.Gemini.MaxLogLength, raterLogger)
	return rater.Rate(ctx, postings)
}

// finishEmpty produces the empty-result report and the "false" flag so the
// external scheduler knows there is nothing to notify about.
func finishEmpty(config *Config, zlog *zap.Logger) {
	now := time.Now().UTC()

	if err := report.Write(config.Output.HTMLFile, &linkedin.Postings{}, now); err != nil {
		zlog.Error("writing the empty report", zap.Error(err))
	}

	if err := report.WriteFlag(config.Output.FlagFile, false); err != nil {
		zlog.Error("writing the run-result flag", zap.Error(err))
	}

	zlog.Info("done", zap.String("reason", "nothing to report"))
}

func summarize(postings *linkedin.Postings, zlog *zap.Logger) {
	for _, posting := range postings.Items {
		zlog.Info("new posting",
			zap.String("rating", string(rating.ExtractRating(posting.Comment))),
			zap.String("title", posting.Title),
			zap.String("company", posting.Company),
			zap.String("salary", posting.Salary),
			zap.String("url", posting.URL),
		)
	}
}
