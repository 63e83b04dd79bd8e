package cmd

import (
	"errors"
	"log"

	"github.com/emmayisun/linkedin-job-tracker/internal/linkedin"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "linkedin-job-tracker"

	envCookie  = "LI_AT_COOKIE"
	envAPIKey  = "GEMINI_API_KEY"
	envRunHour = "RUN_HOUR"
)

type Config struct {
	Search     *linkedin.SearchParams `mapstructure:"search"`
	Profile    string                 `mapstructure:"profile"`
	CookieFile string                 `mapstructure:"cookie-file"`
	UserAgent  string                 `mapstructure:"user-agent"`
	Output     *OutputConfig          `mapstructure:"output"`
	Gemini     *GeminiConfig          `mapstructure:"gemini"`
}

type OutputConfig struct {
	CSVFile  string `mapstructure:"csv-file"`
	HTMLFile string `mapstructure:"html-file"`
	FlagFile string `mapstructure:"flag-file"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "linkedin-job-tracker scrapes a job search page, rates new postings against a candidate profile, and keeps an append-only tracker",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("cookie-file", "LI_AT_COOKIE_FILE"); err != nil {
		log.Fatalf("binding LI_AT_COOKIE_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("run-hour", envRunHour); err != nil {
		log.Fatalf("binding RUN_HOUR environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is "+app+".yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	// Local development secrets live in a .env file.
	_ = godotenv.Load()

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly requested config file must parse.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")

	// The defaults are a complete configuration, so a missing default
	// config file is fine; a present but broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func setDefaults() {
	viper.SetDefault("search.keywords", "product manager")
	viper.SetDefault("search.geo-id", "90000084")
	viper.SetDefault("search.distance", 25)
	viper.SetDefault("search.sort-by", "DD")
	viper.SetDefault("search.spell-correction", true)
	viper.SetDefault("search.overnight-hour", "")

	viper.SetDefault("output.csv-file", "jobs.csv")
	viper.SetDefault("output.html-file", "email_body.html")
	viper.SetDefault("output.flag-file", "has_new_jobs.txt")

	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.max-log-length", 200)
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
