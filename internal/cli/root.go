package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimcheck/internal/model"
)

const version = "claimcheck v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimcheck",
	Short: "Claimcheck - verify a claim against the sources you give it",
	Long: `Claimcheck checks one factual claim against a set of sources you supply:
local files (text, PDF, Word, images) and web pages.

All source text is sent together with the claim to a language model that
acts as judge. The verdict is one of Supported, Contradicted, Partially
Supported or Insufficient Evidence, followed by the judge's reasoning.

Claimcheck only weighs the sources you give it. It does not search the web.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of claimcheck.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimcheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in the config file, .env and ENV variables
func initConfig() {
	// A missing .env is the normal case
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.claimcheck")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CLAIMCHECK_JUDGE_MODEL overrides judge.model, and so on
	viper.SetEnvPrefix("CLAIMCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func setupLogging(debug bool) {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
}

// envKeys are the settings that CLAIMCHECK_* variables may override.
// The API key is read here too, but is never written back out.
var envKeys = []string{
	"http.timeout", "http.user_agent", "http.max_body_bytes", "http.insecure_tls", "http.respect_robots",
	"http.http_proxy", "http.https_proxy", "http.no_proxy",
	"judge.provider", "judge.model", "judge.api_key", "judge.base_url", "judge.timeout",
	"judge.temperature", "judge.max_tokens", "judge.max_evidence_chars",
	"extract.max_file_bytes", "extract.pdftotext", "extract.antiword", "extract.tesseract", "extract.ocr_language",
	"cache.enabled", "cache.ttl",
	"rate_limiting.requests_per_second", "rate_limiting.burst_size",
	"output.json",
}

// loadConfig layers the config file and CLAIMCHECK_* variables over the
// defaults, then resolves the judge credential for the chosen provider.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	resolveCredentials(cfg)
	return cfg, nil
}

// resolveCredentials fills the API key and base URL from the provider's
// conventional environment variables when the config leaves them empty.
func resolveCredentials(cfg *model.Config) {
	switch strings.ToLower(cfg.Judge.Provider) {
	case "", "openai":
		if cfg.Judge.APIKey == "" {
			cfg.Judge.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.Judge.APIKey == "" {
			cfg.Judge.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.Judge.BaseURL == "" {
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.Judge.BaseURL = ollamaAPIBase(baseURL)
			}
		}
	}
}

// ollamaAPIBase turns an Ollama server address into its OpenAI-compatible endpoint
func ollamaAPIBase(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL
	}
	return baseURL + "/v1"
}
