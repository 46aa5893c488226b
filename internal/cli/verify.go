package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/ingest"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
)

var (
	claimText     string
	filePaths     []string
	sourceURLs    []string
	urlsFile      string
	jsonOutput    bool
	noCache       bool
	judgeProvider string
	judgeModel    string
	judgeTimeout  time.Duration
	respectRobots bool
	insecureTLS   bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify one claim against files and web pages",
	Long: `Verify ingests every source given on the command line, one at a time,
then asks the judge whether the sources support the claim.

Sources that cannot be admitted or fetched are reported and skipped.
Verification needs at least one source.

Example:
  claimcheck verify --claim "The Eiffel Tower is 330 m tall" --url https://en.wikipedia.org/wiki/Eiffel_Tower
  claimcheck verify --claim "..." --file report.pdf --file notes.txt
  claimcheck verify --claim "..." --urls-file urls.txt --provider anthropic --json`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&claimText, "claim", "c", "", "claim to verify (required)")
	verifyCmd.Flags().StringArrayVarP(&filePaths, "file", "f", nil, "local source file (repeatable)")
	verifyCmd.Flags().StringArrayVarP(&sourceURLs, "url", "u", nil, "web page source (repeatable)")
	verifyCmd.Flags().StringVar(&urlsFile, "urls-file", "", "file with one URL per line")
	verifyCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the verdict as JSON")

	addSourceFlags(verifyCmd)
	addJudgeFlags(verifyCmd)

	_ = verifyCmd.MarkFlagRequired("claim")
}

// addSourceFlags registers flags shared by commands that fetch pages
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the page cache (force fresh fetch)")
	cmd.Flags().BoolVar(&respectRobots, "robots", false, "honour robots.txt before fetching")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
}

// addJudgeFlags registers flags that select the judge
func addJudgeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&judgeProvider, "provider", "", "judge provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&judgeModel, "model", "", "judge model name")
	cmd.Flags().DurationVar(&judgeTimeout, "timeout", 0, "judge request timeout (0 uses the configured value)")
}

// buildConfig loads configuration and applies flags set on cmd
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("robots") {
		cfg.HTTP.RespectRobots = respectRobots
	}
	if flags.Changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
	if flags.Changed("json") {
		cfg.Output.JSON = jsonOutput
	}

	if flags.Changed("provider") && judgeProvider != cfg.Judge.Provider {
		cfg.Judge.Provider = judgeProvider
		// Credentials belong to the provider they were configured for
		cfg.Judge.APIKey = ""
		cfg.Judge.BaseURL = ""
		if !flags.Changed("model") {
			cfg.Judge.Model = defaultModel(judgeProvider)
		}
		resolveCredentials(cfg)
	}
	if flags.Changed("model") {
		cfg.Judge.Model = judgeModel
	}
	if judgeTimeout > 0 {
		cfg.Judge.Timeout = judgeTimeout
	}

	return cfg, nil
}

func defaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic", "claude":
		return "claude-3-5-haiku-latest"
	case "ollama":
		return "llama3.1"
	default:
		return model.DefaultConfig().Judge.Model
	}
}

// signalContext is cancelled on interrupt
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runVerify(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(claimText) == "" {
		return model.ErrEmptyClaim
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	renderer := pipeline.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output.Verbose)
	session := pipeline.NewSession(*cfg, pipeline.WithObserver(renderer.Observe))

	if err := addSources(ctx, cmd, session); err != nil {
		return err
	}
	files, urls := session.Counts()
	log.Debug().Int("files", files).Int("urls", urls).Msg("sources ingested")

	verdict, err := session.Verify(ctx, claimText)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if cfg.Output.JSON {
		return renderer.RenderJSON(verdict)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	renderer.RenderVerdict(verdict)
	return nil
}

// addSources ingests --file, --url and --urls-file inputs in that order.
// Individual failures are reported by the session observer.
func addSources(ctx context.Context, cmd *cobra.Command, session *pipeline.Session) error {
	var files []model.File
	for _, path := range filePaths {
		f, err := ingest.OpenFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
			continue
		}
		files = append(files, f)
	}
	if len(files) > 0 {
		session.AddFiles(ctx, files)
	}

	urls := append([]string(nil), sourceURLs...)
	if urlsFile != "" {
		fromFile, err := ingest.ReadURLsFromFile(urlsFile)
		if err != nil {
			return fmt.Errorf("read URLs file: %w", err)
		}
		urls = append(urls, fromFile...)
	}

	for _, u := range urls {
		if _, err := session.AddURL(ctx, u); err != nil && errors.Is(err, context.Canceled) {
			return err
		}
	}
	return nil
}
