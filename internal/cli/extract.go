package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/ingest"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/validate"
)

var extractTools bool

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <path|url>",
	Short: "Show the text claimcheck would send to the judge for one source",
	Long: `Extract runs a single file or web page through the same admission and
extraction steps used by verify, and prints the resulting text. No judge
is contacted.

Example:
  claimcheck extract report.pdf
  claimcheck extract https://example.com/article
  claimcheck extract --tools`,
	Args: func(cmd *cobra.Command, args []string) error {
		if extractTools {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractTools, "tools", false, "report which extraction tools are installed")
	addSourceFlags(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if extractTools {
		printTools(cmd, cfg)
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	renderer := pipeline.NewRenderer(out, cmd.ErrOrStderr(), cfg.Output.Verbose)
	session := pipeline.NewSession(*cfg, pipeline.WithObserver(renderer.Observe))

	target := strings.TrimSpace(args[0])
	var src *model.Source

	if validate.ValidateURL(target) {
		src, err = session.AddURL(ctx, target)
		if err != nil {
			return err
		}
	} else {
		f, err := ingest.OpenFile(target)
		if err != nil {
			return err
		}
		result := session.AddFiles(ctx, []model.File{f})[0]
		if result.Err != nil {
			return result.Err
		}
		src = result.Source
	}

	if cfg.Output.JSON {
		return renderer.RenderJSON(src)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "  %s\n", src.Label)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(out)
	fmt.Fprintln(out, src.Content)
	return nil
}

func printTools(cmd *cobra.Command, cfg *model.Config) {
	out := cmd.OutOrStdout()
	ex := extract.New(cfg.Extract)

	tools := []struct{ label, name string }{
		{"PDF", cfg.Extract.PDFToText},
		{"Word .doc", cfg.Extract.Antiword},
		{"Images (OCR)", cfg.Extract.Tesseract},
	}

	missing := false
	for _, tool := range tools {
		if ex.Available(tool.name) {
			fmt.Fprintf(out, "✓ %-13s %s\n", tool.label, tool.name)
			continue
		}
		missing = true
		fmt.Fprintf(out, "✗ %-13s %s not found\n", tool.label, tool.name)
	}
	fmt.Fprintf(out, "✓ %-13s built in\n", "Word .docx")

	if missing {
		fmt.Fprintln(out)
		fmt.Fprintln(out, extract.InstallInstructions())
	}
}
