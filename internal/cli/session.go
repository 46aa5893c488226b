package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/ingest"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
)

var pendingClaim string

// sessionCmd represents the interactive session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Collect sources interactively and verify claims against them",
	Long: `Session starts an interactive prompt that keeps a set of sources in memory
until you quit. Add files and pages, remove the ones you do not want, and
verify as many claims as you like against the current set.

A claim passed with --claim (or CLAIMCHECK_PENDING_CLAIM) is pre-filled and
used by a bare "verify".

Commands:
  add <path> [path...]   add local files, processed one at a time
                         (quote paths that contain spaces)
  fetch <url>            add a web page
  list                   list current sources
  remove <index>         remove a source by its index in "list"
  claim <text>           set the claim
  verify [text]          verify the claim (or the given text)
  help                   show this help
  quit                   end the session`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)

	sessionCmd.Flags().StringVarP(&pendingClaim, "claim", "c", "", "claim to start with")
	addSourceFlags(sessionCmd)
	addJudgeFlags(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	claim := pendingClaim
	if claim == "" {
		claim = os.Getenv("CLAIMCHECK_PENDING_CLAIM")
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	renderer := pipeline.NewRenderer(out, cmd.ErrOrStderr(), cfg.Output.Verbose)
	session := pipeline.NewSession(*cfg,
		pipeline.WithObserver(renderer.Observe),
		pipeline.WithPendingClaim(claim),
	)

	r := &repl{
		session:  session,
		renderer: renderer,
		out:      out,
		claim:    session.PendingClaim(),
	}
	return r.run(ctx, cmd.InOrStdin())
}

// repl reads one command per line until quit or end of input
type repl struct {
	session  *pipeline.Session
	renderer *pipeline.Renderer
	out      io.Writer
	claim    string
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(r.out, "claimcheck session (judge: %s). Type \"help\" for commands.\n", r.session.Judge().Name())
	if r.claim != "" {
		fmt.Fprintf(r.out, "Claim: %s\n", r.claim)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if quit := r.dispatch(ctx, strings.ToLower(name), rest); quit {
			return nil
		}
	}

	fmt.Fprintln(r.out)
	return scanner.Err()
}

// dispatch runs one command and reports whether the session should end
func (r *repl) dispatch(ctx context.Context, name, arg string) bool {
	switch name {
	case "add":
		r.add(ctx, splitPaths(arg))
	case "fetch":
		if arg == "" {
			fmt.Fprintln(r.out, "usage: fetch <url>")
			return false
		}
		// Failures are reported by the observer
		_, _ = r.session.AddURL(ctx, arg)
	case "list", "ls":
		r.renderer.RenderSources(r.session.Sources())
	case "remove", "rm":
		r.remove(arg)
	case "claim":
		if arg == "" {
			if r.claim == "" {
				fmt.Fprintln(r.out, "No claim set.")
			} else {
				fmt.Fprintf(r.out, "Claim: %s\n", r.claim)
			}
			return false
		}
		r.claim = arg
		fmt.Fprintln(r.out, "✓ Claim set")
	case "verify":
		if arg != "" {
			r.claim = arg
		}
		r.verify(ctx)
	case "help", "?":
		fmt.Fprintln(r.out, sessionHelp)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(r.out, "Unknown command %q. Type \"help\" for commands.\n", name)
	}
	return false
}

func (r *repl) add(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		fmt.Fprintln(r.out, "usage: add <path> [path...]")
		return
	}

	files := make([]model.File, 0, len(paths))
	for _, path := range paths {
		f, err := ingest.OpenFile(path)
		if err != nil {
			fmt.Fprintf(r.out, "✗ %s: %v\n", path, err)
			continue
		}
		files = append(files, f)
	}
	r.session.AddFiles(ctx, files)
}

// splitPaths splits an add argument into paths. Single or double quotes
// group a path containing spaces. An unquoted argument that names an
// existing file is taken whole.
func splitPaths(arg string) []string {
	if !strings.ContainsAny(arg, `"'`) {
		if info, err := os.Stat(arg); err == nil && !info.IsDir() {
			return []string{arg}
		}
	}

	var (
		paths   []string
		current strings.Builder
		quote   rune
		inToken bool
	)
	for _, c := range arg {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				continue
			}
			current.WriteRune(c)
		case c == '"' || c == '\'':
			quote = c
			inToken = true
		case c == ' ' || c == '\t':
			if inToken {
				paths = append(paths, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(c)
			inToken = true
		}
	}
	if inToken {
		paths = append(paths, current.String())
	}
	return paths
}

func (r *repl) remove(arg string) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintln(r.out, "usage: remove <index>")
		return
	}
	if _, ok := r.session.Remove(index); !ok {
		fmt.Fprintf(r.out, "No source at index %d.\n", index)
	}
}

func (r *repl) verify(ctx context.Context) {
	verdict, err := r.session.Verify(ctx, r.claim)
	if err != nil {
		fmt.Fprintf(r.out, "✗ %v\n", err)
		return
	}
	fmt.Fprintln(r.out)
	r.renderer.RenderVerdict(verdict)
	fmt.Fprintln(r.out)
}

const sessionHelp = `Commands:
  add <path> [path...]   add local files
  fetch <url>            add a web page
  list                   list current sources
  remove <index>         remove a source
  claim [text]           show or set the claim
  verify [text]          verify the claim
  quit                   end the session`
