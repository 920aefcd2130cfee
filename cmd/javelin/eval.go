package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"javelin/internal/engine"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] <file>...",
	Short: "Evaluate snippet files non-interactively",
	Long: `Evaluate blank-line-separated snippets from each file in submission order.
Every file gets its own session; files run concurrently, one session per worker.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().Int("jobs", runtime.NumCPU(), "maximum number of files evaluated concurrently")
}

func runEval(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs < 1 {
		jobs = 1
	}

	opts, _, err := sessionOptions()
	if err != nil {
		return err
	}

	outputs := make([]string, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			out, err := evalFile(ctx, opts, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, out := range outputs {
		if len(args) > 1 {
			fmt.Printf("== %s\n", args[i])
		}
		fmt.Print(out)
	}
	return nil
}

// evalFile evaluates one snippet file in its own session.
func evalFile(ctx context.Context, opts engine.Options, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	eng, err := engine.New(opts)
	if err != nil {
		return "", err
	}
	defer eng.Close()

	var b strings.Builder
	for _, snippet := range splitSnippets(string(content)) {
		ev, err := eng.Evaluate(ctx, snippet)
		if err != nil {
			return b.String(), err
		}
		if res, ok := ev.Result(); ok {
			fmt.Fprintf(&b, "%s\n", res)
		}
	}
	return b.String(), nil
}

// splitSnippets breaks file content into blank-line-separated snippet blocks.
func splitSnippets(content string) []string {
	var snippets []string
	for _, block := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			snippets = append(snippets, block)
		}
	}
	return snippets
}
