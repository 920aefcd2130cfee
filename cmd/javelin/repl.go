package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"javelin/internal/engine"
	"javelin/internal/fragment"
	"javelin/internal/history"
	"javelin/internal/session"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive console",
	Long:  `Evaluate Java snippets interactively; declarations and bindings accumulate across inputs`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd)
	},
}

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	resultColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
	noteColor   = color.New(color.Faint)
)

func runREPL(cmd *cobra.Command) error {
	uiFlag, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	if err := applyColorMode(cmd); err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	opts, manifest, err := sessionOptions()
	if err != nil {
		return err
	}
	relay := &progressRelay{}
	opts.Progress = relay

	eng, err := engine.New(opts)
	if err != nil {
		return err
	}
	defer eng.Close()

	if !quiet {
		fmt.Printf("javelin %s — type :help for commands, :quit to exit\n", cmd.Root().Version)
		if manifest != nil {
			noteColor.Printf("using %s\n", manifest.Path)
		}
	}

	useTUI := shouldUseTUI(mode) && isTerminal(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		promptColor.Print("java> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			quit, err := runConsoleCommand(eng, line)
			if err != nil {
				errorColor.Println(err)
			}
			if quit {
				return nil
			}
			continue
		}

		var ev session.Evaluation
		if useTUI {
			ev, err = evaluateWithUI(cmd.Context(), eng, relay, line)
		} else {
			ev, err = eng.Evaluate(cmd.Context(), line)
		}
		if err != nil {
			errorColor.Println(err)
			continue
		}
		printEvaluation(ev)
		if !quiet {
			timings := eng.LastTimings()
			if total := timings.Total(); total > 0 {
				noteColor.Printf("took %s\n", total.Round(time.Millisecond))
			}
		}
	}
}

func printEvaluation(ev session.Evaluation) {
	if res, ok := ev.Result(); ok {
		resultColor.Printf("%s = %s\n", res.Key, res.Value)
		return
	}
	switch ev.Fragment.Kind {
	case fragment.KindImport:
		noteColor.Println("imported")
	case fragment.KindTypeDecl:
		noteColor.Printf("defined type %s\n", ev.Fragment.Key)
	case fragment.KindMethod:
		noteColor.Printf("defined method %s\n", ev.Fragment.Key)
	default:
		noteColor.Println("done")
	}
}

func runConsoleCommand(eng *engine.Engine, line string) (quit bool, err error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "exit", "q":
		return true, nil
	case "help":
		printConsoleHelp()
	case "reset":
		if err := eng.Reset(); err != nil {
			return false, err
		}
		noteColor.Println("session reset")
	case "list":
		listEvaluations(eng, arg)
	case "result":
		if arg == "" {
			return false, fmt.Errorf("usage: :result <key>")
		}
		res, ok := eng.Context().Result(arg)
		if !ok {
			return false, fmt.Errorf("no result named %q", arg)
		}
		resultColor.Println(res)
	case "cp":
		if arg == "" {
			return false, fmt.Errorf("usage: :cp <path>")
		}
		eng.AddSearchPathEntry(arg)
		noteColor.Printf("added %s to the search path\n", arg)
	case "save":
		if arg == "" {
			return false, fmt.Errorf("usage: :save <path>")
		}
		if err := saveSession(eng, arg); err != nil {
			return false, err
		}
		noteColor.Printf("saved %d snippets to %s\n", eng.Context().Len(), arg)
	case "load":
		if arg == "" {
			return false, fmt.Errorf("usage: :load <path>")
		}
		return false, replaySession(eng, arg)
	default:
		return false, fmt.Errorf("unknown command :%s (try :help)", name)
	}
	return false, nil
}

func printConsoleHelp() {
	fmt.Print(`commands:
  :help            show this help
  :quit            exit the console
  :reset           discard the session and start over
  :list [kind]     list evaluations (kind: imports, types, methods, results)
  :result <key>    show the result bound to key
  :cp <path>       add a search-path entry
  :save <path>     save the session input history
  :load <path>     replay a saved session
`)
}

func listEvaluations(eng *engine.Engine, kindArg string) {
	switch kindArg {
	case "imports":
		printSources(eng.EvaluationsOfKind(fragment.KindImport))
	case "types":
		printSources(eng.EvaluationsOfKind(fragment.KindTypeDecl))
	case "methods":
		printSources(eng.EvaluationsOfKind(fragment.KindMethod))
	case "results":
		for _, res := range eng.Results() {
			resultColor.Println(res)
		}
	case "":
		printSources(eng.Evaluations())
	default:
		errorColor.Printf("unknown kind %q (imports, types, methods, results)\n", kindArg)
	}
}

func printSources(evals []session.Evaluation) {
	for _, ev := range evals {
		fmt.Println(ev.Fragment.Source)
	}
}

func saveSession(eng *engine.Engine, path string) error {
	evals := eng.Evaluations()
	texts := make([]string, 0, len(evals))
	for _, ev := range evals {
		texts = append(texts, ev.Fragment.Source)
	}
	return history.Save(path, texts)
}

func replaySession(eng *engine.Engine, path string) error {
	snapshot, ok, err := history.Load(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no snapshot at %q", path)
	}
	for _, text := range snapshot.Texts {
		ev, err := eng.Evaluate(context.Background(), text)
		if err != nil {
			return fmt.Errorf("replay stopped at %q: %w", text, err)
		}
		printEvaluation(ev)
	}
	noteColor.Printf("replayed %d snippets\n", len(snapshot.Texts))
	return nil
}
