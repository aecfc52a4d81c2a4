package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oarkflow/log"

	"github.com/clite-lang/clite/clite"
)

const defaultEntry = "main"

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "lint":
		return lintCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	entryFlag := fs.String("entry", "", "function to invoke after top-level statements (default \"main\")")
	noEntry := fs.Bool("no-entry", false, "run top-level statements only")
	checkOnly := fs.Bool("check", false, "only parse the script without executing")
	configPath := fs.String("config", "", "path to a .clite.yaml project file")
	verbose := fs.Bool("verbose", false, "log configuration and timing to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("clite run: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	logger := &log.DefaultLogger
	cfg, cfgFile, err := loadProjectConfig(*configPath, filepath.Dir(scriptPath))
	if err != nil {
		return err
	}
	if *verbose && cfgFile != "" {
		logger.Info().Str("path", cfgFile).Msg("loaded project config")
	}

	entry := resolveEntry(cfg, *entryFlag, *noEntry)
	if *verbose {
		logger.Info().Str("script", scriptPath).Str("entry", entry).Int("recursion_limit", cfg.RecursionLimit).Msg("running script")
	}

	program, err := clite.ParseSource(string(input))
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if *checkOnly {
		return nil
	}

	interp := clite.New(clite.Config{RecursionLimit: cfg.RecursionLimit})
	start := time.Now()
	result, err := interp.Run(program, entry)
	if err != nil {
		if *verbose {
			logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("execution failed")
		}
		return fmt.Errorf("execution failed: %w", err)
	}
	if *verbose {
		logger.Info().Str("result", result.Kind().String()).Dur("duration", time.Since(start)).Msg("execution finished")
	}
	if !result.IsNull() {
		fmt.Println(result.String())
	}
	return nil
}

// resolveEntry applies flag over config over the default.
func resolveEntry(cfg projectConfig, flagEntry string, noEntry bool) string {
	if noEntry {
		return ""
	}
	if flagEntry != "" {
		return flagEntry
	}
	if cfg.Entry != "" {
		return cfg.Entry
	}
	return defaultEntry
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	plain := fs.Bool("plain", false, "use a line-based prompt instead of the full-screen interface")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *plain {
		return runPlainREPL()
	}
	return runREPL()
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [flags] <script>")
	fmt.Fprintln(os.Stderr, "    -entry string    function to invoke (default \"main\")")
	fmt.Fprintln(os.Stderr, "    -no-entry        run top-level statements only")
	fmt.Fprintln(os.Stderr, "    -check           only parse the script without executing")
	fmt.Fprintln(os.Stderr, "    -config path     project file (default: .clite.yaml next to the script)")
	fmt.Fprintln(os.Stderr, "    -verbose         log configuration and timing to stderr")
	fmt.Fprintln(os.Stderr, "  lint [-fail-on-warn] [-config path] <files...>")
	fmt.Fprintln(os.Stderr, "  repl [-plain]")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <paths...>")
	fmt.Fprintln(os.Stderr, "  lsp")
	fmt.Fprintln(os.Stderr, "  help")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
