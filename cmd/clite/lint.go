package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oarkflow/log"

	"github.com/clite-lang/clite/lint"
)

func lintCommand(args []string) error {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	failOnWarn := fs.Bool("fail-on-warn", false, "exit non-zero when warnings are reported")
	configPath := fs.String("config", "", "path to a .clite.yaml project file")
	verbose := fs.Bool("verbose", false, "log per-file results to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("clite lint: script path required")
	}

	logger := &log.DefaultLogger
	configs := make(map[string]projectConfig)
	total := 0
	failing := false
	for _, path := range paths {
		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		dir := filepath.Dir(path)
		cfg, ok := configs[dir]
		if !ok {
			cfg, _, err = loadProjectConfig(*configPath, dir)
			if err != nil {
				return err
			}
			configs[dir] = cfg
		}

		warnings, err := lint.Lint(string(input), lint.Options{Disable: cfg.Lint.Disable})
		if err != nil {
			return err
		}
		if *verbose {
			logger.Info().Str("path", path).Int("warnings", len(warnings)).Msg("linted file")
		}
		for _, w := range warnings {
			fmt.Printf("%s:%d:%d: %s %s\n", path, w.Line, w.Column, w.Code, w.Message)
		}
		total += len(warnings)
		if len(warnings) > 0 && (*failOnWarn || cfg.Lint.FailOnWarn) {
			failing = true
		}
	}

	if total == 0 {
		fmt.Println("No issues found")
		return nil
	}
	if failing {
		return fmt.Errorf("lint found %d issue(s)", total)
	}
	return nil
}
