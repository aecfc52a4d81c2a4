package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oarkflow/errors"
	"gopkg.in/yaml.v3"

	"github.com/clite-lang/clite/clite"
	"github.com/clite-lang/clite/lint"
)

const projectConfigName = ".clite.yaml"

type projectConfig struct {
	Entry          string     `yaml:"entry"`
	RecursionLimit int        `yaml:"recursion_limit"`
	Lint           lintConfig `yaml:"lint"`
}

type lintConfig struct {
	Disable    []string `yaml:"disable"`
	FailOnWarn bool     `yaml:"fail_on_warn"`
}

// loadProjectConfig reads explicit when set, otherwise .clite.yaml in dir if
// present. A missing implicit file yields the zero config and an empty path.
func loadProjectConfig(explicit, dir string) (projectConfig, string, error) {
	path := explicit
	if path == "" {
		candidate := filepath.Join(dir, projectConfigName)
		if _, err := os.Stat(candidate); err != nil {
			return projectConfig{}, "", nil
		}
		path = candidate
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return projectConfig{}, "", fmt.Errorf("read config: %w", err)
	}
	var cfg projectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return projectConfig{}, "", fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return projectConfig{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

func (c projectConfig) validate() error {
	if c.RecursionLimit < 0 {
		return errors.New("recursion_limit must not be negative")
	}
	if c.Entry != "" && !isIdentifier(c.Entry) {
		return errors.New(fmt.Sprintf("entry %q is not a valid function name", c.Entry))
	}
	known := make(map[string]struct{}, len(lint.Rules))
	for _, rule := range lint.Rules {
		known[rule.Code] = struct{}{}
	}
	for _, code := range c.Lint.Disable {
		if _, ok := known[code]; !ok {
			return errors.New(fmt.Sprintf("lint.disable: unknown rule %q", code))
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	tokens, err := clite.Tokenize(s)
	return err == nil && len(tokens) == 1 && tokens[0].Kind == clite.TokenIdentifier
}
