package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProjectConfigMissingFileIsZero(t *testing.T) {
	cfg, path, err := loadProjectConfig("", t.TempDir())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if path != "" || cfg.Entry != "" || cfg.RecursionLimit != 0 || len(cfg.Lint.Disable) != 0 {
		t.Fatalf("expected zero config, got %#v from %q", cfg, path)
	}
}

func TestLoadProjectConfigDiscoversFile(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, `entry: start
recursion_limit: 64
lint:
  disable:
    - W001
    - W003
  fail_on_warn: true
`)

	cfg, path, err := loadProjectConfig("", dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if path != want {
		t.Fatalf("expected path %q, got %q", want, path)
	}
	if cfg.Entry != "start" || cfg.RecursionLimit != 64 {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if strings.Join(cfg.Lint.Disable, ",") != "W001,W003" || !cfg.Lint.FailOnWarn {
		t.Fatalf("unexpected lint config: %#v", cfg.Lint)
	}
}

func TestLoadProjectConfigExplicitPathMustExist(t *testing.T) {
	_, _, err := loadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml"), "")
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "negative limit", content: "recursion_limit: -1\n", want: "recursion_limit must not be negative"},
		{name: "keyword entry", content: "entry: while\n", want: `entry "while" is not a valid function name`},
		{name: "spaced entry", content: "entry: two words\n", want: "is not a valid function name"},
		{name: "unknown rule", content: "lint:\n  disable: [W999]\n", want: `unknown rule "W999"`},
		{name: "bad yaml", content: "entry: [\n", want: "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, _, err := loadProjectConfig("", dir)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestResolveEntry(t *testing.T) {
	cfg := projectConfig{Entry: "boot"}
	if got := resolveEntry(projectConfig{}, "", false); got != defaultEntry {
		t.Fatalf("expected default entry, got %q", got)
	}
	if got := resolveEntry(cfg, "", false); got != "boot" {
		t.Fatalf("expected config entry, got %q", got)
	}
	if got := resolveEntry(cfg, "other", false); got != "other" {
		t.Fatalf("expected flag entry, got %q", got)
	}
	if got := resolveEntry(cfg, "other", true); got != "" {
		t.Fatalf("expected no entry, got %q", got)
	}
}
