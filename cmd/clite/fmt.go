package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clite-lang/clite/clite"
)

const (
	sourceExt  = ".cl"
	indentUnit = "  "
)

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "write result to source files instead of stdout")
	check := fs.Bool("check", false, "fail if any source file needs formatting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("clite fmt: path required")
	}

	files, err := collectSourceFiles(targets)
	if err != nil {
		return err
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted, err := formatSource(original)
		if err != nil {
			return fmt.Errorf("format %s: %w", path, err)
		}
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case *write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case !*write && !*check:
			fmt.Print(formatted)
		}
	}

	if *check && changedCount > 0 {
		return fmt.Errorf("clite fmt: %d file(s) need formatting", changedCount)
	}
	return nil
}

func collectSourceFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		if filepath.Ext(path) != sourceExt {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatSource normalizes line endings, trims trailing whitespace, and
// re-indents each line by its brace depth. Lines that begin inside a block
// comment keep their text. Source that does not tokenize is rejected so
// broken input is never rewritten.
func formatSource(source string) (string, error) {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	if _, err := clite.Tokenize(normalized); err != nil {
		return "", err
	}

	lines := strings.Split(normalized, "\n")
	depth := 0
	inComment := false
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		startedInComment := inComment
		scan := scanBraces(line, inComment)
		inComment = scan.inComment

		if startedInComment {
			lines[i] = line
		} else if content := strings.TrimLeft(line, " \t"); content == "" {
			lines[i] = ""
		} else {
			lines[i] = strings.Repeat(indentUnit, max(depth-scan.leadingCloses, 0)) + content
		}
		depth = max(depth+scan.delta, 0)
	}

	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return joined + "\n", nil
}

type braceScan struct {
	delta         int
	leadingCloses int
	inComment     bool
}

// scanBraces counts '{' and '}' on one line outside strings and comments.
// leadingCloses counts the '}' that appear before any other code.
func scanBraces(line string, inComment bool) braceScan {
	scan := braceScan{inComment: inComment}
	leading := true
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if scan.inComment {
			if strings.HasPrefix(line[i:], "*/") {
				scan.inComment = false
				i++
			}
			continue
		}
		switch {
		case strings.HasPrefix(line[i:], "//"):
			return scan
		case strings.HasPrefix(line[i:], "/*"):
			scan.inComment = true
			i++
		case ch == '"':
			i = skipString(line, i)
			leading = false
		case ch == '{':
			scan.delta++
			leading = false
		case ch == '}':
			scan.delta--
			if leading {
				scan.leadingCloses++
			}
		case ch == ' ' || ch == '\t':
		default:
			leading = false
		}
	}
	return scan
}

// skipString returns the index of the closing quote of the string opening at
// start, or the last index when the line ends first.
func skipString(line string, start int) int {
	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return len(line) - 1
}
