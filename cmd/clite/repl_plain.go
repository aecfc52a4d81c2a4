package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
)

const (
	historyFile = ".clite_history"
	promptMain  = "clite> "
	promptCont  = "  ...> "
)

// runPlainREPL is the line-oriented REPL for terminals where the full-screen
// interface is unwanted. Input continues across lines while a brace or paren
// is left open.
func runPlainREPL() error {
	fmt.Println("clite REPL (:help for commands, :quit to exit)")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	session := newREPLSession()
	ln.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		runes := []rune(line)
		pos = min(max(pos, 0), len(runes))
		head := string(runes[:pos])
		word := trailingWord(head)
		return strings.TrimSuffix(head, word), session.completions(word), string(runes[pos:])
	})

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			switch strings.Fields(trimmed)[0] {
			case ":quit", ":q":
				return nil
			case ":reset", ":r":
				session = newREPLSession()
				fmt.Println("Session reset")
			case ":vars", ":v":
				for _, v := range session.vars() {
					fmt.Printf("%s: %s = %s\n", v.name, v.value.Kind(), v.value.String())
				}
			case ":help", ":h":
				fmt.Println(":vars  list bindings\n:reset start a fresh session\n:quit  exit")
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		output, isErr := session.eval(code)
		if isErr {
			fmt.Fprintln(os.Stderr, output)
		} else {
			fmt.Println(output)
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !needsMoreInput(src) {
			return src, true
		}
	}
}
