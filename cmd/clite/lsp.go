package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/clite-lang/clite/clite"
	"github.com/clite-lang/clite/lint"
)

const lspSource = "clite-lsp"

const (
	severityError   = 1
	severityWarning = 2
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDocumentParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	docs   map[string]string
}

func runLSP() error {
	server := &lspServer{
		reader: bufio.NewReader(os.Stdin),
		writer: bufio.NewWriter(os.Stdout),
		docs:   make(map[string]string),
	}
	return server.serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return respond(incoming.ID, map[string]any{
			"capabilities": map[string]any{
				"textDocumentSync":           1,
				"hoverProvider":              true,
				"documentFormattingProvider": true,
				"completionProvider": map[string]any{
					"resolveProvider": false,
				},
			},
		})
	case "initialized", "exit":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return respond(incoming.ID, nil)
	case "textDocument/didOpen":
		var params lspDocumentParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/didClose":
		var params lspDocumentParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		delete(s.docs, params.TextDocument.URI)
		return nil
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		return respond(incoming.ID, map[string]any{
			"isIncomplete": false,
			"items":        completionItems(),
		})
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return respondError(incoming.ID, -32602, "invalid hover params")
		}
		source := s.docs[params.TextDocument.URI]
		word := wordAtPosition(source, params.Position.Line, params.Position.Character)
		if word == "" {
			return respond(incoming.ID, nil)
		}
		return respond(incoming.ID, map[string]any{
			"contents": map[string]any{
				"kind":  "markdown",
				"value": hoverText(source, word),
			},
		})
	case "textDocument/formatting":
		if incoming.ID == nil {
			return nil
		}
		var params lspDocumentParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return respondError(incoming.ID, -32602, "invalid formatting params")
		}
		source := s.docs[params.TextDocument.URI]
		formatted, err := formatSource(source)
		if err != nil || formatted == source {
			return respond(incoming.ID, []map[string]any{})
		}
		return respond(incoming.ID, []map[string]any{{
			"range":   lspRange(0, 0, strings.Count(source, "\n")+1, 0),
			"newText": formatted,
		}})
	default:
		if incoming.ID == nil {
			return nil
		}
		return respondError(incoming.ID, -32601, "method not found")
	}
}

func respond(id *json.RawMessage, result any) []lspOutboundMessage {
	return []lspOutboundMessage{{JSONRPC: "2.0", ID: id, Result: result}}
}

func respondError(id *json.RawMessage, code int, message string) []lspOutboundMessage {
	return []lspOutboundMessage{{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &lspResponseError{Code: code, Message: message},
	}}
}

func publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(source),
		},
	}
}

// diagnosticsForSource reports every lint finding. E-codes are errors, the
// rest warnings.
func diagnosticsForSource(source string) []map[string]any {
	warnings, err := lint.Lint(source, lint.Options{})
	if err != nil {
		return []map[string]any{newDiagnostic(0, 0, severityError, "", err.Error())}
	}

	out := make([]map[string]any, 0, len(warnings))
	for _, w := range warnings {
		severity := severityWarning
		if strings.HasPrefix(w.Code, "E") {
			severity = severityError
		}
		out = append(out, newDiagnostic(max(0, w.Line-1), max(0, w.Column-1), severity, w.Code, w.Message))
	}
	return out
}

func newDiagnostic(line, character, severity int, code, message string) map[string]any {
	diag := map[string]any{
		"range":    lspRange(line, character, line, character+1),
		"severity": severity,
		"source":   lspSource,
		"message":  message,
	}
	if code != "" {
		diag["code"] = code
	}
	return diag
}

func lspRange(startLine, startChar, endLine, endChar int) map[string]any {
	return map[string]any{
		"start": map[string]any{"line": startLine, "character": startChar},
		"end":   map[string]any{"line": endLine, "character": endChar},
	}
}

func lspKeywords() []string {
	out := make([]string, 0, len(clite.Keywords))
	for word := range clite.Keywords {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

func completionItems() []map[string]any {
	keywords := lspKeywords()
	labels := make([]string, 0, len(keywords)+len(replBuiltins))
	labels = append(labels, keywords...)
	labels = append(labels, replBuiltins...)
	sort.Strings(labels)

	items := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		kind := 3 // Function
		detail := "builtin"
		if clite.IsKeyword(label) {
			kind = 14 // Keyword
			detail = "keyword"
		}
		items = append(items, map[string]any{
			"label":  label,
			"kind":   kind,
			"detail": detail,
		})
	}
	return items
}

func classifyWord(word string) string {
	if clite.IsKeyword(word) {
		return "keyword"
	}
	for _, builtin := range replBuiltins {
		if builtin == word {
			return "builtin"
		}
	}
	return "symbol"
}

// hoverText renders a function's signature when word names a top-level
// declaration in source, and its classification otherwise.
func hoverText(source, word string) string {
	if program, err := clite.ParseSource(source); err == nil {
		for _, stmt := range program.Statements {
			if decl, ok := stmt.(*clite.FuncDecl); ok && decl.Name == word {
				return fmt.Sprintf("```clite\n%s\n```\n\nfunction declared at %s", functionSignature(decl), decl.Pos())
			}
		}
	}
	return fmt.Sprintf("`%s`\n\nclite %s", word, classifyWord(word))
}

func functionSignature(decl *clite.FuncDecl) string {
	params := make([]string, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = p.Name
		if p.TypeHint != "" {
			params[i] += ": " + p.TypeHint
		}
	}
	sig := fmt.Sprintf("fn %s(%s)", decl.Name, strings.Join(params, ", "))
	if decl.ReturnType != "" {
		sig += ": " + decl.ReturnType
	}
	return sig
}

// wordAtPosition finds the identifier under an LSP position, whose character
// offset counts UTF-16 code units.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}
	cursor := runeIndexForUTF16(runes, max(character, 0))
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func runeIndexForUTF16(runes []rune, units int) int {
	count := 0
	for i, r := range runes {
		if count >= units {
			return i
		}
		count += utf16.RuneLen(r)
	}
	return len(runes)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
