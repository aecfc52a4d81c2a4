package main

import (
	"encoding/json"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestRunCLIStartsLSPAndExitsOnEOF(t *testing.T) {
	origStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close write pipe: %v", err)
	}
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
		_ = r.Close()
	}()

	if err := runCLI([]string{"clite", "lsp"}); err != nil {
		t.Fatalf("runCLI lsp failed: %v", err)
	}
}

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	diags := diagnosticsForSource("fn main(): int {\n  return 1;\n}\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %#v", diags)
	}
}

func TestDiagnosticsForSourceSeverities(t *testing.T) {
	diags := diagnosticsForSource("fn main(): int {\n  return 1\n}\n")
	if len(diags) != 2 {
		t.Fatalf("expected two diagnostics, got %#v", diags)
	}

	warning := diags[0]
	if warning["code"] != "W001" || warning["severity"] != severityWarning {
		t.Fatalf("unexpected warning diagnostic: %#v", warning)
	}
	start := warning["range"].(map[string]any)["start"].(map[string]any)
	if start["line"] != 1 || start["character"] != 2 {
		t.Fatalf("unexpected warning range start: %#v", start)
	}

	syntax := diags[1]
	if syntax["code"] != "E002" || syntax["severity"] != severityError {
		t.Fatalf("unexpected syntax diagnostic: %#v", syntax)
	}
	message, ok := syntax["message"].(string)
	if !ok || !strings.Contains(message, `expected ";"`) {
		t.Fatalf("unexpected diagnostic message: %#v", syntax["message"])
	}
	if syntax["source"] != lspSource {
		t.Fatalf("unexpected diagnostic source: %#v", syntax["source"])
	}
}

func TestCompletionItemsAreSortedAndCategorized(t *testing.T) {
	items := completionItems()
	if len(items) == 0 {
		t.Fatalf("expected completion items")
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		label, ok := item["label"].(string)
		if !ok {
			t.Fatalf("unexpected completion label: %#v", item["label"])
		}
		labels = append(labels, label)
	}
	if !slices.IsSorted(labels) {
		t.Fatalf("expected sorted completion labels, got %v", labels)
	}

	keyword := findCompletionItem(t, items, "while")
	if keyword["detail"] != "keyword" || keyword["kind"] != 14 {
		t.Fatalf("unexpected keyword item: %#v", keyword)
	}

	builtin := findCompletionItem(t, items, "print")
	if builtin["detail"] != "builtin" || builtin["kind"] != 3 {
		t.Fatalf("unexpected builtin item: %#v", builtin)
	}
}

func TestHandleMessageDidOpenPublishesDiagnostics(t *testing.T) {
	server := &lspServer{docs: make(map[string]string)}
	payload := marshalParams(t, map[string]any{
		"textDocument": map[string]any{
			"uri":  "file:///tmp/test.cl",
			"text": "fn main(): int {\n  return (1;\n}\n",
		},
	})

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didOpen",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one publishDiagnostics notification, got %d", len(messages))
	}
	if messages[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("unexpected method: %q", messages[0].Method)
	}
	paramsMap, ok := messages[0].Params.(map[string]any)
	if !ok {
		t.Fatalf("unexpected params payload: %#v", messages[0].Params)
	}
	diags, ok := paramsMap["diagnostics"].([]map[string]any)
	if !ok || len(diags) == 0 {
		t.Fatalf("expected diagnostics for invalid source, got %#v", paramsMap["diagnostics"])
	}
	if _, ok := server.docs["file:///tmp/test.cl"]; !ok {
		t.Fatalf("expected document to be tracked")
	}
}

func TestHandleMessageDidCloseForgetsDocument(t *testing.T) {
	server := &lspServer{docs: map[string]string{"file:///tmp/test.cl": "x"}}
	payload := marshalParams(t, map[string]any{
		"textDocument": map[string]any{"uri": "file:///tmp/test.cl"},
	})

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didClose",
		Params:  payload,
	})
	if len(messages) != 0 {
		t.Fatalf("expected no response, got %#v", messages)
	}
	if len(server.docs) != 0 {
		t.Fatalf("expected document to be dropped")
	}
}

func TestHandleMessageHoverClassifiesBuiltins(t *testing.T) {
	value := hover(t, "fn main(): int {\n  print(1);\n  return 0;\n}\n", 1, 3)
	if !strings.Contains(value, "builtin") {
		t.Fatalf("expected builtin classification in hover value, got %q", value)
	}
}

func TestHandleMessageHoverShowsFunctionSignature(t *testing.T) {
	source := "fn add(a: int, b: int): int { return a + b; }\nfn main(): int { return add(1, 2); }\n"
	value := hover(t, source, 1, 25)
	if !strings.Contains(value, "fn add(a: int, b: int): int") {
		t.Fatalf("expected signature in hover value, got %q", value)
	}
	if !strings.Contains(value, "declared at 1:1") {
		t.Fatalf("expected declaration position in hover value, got %q", value)
	}
}

func TestHandleMessageFormattingReturnsEdit(t *testing.T) {
	uri := "file:///tmp/test.cl"
	server := &lspServer{docs: map[string]string{uri: "fn main(): int {\nreturn 1;   \n}"}}
	payload := marshalParams(t, map[string]any{"textDocument": map[string]any{"uri": uri}})

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("3"),
		Method:  "textDocument/formatting",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one response, got %d", len(messages))
	}
	edits, ok := messages[0].Result.([]map[string]any)
	if !ok || len(edits) != 1 {
		t.Fatalf("unexpected formatting result: %#v", messages[0].Result)
	}
	if edits[0]["newText"] != "fn main(): int {\n  return 1;\n}\n" {
		t.Fatalf("unexpected formatted text: %#v", edits[0]["newText"])
	}
}

func TestHandleMessageUnknownMethod(t *testing.T) {
	server := &lspServer{docs: make(map[string]string)}
	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("9"),
		Method:  "workspace/unknown",
	})
	if len(messages) != 1 || messages[0].Error == nil || messages[0].Error.Code != -32601 {
		t.Fatalf("expected method not found error, got %#v", messages)
	}
}

func TestWordAtPosition(t *testing.T) {
	source := "fn main(): int {\n  let total: int = 1;\n}\n"
	if word := wordAtPosition(source, 1, 8); word != "total" {
		t.Fatalf("expected total, got %q", word)
	}
	if word := wordAtPosition(source, 1, 11); word != "total" {
		t.Fatalf("expected total at word end, got %q", word)
	}
	if word := wordAtPosition(source, 5, 0); word != "" {
		t.Fatalf("expected empty word out of range, got %q", word)
	}
}

func TestWordAtPositionUsesUTF16CharacterOffsets(t *testing.T) {
	source := "😀😀x y\n"
	word := wordAtPosition(source, 0, 4)
	if word != "x" {
		t.Fatalf("expected x, got %q", word)
	}
}

func hover(t *testing.T, source string, line, character int) string {
	t.Helper()
	uri := "file:///tmp/test.cl"
	server := &lspServer{docs: map[string]string{uri: source}}
	payload := marshalParams(t, map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": line, "character": character},
	})

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("1"),
		Method:  "textDocument/hover",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one response, got %d", len(messages))
	}
	result, ok := messages[0].Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover result: %#v", messages[0].Result)
	}
	contents, ok := result["contents"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover contents: %#v", result["contents"])
	}
	value, ok := contents["value"].(string)
	if !ok {
		t.Fatalf("unexpected hover value: %#v", contents["value"])
	}
	return value
}

func marshalParams(t *testing.T, params map[string]any) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return payload
}

func rawID(value string) *json.RawMessage {
	raw := json.RawMessage(value)
	return &raw
}

func findCompletionItem(t *testing.T, items []map[string]any, label string) map[string]any {
	t.Helper()
	for _, item := range items {
		itemLabel, ok := item["label"].(string)
		if ok && itemLabel == label {
			return item
		}
	}
	t.Fatalf("missing completion item %q", label)
	return nil
}
