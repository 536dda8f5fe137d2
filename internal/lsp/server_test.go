package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"testing"
)

// session builds a framed client-to-server byte stream.
type session struct {
	buf    bytes.Buffer
	nextID int
}

func (c *session) request(t *testing.T, method string, params any) {
	t.Helper()
	c.nextID++
	raw, err := json.Marshal(c.nextID)
	if err != nil {
		t.Fatal(err)
	}
	id := json.RawMessage(raw)
	c.send(t, &Message{JSONRPC: "2.0", ID: &id, Method: method, Params: marshal(t, params)})
}

func (c *session) notify(t *testing.T, method string, params any) {
	t.Helper()
	c.send(t, &Message{JSONRPC: "2.0", Method: method, Params: marshal(t, params)})
}

func (c *session) send(t *testing.T, msg *Message) {
	t.Helper()
	if err := WriteMessage(&c.buf, msg); err != nil {
		t.Fatal(err)
	}
}

func marshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func readAll(t *testing.T, out *bytes.Buffer) []*Message {
	t.Helper()
	r := bufio.NewReader(out)
	var msgs []*Message
	for {
		msg, err := ReadMessage(r)
		if err == io.EOF {
			return msgs
		}
		if err != nil {
			t.Fatalf("reading server output: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

func didOpen(uri, text string) map[string]any {
	return map[string]any{
		"textDocument": map[string]any{"uri": uri, "text": text, "version": 1},
	}
}

func positionAt(uri string, line, character int) map[string]any {
	return map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]int{"line": line, "character": character},
	}
}

func TestInitializeAndPublishDiagnostics(t *testing.T) {
	var c session
	c.request(t, "initialize", map[string]any{})
	c.notify(t, "initialized", nil)
	c.notify(t, "textDocument/didOpen", didOpen("file:///bad.bract", "fn main() -> i32 { return nope; }"))
	c.notify(t, "exit", nil)

	var out bytes.Buffer
	srv := NewServerOn(&c.buf, &out)
	if err := srv.Serve(); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	msgs := readAll(t, &out)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want initialize response + diagnostics", len(msgs))
	}

	var initResult struct {
		Capabilities struct {
			TextDocumentSync int `json:"textDocumentSync"`
		} `json:"capabilities"`
	}
	if err := json.Unmarshal(msgs[0].Result, &initResult); err != nil {
		t.Fatalf("initialize result: %v", err)
	}
	if initResult.Capabilities.TextDocumentSync != 1 {
		t.Fatalf("sync kind = %d, want full sync", initResult.Capabilities.TextDocumentSync)
	}

	if msgs[1].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("second message is %q", msgs[1].Method)
	}
	var pub struct {
		URI         string `json:"uri"`
		Diagnostics []struct {
			Code     string `json:"code"`
			Severity int    `json:"severity"`
			Message  string `json:"message"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(msgs[1].Params, &pub); err != nil {
		t.Fatal(err)
	}
	if pub.URI != "file:///bad.bract" || len(pub.Diagnostics) == 0 {
		t.Fatalf("publish = %+v", pub)
	}
	if pub.Diagnostics[0].Code != "SEMA_UNRESOLVED_NAME" || pub.Diagnostics[0].Severity != 1 {
		t.Fatalf("diagnostic = %+v", pub.Diagnostics[0])
	}
}

func TestDidChangeReanalyzes(t *testing.T) {
	var c session
	uri := "file:///f.bract"
	c.notify(t, "textDocument/didOpen", didOpen(uri, "fn main() -> i32 { return nope; }"))
	c.notify(t, "textDocument/didChange", map[string]any{
		"textDocument":   map[string]any{"uri": uri, "version": 2},
		"contentChanges": []map[string]any{{"text": "fn main() -> i32 { return 0; }"}},
	})
	c.notify(t, "exit", nil)

	var out bytes.Buffer
	if err := NewServerOn(&c.buf, &out).Serve(); err != nil {
		t.Fatal(err)
	}

	msgs := readAll(t, &out)
	if len(msgs) != 2 {
		t.Fatalf("got %d publishes, want 2", len(msgs))
	}
	var second struct {
		Diagnostics []json.RawMessage `json:"diagnostics"`
	}
	if err := json.Unmarshal(msgs[1].Params, &second); err != nil {
		t.Fatal(err)
	}
	if len(second.Diagnostics) != 0 {
		t.Fatalf("fixed document still publishes %d diagnostics", len(second.Diagnostics))
	}
}

func TestDefinitionResolvesToTheBinding(t *testing.T) {
	var c session
	uri := "file:///def.bract"
	//                       binding at column 23                 use at column 37
	src := "fn main() -> i32 { let x = 1; return x; }"
	c.notify(t, "textDocument/didOpen", didOpen(uri, src))
	c.request(t, "textDocument/definition", positionAt(uri, 0, 37))
	c.notify(t, "exit", nil)

	var out bytes.Buffer
	if err := NewServerOn(&c.buf, &out).Serve(); err != nil {
		t.Fatal(err)
	}

	msgs := readAll(t, &out)
	last := msgs[len(msgs)-1]
	var loc struct {
		URI   string `json:"uri"`
		Range struct {
			Start struct {
				Line      int `json:"line"`
				Character int `json:"character"`
			} `json:"start"`
		} `json:"range"`
	}
	if err := json.Unmarshal(last.Result, &loc); err != nil {
		t.Fatalf("definition result: %v", err)
	}
	if loc.URI != uri || loc.Range.Start.Line != 0 || loc.Range.Start.Character != 23 {
		t.Fatalf("definition = %+v, want the let binding at 0:23", loc)
	}
}

func TestHoverShowsKindAndType(t *testing.T) {
	var c session
	uri := "file:///hov.bract"
	c.notify(t, "textDocument/didOpen", didOpen(uri, "fn main() -> i32 { let x = 1; return x; }"))
	c.request(t, "textDocument/hover", positionAt(uri, 0, 37))
	c.notify(t, "exit", nil)

	var out bytes.Buffer
	if err := NewServerOn(&c.buf, &out).Serve(); err != nil {
		t.Fatal(err)
	}

	msgs := readAll(t, &out)
	last := msgs[len(msgs)-1]
	var hov struct {
		Contents struct {
			Value string `json:"value"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(last.Result, &hov); err != nil {
		t.Fatalf("hover result: %v", err)
	}
	if !bytes.Contains([]byte(hov.Contents.Value), []byte("variable x: i32")) {
		t.Fatalf("hover = %q", hov.Contents.Value)
	}
}

func TestUnknownRequestGetsMethodNotFound(t *testing.T) {
	var c session
	c.request(t, "workspace/symbol", map[string]any{})
	c.notify(t, "exit", nil)

	var out bytes.Buffer
	if err := NewServerOn(&c.buf, &out).Serve(); err != nil {
		t.Fatal(err)
	}
	msgs := readAll(t, &out)
	if len(msgs) != 1 || msgs[0].Error == nil || msgs[0].Error.Code != codeMethodNotFound {
		t.Fatalf("messages = %+v, want one method-not-found error", msgs)
	}
}
