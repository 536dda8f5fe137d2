package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	id := json.RawMessage(`1`)
	var buf bytes.Buffer
	out := &Message{JSONRPC: "2.0", ID: &id, Method: "initialize", Params: json.RawMessage(`{"processId":null}`)}
	if err := WriteMessage(&buf, out); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Content-Length: ") {
		t.Fatalf("no framing header: %q", buf.String())
	}

	in, err := ReadMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if in.Method != "initialize" || string(*in.ID) != "1" {
		t.Fatalf("got method=%q id=%s", in.Method, *in.ID)
	}
}

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestWriteMessageEmitsOneFrame(t *testing.T) {
	var w countingWriter
	if err := WriteMessage(&w, &Message{JSONRPC: "2.0", Method: "initialized"}); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if w.writes != 1 {
		t.Fatalf("frame written in %d writes, want 1", w.writes)
	}
	if _, err := ReadMessage(bufio.NewReader(&w.Buffer)); err != nil {
		t.Fatalf("frame does not read back: %v", err)
	}
}

func TestReadMessageRequiresContentLength(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("X-Other: 1\r\n\r\n{}"))
	if _, err := ReadMessage(r); err == nil {
		t.Fatal("message without Content-Length accepted")
	}
}

func TestReadMessageRejectsBadJSON(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("Content-Length: 3\r\n\r\n{{{"))
	if _, err := ReadMessage(r); err == nil {
		t.Fatal("malformed body accepted")
	}
}
