package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// Message is a JSON-RPC 2.0 request, response or notification.
type Message struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *ResponseError   `json:"error,omitempty"`
}

// ResponseError is the error member of a JSON-RPC response.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC error codes used by the server.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// ReadMessage reads one Content-Length framed message. The header block
// is MIME-shaped, so textproto does the parsing.
func ReadMessage(reader *bufio.Reader) (*Message, error) {
	header, err := textproto.NewReader(reader).ReadMIMEHeader()
	if err != nil {
		return nil, err
	}

	length, err := strconv.Atoi(header.Get("Content-Length"))
	if err != nil || length <= 0 {
		return nil, fmt.Errorf("missing or invalid Content-Length header")
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(reader, body); err != nil {
		return nil, err
	}

	msg := new(Message)
	if err := json.Unmarshal(body, msg); err != nil {
		return nil, fmt.Errorf("malformed JSON-RPC message: %v", err)
	}
	return msg, nil
}

// WriteMessage writes one Content-Length framed message. Header and body
// go out in a single write so concurrent writers cannot interleave frames.
func WriteMessage(writer io.Writer, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	var frame bytes.Buffer
	frame.Grow(len(body) + 32)
	fmt.Fprintf(&frame, "Content-Length: %d\r\n\r\n", len(body))
	frame.Write(body)

	_, err = writer.Write(frame.Bytes())
	return err
}
