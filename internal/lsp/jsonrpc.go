package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"sync"
)

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// JSONRPCMessage is a request, response or notification. Requests and
// responses carry an ID; notifications do not.
type JSONRPCMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *JSONRPCError    `json:"error,omitempty"`
}

// JSONRPCError is the error member of a response.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("jsonrpc %d: %s", e.Code, e.Message)
}

// rpcParseError is a frame whose body is not valid JSON. The stream is
// still in sync after one.
type rpcParseError struct {
	err error
}

func (e *rpcParseError) Error() string { return "error parsing message: " + e.err.Error() }
func (e *rpcParseError) Unwrap() error { return e.err }

// stream reads and writes Content-Length framed messages.
type stream struct {
	in  *textproto.Reader
	out io.Writer
	mu  sync.Mutex
}

func newStream(r io.Reader, w io.Writer) *stream {
	return &stream{in: textproto.NewReader(bufio.NewReader(r)), out: w}
}

func (st *stream) read() (*JSONRPCMessage, error) {
	header, err := st.in.ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	n, err := strconv.Atoi(header.Get("Content-Length"))
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid Content-Length %q", header.Get("Content-Length"))
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(st.in.R, body); err != nil {
		return nil, err
	}
	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, &rpcParseError{err: err}
	}
	return &msg, nil
}

func (st *stream) write(msg *JSONRPCMessage) error {
	msg.JSONRPC = "2.0"
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, err := fmt.Fprintf(st.out, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err = st.out.Write(body)
	return err
}
