package lsp

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/leapstack-labs/jqlint/internal/engine"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/parser"
)

// diagnosticSource is reported as the source of every diagnostic.
const diagnosticSource = "jqlint"

// Server lints the documents an editor has open and answers hover and
// code action requests about them. It never reads or writes the result
// cache.
type Server struct {
	rpc       *stream
	documents *DocumentStore
	engine    *engine.Engine
	settings  *lint.Settings
	version   string
	logger    *slog.Logger

	projectRoot string

	// Diagnostics of the last lint per URI, used for code actions.
	lastDiags   map[string][]lint.Diagnostic
	lastDiagsMu sync.RWMutex

	stateMu  sync.Mutex
	shutdown bool
	exited   bool
}

// Options configure a Server.
type Options struct {
	Engine  *engine.Engine // Required
	Version string         // Reported in serverInfo
	Logger  *slog.Logger
}

// NewServer returns a server reading requests from r and writing to w.
func NewServer(r io.Reader, w io.Writer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		rpc:       newStream(r, w),
		documents: NewDocumentStore(),
		engine:    opts.Engine,
		settings:  opts.Engine.Settings(),
		version:   opts.Version,
		logger:    logger,
		lastDiags: make(map[string][]lint.Diagnostic),
	}
}

// Run serves until the client sends exit or closes its end of the stream.
func (s *Server) Run() error {
	s.logger.Info("language server starting", slog.String("version", s.version))

	for !s.hasExited() {
		msg, err := s.rpc.read()
		var perr *rpcParseError
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			s.logger.Info("client disconnected")
			return nil
		case errors.As(err, &perr):
			s.logger.Warn("dropping malformed message", slog.Any("error", err))
			s.send(&JSONRPCMessage{Error: &JSONRPCError{Code: codeParseError, Message: perr.Error()}})
			continue
		case err != nil:
			s.logger.Error("read failed", slog.Any("error", err))
			continue
		}

		if err := s.dispatch(msg); err != nil {
			s.logger.Error("request failed", slog.String("method", msg.Method), slog.Any("error", err))
		}
	}
	return nil
}

type handlerFunc func(*Server, *JSONRPCMessage) error

// methods is the dispatch table. Unlisted methods are answered with
// MethodNotFound.
var methods = map[string]handlerFunc{
	"initialize":              route((*Server).initialize),
	"initialized":             route((*Server).initialized),
	"shutdown":                route((*Server).beginShutdown),
	"exit":                    route((*Server).exit),
	"textDocument/didOpen":    route((*Server).didOpen),
	"textDocument/didChange":  route((*Server).didChange),
	"textDocument/didSave":    route((*Server).didSave),
	"textDocument/didClose":   route((*Server).didClose),
	"textDocument/hover":      route((*Server).hover),
	"textDocument/codeAction": route((*Server).codeAction),
}

// route decodes params into P and answers requests with the handler's
// result. Notifications get no answer.
func route[P any](fn func(*Server, P) (any, error)) handlerFunc {
	return func(s *Server, msg *JSONRPCMessage) error {
		var params P
		if len(msg.Params) > 0 {
			if err := json.Unmarshal(msg.Params, &params); err != nil {
				s.reply(msg, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
				return err
			}
		}
		result, err := fn(s, params)
		if err != nil {
			var rerr *JSONRPCError
			if errors.As(err, &rerr) {
				s.reply(msg, nil, rerr)
				return nil
			}
			return err
		}
		s.reply(msg, result, nil)
		return nil
	}
}

func (s *Server) dispatch(msg *JSONRPCMessage) error {
	s.logger.Debug("received", slog.String("method", msg.Method))

	if s.isShutdown() && msg.Method != "exit" {
		s.reply(msg, nil, &JSONRPCError{Code: codeInvalidRequest, Message: "server is shutting down"})
		return nil
	}
	h, ok := methods[msg.Method]
	if !ok {
		s.reply(msg, nil, &JSONRPCError{Code: codeMethodNotFound, Message: "Method not found: " + msg.Method})
		return nil
	}
	return h(s, msg)
}

// reply answers msg if it is a request.
func (s *Server) reply(msg *JSONRPCMessage, result any, rerr *JSONRPCError) {
	if msg.ID == nil {
		return
	}
	resp := &JSONRPCMessage{ID: msg.ID, Error: rerr}
	if rerr == nil {
		body, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("encode result", slog.String("method", msg.Method), slog.Any("error", err))
			resp.Error = &JSONRPCError{Code: codeInvalidRequest, Message: err.Error()}
		} else {
			resp.Result = body
		}
	}
	s.send(resp)
}

func (s *Server) notify(method string, params any) {
	body, err := json.Marshal(params)
	if err != nil {
		s.logger.Error("encode notification", slog.String("method", method), slog.Any("error", err))
		return
	}
	s.send(&JSONRPCMessage{Method: method, Params: body})
}

func (s *Server) send(msg *JSONRPCMessage) {
	if err := s.rpc.write(msg); err != nil {
		s.logger.Error("write failed", slog.Any("error", err))
	}
}

func (s *Server) initialize(p InitializeParams) (any, error) {
	s.projectRoot = URIToPath(p.RootURI)
	enc := negotiateEncoding(p.Capabilities)
	s.documents.SetEncoding(enc)
	s.logger.Info("project root", slog.String("path", s.projectRoot), slog.String("positionEncoding", string(enc)))

	return InitializeResult{
		Capabilities: ServerCapabilities{
			PositionEncoding: enc,
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save:      &SaveOptions{IncludeText: true},
			},
			HoverProvider: true,
			CodeActionProvider: &CodeActionOptions{
				CodeActionKinds: []CodeActionKind{CodeActionKindQuickFix, CodeActionKindSourceFixAll},
			},
		},
		ServerInfo: &ServerInfo{Name: diagnosticSource, Version: s.version},
	}, nil
}

// negotiateEncoding picks utf-8 when the client offers it. UTF-16 is the
// protocol default every client supports.
func negotiateEncoding(caps ClientCapabilities) PositionEncodingKind {
	if caps.General != nil && slices.Contains(caps.General.PositionEncodings, PositionEncodingUTF8) {
		return PositionEncodingUTF8
	}
	return PositionEncodingUTF16
}

func (s *Server) initialized(struct{}) (any, error) {
	n := len(s.engine.Rules())
	s.logger.Info("server initialized", slog.Int("rules", n))
	if n == 0 {
		s.notify("window/showMessage", &ShowMessageParams{
			Type:    MessageTypeWarning,
			Message: "jqlint has no rules enabled. Check the lint section of jqlint.yaml.",
		})
	}
	return nil, nil
}

func (s *Server) beginShutdown(struct{}) (any, error) {
	s.stateMu.Lock()
	s.shutdown = true
	s.stateMu.Unlock()
	s.logger.Info("server shutdown")
	return nil, nil
}

func (s *Server) exit(struct{}) (any, error) {
	s.stateMu.Lock()
	s.exited = true
	s.stateMu.Unlock()
	return nil, nil
}

func (s *Server) isShutdown() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.shutdown
}

func (s *Server) hasExited() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.exited
}

func (s *Server) didOpen(p DidOpenTextDocumentParams) (any, error) {
	doc := p.TextDocument
	s.documents.Open(doc.URI, doc.Text, doc.Version)
	s.publishDiagnostics(doc.URI)
	return nil, nil
}

// didChange takes the last change only; the server asks for full sync.
func (s *Server) didChange(p DidChangeTextDocumentParams) (any, error) {
	if n := len(p.ContentChanges); n > 0 {
		s.documents.Update(p.TextDocument.URI, p.ContentChanges[n-1].Text, p.TextDocument.Version)
	}
	s.publishDiagnostics(p.TextDocument.URI)
	return nil, nil
}

// didSave relints when the saved text differs from what the server has.
func (s *Server) didSave(p DidSaveTextDocumentParams) (any, error) {
	doc := s.documents.Get(p.TextDocument.URI)
	if doc == nil || p.Text == "" || p.Text == doc.Content {
		return nil, nil
	}
	s.documents.Update(doc.URI, p.Text, doc.Version)
	s.publishDiagnostics(doc.URI)
	return nil, nil
}

func (s *Server) didClose(p DidCloseTextDocumentParams) (any, error) {
	uri := p.TextDocument.URI
	s.documents.Close(uri)
	s.forgetDiagnostics(uri)
	s.notify("textDocument/publishDiagnostics", &PublishDiagnosticsParams{URI: uri, Diagnostics: []Diagnostic{}})
	return nil, nil
}

func (s *Server) hover(p HoverParams) (any, error) {
	return s.getHover(p), nil
}

func (s *Server) codeAction(p CodeActionParams) (any, error) {
	return s.getCodeActions(p), nil
}

// isLintable reports whether the document is a JavaScript or TypeScript file.
func isLintable(doc *Document) bool {
	return parser.IsSupported(doc.Path())
}
