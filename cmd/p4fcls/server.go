// The stdio JSON-RPC driver loop, ported near-verbatim from
// cmd/lsp/server.go's Content-Length-framed read loop and
// request/notification dispatch, trimmed to the one capability this server
// actually offers: publishDiagnostics on didOpen/didChange. Each run is
// tagged with a google/uuid correlation ID (a funvibe-funxy direct
// dependency) the way LSP tracks per-notification state, so
// concurrent `p4fcls serve` instances can be told apart in a shared log.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/p4fc/p4fc/internal/diag"
	"github.com/p4fc/p4fc/internal/rpcapi"
)

type baseMessage struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// LanguageServer serves the publishDiagnostics-only LSP capability over
// stdio.
type LanguageServer struct {
	runID     string
	documents map[string]string // URI -> last-known text
	mu        sync.Mutex
	writer    io.Writer
}

func NewLanguageServer(writer io.Writer) *LanguageServer {
	return &LanguageServer{
		runID:     uuid.NewString(),
		documents: make(map[string]string),
		writer:    writer,
	}
}

func (s *LanguageServer) Start() {
	log.Printf("p4fcls serve run=%s", s.runID)
	reader := bufio.NewReader(os.Stdin)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("run=%s error reading header: %v", s.runID, err)
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "Content-Length: ") {
			continue
		}

		n, err := strconv.Atoi(strings.TrimPrefix(line, "Content-Length: "))
		if err != nil {
			log.Printf("run=%s bad Content-Length: %v", s.runID, err)
			continue
		}
		for {
			sep, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.TrimRight(sep, "\r\n") == "" {
				break
			}
		}
		content := make([]byte, n)
		if _, err := io.ReadFull(reader, content); err != nil {
			log.Printf("run=%s error reading body: %v", s.runID, err)
			return
		}
		if err := s.handleMessage(content); err != nil {
			log.Printf("run=%s error handling message: %v", s.runID, err)
		}
	}
}

func (s *LanguageServer) handleMessage(content []byte) error {
	var msg baseMessage
	if err := json.Unmarshal(content, &msg); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	switch msg.Method {
	case "initialize":
		return s.sendResponse(msg.ID, map[string]any{"capabilities": map[string]any{}})
	case "shutdown":
		return s.sendResponse(msg.ID, nil)
	case "exit":
		os.Exit(0)
		return nil
	case "textDocument/didOpen":
		var params DidOpenTextDocumentParams
		if err := json.Unmarshal(content, &struct {
			Params *DidOpenTextDocumentParams `json:"params"`
		}{&params}); err != nil {
			return err
		}
		s.setDocument(params.TextDocument.URI, params.TextDocument.Text)
		return s.publishDiagnostics(params.TextDocument.URI)
	case "textDocument/didChange":
		var params DidChangeTextDocumentParams
		if err := json.Unmarshal(content, &struct {
			Params *DidChangeTextDocumentParams `json:"params"`
		}{&params}); err != nil {
			return err
		}
		if len(params.ContentChanges) > 0 {
			s.setDocument(params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
		}
		return s.publishDiagnostics(params.TextDocument.URI)
	default:
		if msg.ID != nil {
			return s.sendError(msg.ID, -32601, fmt.Sprintf("method not found: %s", msg.Method))
		}
		return nil
	}
}

func (s *LanguageServer) setDocument(uri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[uri] = text
}

func (s *LanguageServer) publishDiagnostics(uri string) error {
	s.mu.Lock()
	text := s.documents[uri]
	s.mu.Unlock()

	path := uriToPath(uri)
	errs := rpcapi.DefaultAnalyze(path, text)
	lspDiags := convertDiagnostics(errs)

	return s.sendNotification("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: lspDiags,
	})
}

func convertDiagnostics(errs []*diag.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		out = append(out, Diagnostic{
			Range: Range{
				Start: Position{Line: e.Pos.Line - 1, Character: e.Pos.Column - 1},
				End:   Position{Line: e.Pos.Line - 1, Character: e.Pos.Column - 1 + len(e.Lexeme)},
			},
			Severity: SeverityError,
			Code:     string(e.Code),
			Message:  e.Error(),
			Source:   "p4fc",
		})
	}
	return out
}

func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func (s *LanguageServer) sendResponse(id any, result any) error {
	return s.sendMessage(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: result})
}

func (s *LanguageServer) sendError(id any, code int, message string) error {
	return s.sendMessage(ResponseMessage{Jsonrpc: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}})
}

func (s *LanguageServer) sendNotification(method string, params any) error {
	return s.sendMessage(NotificationMessage{Jsonrpc: "2.0", Method: method, Params: params})
}

func (s *LanguageServer) sendMessage(message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n%s", len(data), data)
	return err
}
