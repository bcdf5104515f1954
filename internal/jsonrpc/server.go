package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Server answers JSON-RPC 2.0 requests on behalf of a single agent. Handler
// calls are serialized across all connections because agents keep per-batch
// state between calls.
type Server struct {
	registry *MethodRegistry
	logger   *slog.Logger

	mu sync.Mutex
}

// NewServer creates a JSON-RPC server with the given method registry.
func NewServer(registry *MethodRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{registry: registry, logger: logger}
}

// ServeTransport reads requests from the transport and writes responses.
// It runs until the reader returns io.EOF, a read fails, or a response
// cannot be written.
func (s *Server) ServeTransport(t *Transport) {
	ctx := context.Background()

	for {
		req, rawJSON, err := t.ReadRequest()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			s.logger.Debug("read error", "error", err)
			s.reply(t, &Response{JSONRPC: "2.0", Error: ErrParseError(err.Error()), ID: json.RawMessage("null")})
			return
		}

		// Requests without an "id" key are notifications and get no response.
		resp := s.dispatch(ctx, req)
		if !hasIDField(rawJSON) {
			continue
		}
		if !s.reply(t, resp) {
			return
		}
	}
}

// dispatch validates req and runs its handler.
func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	resp := &Response{JSONRPC: "2.0", ID: req.ID}

	if req.JSONRPC != "2.0" {
		resp.Error = ErrInvalidRequest("jsonrpc field must be \"2.0\"")
		return resp
	}

	handler := s.registry.Lookup(req.Method)
	if handler == nil {
		resp.Error = ErrMethodNotFound(req.Method)
		return resp
	}

	start := time.Now()
	result, rpcErr := s.call(ctx, req.Method, handler, req.Params)
	s.logger.Debug("rpc call", "method", req.Method, "elapsed", time.Since(start), "failed", rpcErr != nil)

	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}
	return resp
}

// call runs handler under the server lock, turning a panic into an internal
// error so one bad request does not take the model server down.
func (s *Server) call(ctx context.Context, method string, handler Handler, params json.RawMessage) (result any, rpcErr *Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panicked", "method", method, "panic", r)
			result, rpcErr = nil, ErrInternalError(fmt.Sprintf("%s: %v", method, r))
		}
	}()
	return handler(ctx, params)
}

func (s *Server) reply(t *Transport, resp *Response) bool {
	if err := t.WriteResponse(resp); err != nil {
		s.logger.Debug("write error", "error", err)
		return false
	}
	return true
}

// hasIDField checks whether the raw JSON contains an "id" key at the top level.
func hasIDField(raw []byte) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	_, exists := obj["id"]
	return exists
}

// ServeStdio runs the server on stdin/stdout.
func (s *Server) ServeStdio(stdin io.Reader, stdout io.Writer) {
	s.ServeTransport(NewTransport(stdin, stdout))
}
