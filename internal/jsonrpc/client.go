package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"golang.org/x/time/rate"
)

// Client issues JSON-RPC 2.0 calls over a Transport, one at a time.
// Responses are matched by ID; notifications from the peer are logged and
// skipped.
type Client struct {
	transport *Transport
	closer    io.Closer
	limiter   *rate.Limiter
	logger    *slog.Logger

	mu     sync.Mutex
	nextID int64
	broken error

	closeOnce sync.Once
	closeErr  error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRateLimit limits outgoing calls to perSecond, with the given burst.
// A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the logger used for skipped messages.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCloser registers a resource released by Close, such as the connection
// or subprocess behind the streams.
func WithCloser(closer io.Closer) ClientOption {
	return func(c *Client) {
		c.closer = closer
	}
}

// NewClient creates a client reading responses from r and writing requests to w.
func NewClient(r io.Reader, w io.Writer, opts ...ClientOption) *Client {
	c := &Client{
		transport: NewTransport(r, w),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to a JSON-RPC server listening on a TCP address.
func Dial(ctx context.Context, addr string, opts ...ClientOption) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	opts = append(opts, WithCloser(conn))
	c := NewClient(conn, conn, opts...)
	return c, nil
}

type rawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

type exchangeResult struct {
	resp *rawResponse
	err  error
}

// Call invokes method with params and decodes the result into result, which
// may be nil when the caller does not need it. A server-side failure wraps
// *Error.
//
// When ctx ends before the peer answers, the client releases its closer to
// unblock the stream and stays broken: every later call fails.
func (c *Client) Call(ctx context.Context, method string, params any, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("jsonrpc: %s: %w", method, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken != nil {
		return fmt.Errorf("jsonrpc: %s: %w", method, c.broken)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("jsonrpc: %s: %w", method, err)
	}

	c.nextID++
	id := json.RawMessage(strconv.FormatInt(c.nextID, 10))

	req := &Request{JSONRPC: "2.0", Method: method, ID: id}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("jsonrpc: %s: marshal params: %w", method, err)
		}
		req.Params = raw
	}

	done := make(chan exchangeResult, 1)
	go func() {
		resp, err := c.exchange(method, req)
		done <- exchangeResult{resp: resp, err: err}
	}()

	var out exchangeResult
	select {
	case <-ctx.Done():
		c.abort(ctx.Err())
		return fmt.Errorf("jsonrpc: %s: %w", method, ctx.Err())
	case out = <-done:
	}
	if out.err != nil {
		return out.err
	}

	if out.resp.Error != nil {
		return callError(method, out.resp.Error)
	}
	if result == nil || len(out.resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(out.resp.Result, result); err != nil {
		return fmt.Errorf("jsonrpc: %s: decode result: %w", method, err)
	}
	return nil
}

// exchange writes req and reads until the matching response arrives.
// Notifications and responses to other ids are skipped.
func (c *Client) exchange(method string, req *Request) (*rawResponse, error) {
	if err := c.transport.WriteRequest(req); err != nil {
		return nil, fmt.Errorf("jsonrpc: %s: write: %w", method, err)
	}

	for {
		line, err := c.transport.readLine()
		if err != nil {
			return nil, fmt.Errorf("jsonrpc: %s: read: %w", method, err)
		}

		var resp rawResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("jsonrpc: %s: invalid response: %w", method, err)
		}
		if string(resp.ID) == "null" && resp.Error != nil {
			return &resp, nil
		}
		if len(resp.ID) == 0 {
			c.logger.Debug("skipping notification", "method", method)
			continue
		}
		if string(resp.ID) != string(req.ID) {
			c.logger.Debug("skipping response for another call", "id", string(resp.ID), "want", string(req.ID))
			continue
		}
		return &resp, nil
	}
}

// abort marks the client unusable and closes the underlying resource so a
// pending read returns. Without a closer the read goroutine stays parked
// until the peer writes or the stream ends.
func (c *Client) abort(cause error) {
	c.broken = fmt.Errorf("connection abandoned after %w", cause)
	if err := c.release(); err != nil {
		c.logger.Debug("closing after abandoned call", "error", err)
	}
}

func (c *Client) release() error {
	c.closeOnce.Do(func() {
		if c.closer != nil {
			c.closeErr = c.closer.Close()
		}
	})
	return c.closeErr
}

func callError(method string, rpcErr *Error) error {
	if rpcErr.Data != nil {
		return fmt.Errorf("jsonrpc: %s: %w: %v", method, rpcErr, rpcErr.Data)
	}
	return fmt.Errorf("jsonrpc: %s: %w", method, rpcErr)
}

// Close releases the resource registered with WithCloser, if any. It is safe
// to call more than once.
func (c *Client) Close() error {
	return c.release()
}
