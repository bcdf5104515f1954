package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/dialogeval/humanstudy/internal/jsonrpc"
)

// Method names served by a model server.
const (
	MethodInfo            = "agent.info"
	MethodSetEvalMode     = "agent.setEvalMode"
	MethodReset           = "agent.reset"
	MethodObserve         = "agent.observe"
	MethodDecode          = "agent.decode"
	MethodRefreshEncoding = "agent.refreshEncoding"
)

// ObserveParams is the payload of agent.observe.
type ObserveParams struct {
	Step        Step        `json:"step"`
	Observation Observation `json:"observation"`
}

// DecodeParams is the payload of agent.decode.
type DecodeParams struct {
	BeamSize  int    `json:"beam_size"`
	Inference string `json:"inference"`
}

// InfoResult is the result of agent.info.
type InfoResult struct {
	Checkpoint string `json:"checkpoint"`
}

// RPCParams configures a remote agent. Exactly one of Addr or Command is set.
type RPCParams struct {
	// Addr is the TCP address of a running model server.
	Addr string `mapstructure:"addr"`
	// Command launches a model server speaking JSON-RPC on its stdio.
	Command []string `mapstructure:"command"`
	// RateLimit caps calls per second; zero means unlimited.
	RateLimit      float64 `mapstructure:"rate_limit"`
	Burst          int     `mapstructure:"burst"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// RPCAgent forwards every call to a model server.
type RPCAgent struct {
	client     *jsonrpc.Client
	checkpoint string
	timeout    time.Duration
}

// NewRPCAgent wraps an established client.
func NewRPCAgent(client *jsonrpc.Client, checkpoint string, timeout time.Duration) *RPCAgent {
	return &RPCAgent{client: client, checkpoint: checkpoint, timeout: timeout}
}

// DialRPCAgent connects to the model server described by params.
func DialRPCAgent(ctx context.Context, checkpoint string, params RPCParams) (*RPCAgent, error) {
	opts := []jsonrpc.ClientOption{
		jsonrpc.WithRateLimit(params.RateLimit, params.Burst),
	}
	timeout := time.Duration(params.TimeoutSeconds) * time.Second

	switch {
	case params.Addr != "" && len(params.Command) > 0:
		return nil, fmt.Errorf("rpc agent: addr and command are mutually exclusive")
	case params.Addr != "":
		client, err := jsonrpc.Dial(ctx, params.Addr, opts...)
		if err != nil {
			return nil, fmt.Errorf("rpc agent: %w", err)
		}
		return NewRPCAgent(client, checkpoint, timeout), nil
	case len(params.Command) > 0:
		client, err := startServerProcess(params.Command, opts)
		if err != nil {
			return nil, fmt.Errorf("rpc agent: %w", err)
		}
		return NewRPCAgent(client, checkpoint, timeout), nil
	default:
		return nil, fmt.Errorf("rpc agent: one of addr or command is required")
	}
}

// processGracePeriod is how long a model server gets to exit after its input
// is closed before it is killed.
var processGracePeriod = 5 * time.Second

type process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// Close ends the server's input and waits for it to exit, killing it when it
// does not exit within processGracePeriod. Killing also closes its stdout,
// which releases a client still waiting for a response.
func (p *process) Close() error {
	err := p.stdin.Close()

	waited := make(chan error, 1)
	go func() { waited <- p.cmd.Wait() }()

	var werr error
	select {
	case werr = <-waited:
	case <-time.After(processGracePeriod):
		slog.Warn("Model server did not exit; killing it", "pid", p.cmd.Process.Pid)
		_ = p.cmd.Process.Kill()
		werr = <-waited
	}
	if werr != nil && err == nil {
		var exitErr *exec.ExitError
		if !errors.As(werr, &exitErr) {
			err = werr
		}
	}
	return err
}

func startServerProcess(command []string, opts []jsonrpc.ClientOption) (*jsonrpc.Client, error) {
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", command[0], err)
	}
	slog.Debug("Started model server", "command", command, "pid", cmd.Process.Pid)

	opts = append(opts, jsonrpc.WithCloser(&process{cmd: cmd, stdin: stdin}))
	return jsonrpc.NewClient(stdout, stdin, opts...), nil
}

func (r *RPCAgent) call(ctx context.Context, method string, params, result any) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.client.Call(ctx, method, params, result)
}

func (r *RPCAgent) SetEvalMode(ctx context.Context) error {
	return r.call(ctx, MethodSetEvalMode, nil, nil)
}

func (r *RPCAgent) ResetState(ctx context.Context) error {
	return r.call(ctx, MethodReset, nil, nil)
}

func (r *RPCAgent) Observe(ctx context.Context, step Step, obs Observation) error {
	return r.call(ctx, MethodObserve, ObserveParams{Step: step, Observation: obs}, nil)
}

func (r *RPCAgent) DecodeGreedy(ctx context.Context, beamSize int) (*Decoded, error) {
	var out Decoded
	if err := r.call(ctx, MethodDecode, DecodeParams{BeamSize: beamSize, Inference: "greedy"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RPCAgent) RefreshEncoding(ctx context.Context) error {
	return r.call(ctx, MethodRefreshEncoding, nil, nil)
}

// Checkpoint returns the configured checkpoint, or asks the server when none
// was configured.
func (r *RPCAgent) Checkpoint() string {
	if r.checkpoint != "" {
		return r.checkpoint
	}
	var info InfoResult
	if err := r.call(context.Background(), MethodInfo, nil, &info); err != nil {
		slog.Warn("Could not query model server checkpoint", "error", err)
		return ""
	}
	r.checkpoint = info.Checkpoint
	return r.checkpoint
}

func (r *RPCAgent) Close() error {
	return r.client.Close()
}
