package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/dialogeval/humanstudy/internal/agent"
	"github.com/dialogeval/humanstudy/internal/jsonrpc"
	"github.com/spf13/cobra"
)

func newServeAgentCommand() *cobra.Command {
	var (
		tcpAddr        string
		tcpAllowRemote bool
		checkpoint     string
		utterances     []string
		endIndex       int
	)

	cmd := &cobra.Command{
		Use:   "serve-agent",
		Short: "Serve a scripted agent over JSON-RPC 2.0",
		Long: `Serve a scripted agent over JSON-RPC 2.0.

The agent replies to round r with the r-th --utterance (cycling), given as
comma-separated vocabulary indices beginning with the start marker. Pass the
end marker's index as --end-index so reported lengths stop before it, or
leave the end marker out of the utterances. It lets a study run end to end
without a model server.

By default, the server communicates over stdin/stdout using newline-delimited
JSON, which is what an rpc agent with a "command" param expects. Use --tcp to
listen on a socket instead. TCP defaults to loopback (127.0.0.1). Use
--tcp-allow-remote to bind to all interfaces.

Supported methods:
  agent.info             Report the checkpoint name
  agent.setEvalMode      Switch to evaluation mode
  agent.reset            Clear per-batch state
  agent.observe          Feed a context or round observation
  agent.decode           Greedy decode with a beam width
  agent.refreshEncoding  Recompute the dialog encoding`,
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := parseUtterances(utterances)
			if err != nil {
				return err
			}

			registry := jsonrpc.NewMethodRegistry()
			agent.Register(registry, agent.NewScriptedAgent(checkpoint, script, agent.WithEndIndex(endIndex)))

			logger := slog.Default()
			server := jsonrpc.NewServer(registry, logger)

			if tcpAddr != "" {
				tcpAddr = resolveTCPAddr(tcpAddr, tcpAllowRemote, logger)

				listener, err := jsonrpc.NewTCPListener(tcpAddr, server)
				if err != nil {
					return fmt.Errorf("failed to start TCP server: %w", err)
				}
				defer listener.Close() //nolint:errcheck
				fmt.Fprintf(os.Stderr, "Agent server listening on %s\n", listener.Addr()) //nolint:errcheck
				return listener.Serve()
			}

			fmt.Fprintln(os.Stderr, "Agent server running on stdio") //nolint:errcheck
			server.ServeStdio(cmd.InOrStdin(), cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&tcpAddr, "tcp", "", "TCP address to listen on (e.g., :9001)")
	cmd.Flags().BoolVar(&tcpAllowRemote, "tcp-allow-remote", false,
		"Allow binding to non-loopback addresses (WARNING: exposes the server to the network with no authentication)")
	cmd.Flags().StringVar(&checkpoint, "checkpoint", "scripted", "Checkpoint name reported in results")
	cmd.Flags().StringArrayVar(&utterances, "utterance", nil, "Comma-separated token indices for one round (repeatable)")
	cmd.Flags().IntVar(&endIndex, "end-index", 0, "Vocabulary index of the end marker; lengths stop before it (0 disables)")
	_ = cmd.MarkFlagRequired("utterance")

	return cmd
}

// parseUtterances turns "1,5,7,2" flags into token index sequences.
func parseUtterances(raw []string) ([][]int, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one --utterance is required")
	}
	out := make([][]int, 0, len(raw))
	for i, u := range raw {
		var seq []int
		for field := range strings.SplitSeq(u, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("utterance %d: %q is not a token index", i+1, field)
			}
			seq = append(seq, n)
		}
		if len(seq) == 0 {
			return nil, fmt.Errorf("utterance %d is empty", i+1)
		}
		out = append(out, seq)
	}
	return out, nil
}

// resolveTCPAddr ensures TCP addresses default to loopback unless --tcp-allow-remote is set.
func resolveTCPAddr(addr string, allowRemote bool, logger *slog.Logger) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		// Likely just a port like "9001"; treat as ":9001".
		host = ""
		port = addr
	}

	if allowRemote {
		logger.Warn("Agent server binding to all interfaces without authentication", "address", addr)
		return addr
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		logger.Info("Agent server listening on TCP (local only)")
		return net.JoinHostPort("127.0.0.1", port)
	}

	return addr
}
