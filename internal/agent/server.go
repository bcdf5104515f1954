package agent

import (
	"context"
	"encoding/json"

	"github.com/dialogeval/humanstudy/internal/jsonrpc"
)

// Register exposes a over JSON-RPC under the agent.* method names. The
// refreshEncoding method is only registered when a is a Questioner.
func Register(registry *jsonrpc.MethodRegistry, a Agent) {
	registry.Register(MethodInfo, func(_ context.Context, _ json.RawMessage) (any, *jsonrpc.Error) {
		return InfoResult{Checkpoint: a.Checkpoint()}, nil
	})
	registry.Register(MethodSetEvalMode, func(ctx context.Context, _ json.RawMessage) (any, *jsonrpc.Error) {
		if err := a.SetEvalMode(ctx); err != nil {
			return nil, jsonrpc.ErrAgentFailed(err.Error())
		}
		return okResult, nil
	})
	registry.Register(MethodReset, func(ctx context.Context, _ json.RawMessage) (any, *jsonrpc.Error) {
		if err := a.ResetState(ctx); err != nil {
			return nil, jsonrpc.ErrAgentFailed(err.Error())
		}
		return okResult, nil
	})
	registry.Register(MethodObserve, func(ctx context.Context, params json.RawMessage) (any, *jsonrpc.Error) {
		var p ObserveParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, jsonrpc.ErrInvalidParams(err.Error())
		}
		if err := a.Observe(ctx, p.Step, p.Observation); err != nil {
			return nil, jsonrpc.ErrAgentFailed(err.Error())
		}
		return okResult, nil
	})
	registry.Register(MethodDecode, func(ctx context.Context, params json.RawMessage) (any, *jsonrpc.Error) {
		var p DecodeParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, jsonrpc.ErrInvalidParams(err.Error())
		}
		if p.Inference != "" && p.Inference != "greedy" {
			return nil, jsonrpc.ErrInvalidParams("unsupported inference " + p.Inference)
		}
		out, err := a.DecodeGreedy(ctx, p.BeamSize)
		if err != nil {
			return nil, jsonrpc.ErrDecodeFailed(err.Error())
		}
		return out, nil
	})

	if q, isQuestioner := a.(Questioner); isQuestioner {
		registry.Register(MethodRefreshEncoding, func(ctx context.Context, _ json.RawMessage) (any, *jsonrpc.Error) {
			if err := q.RefreshEncoding(ctx); err != nil {
				return nil, jsonrpc.ErrAgentFailed(err.Error())
			}
			return okResult, nil
		})
	}
}

var okResult = map[string]bool{"ok": true}
