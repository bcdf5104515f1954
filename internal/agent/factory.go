package agent

import (
	"context"
	"fmt"

	"github.com/dialogeval/humanstudy/internal/models"
	"github.com/go-viper/mapstructure/v2"
)

// Agent implementation types accepted in study files.
const (
	TypeScripted = "scripted"
	TypeRPC      = "rpc"
)

// ScriptedParams configures a ScriptedAgent from a study file.
type ScriptedParams struct {
	Utterances [][]int `mapstructure:"utterances"`
	// EndIndex is the end marker's vocabulary index; lengths stop before it.
	EndIndex int `mapstructure:"end_index"`
}

// New builds the agent described by cfg.
func New(ctx context.Context, cfg models.AgentConfig) (Questioner, error) {
	switch cfg.Type {
	case TypeScripted:
		var p ScriptedParams
		if err := mapstructure.Decode(cfg.Params, &p); err != nil {
			return nil, fmt.Errorf("decoding scripted agent params: %w", err)
		}
		if len(p.Utterances) == 0 {
			return nil, fmt.Errorf("scripted agent requires at least one utterance")
		}
		return NewScriptedAgent(cfg.Checkpoint, p.Utterances, WithEndIndex(p.EndIndex)), nil
	case TypeRPC:
		var p RPCParams
		if err := mapstructure.WeakDecode(cfg.Params, &p); err != nil {
			return nil, fmt.Errorf("decoding rpc agent params: %w", err)
		}
		return DialRPCAgent(ctx, cfg.Checkpoint, p)
	default:
		return nil, fmt.Errorf("unknown agent type: %q", cfg.Type)
	}
}
