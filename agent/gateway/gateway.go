package gateway

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/pattarapon/agentrun/agent/contract"
)

// ModelGateway sends a system+user prompt pair through a chat model and
// returns the raw text response. It is the only place the core touches an
// LLM provider; planner and summarizer depend on the contract.Gateway
// interface, never on the model directly.
type ModelGateway struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.Gateway = (*ModelGateway)(nil)

func New(ctx context.Context, chatModel einomodel.BaseChatModel) (*ModelGateway, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	runner, err := compileSendGraph(ctx, chatModel)
	if err != nil {
		return nil, fmt.Errorf("%w: compile gateway graph: %v", contractx.ErrGateway, err)
	}
	return &ModelGateway{runner: runner}, nil
}

func (g *ModelGateway) Send(ctx context.Context, system string, user string) (string, error) {
	msg, err := g.runner.Invoke(ctx, map[string]any{
		"system": system,
		"input":  user,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrGateway, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty model response", contractx.ErrGateway)
	}
	return msg.Content, nil
}

func compileSendGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add gateway prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add gateway model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add gateway edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add gateway edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add gateway edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("gateway.send_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile gateway graph: %w", err)
	}
	return runner, nil
}
