package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/pattarapon/agentrun/agent/contract"
	nodex "github.com/pattarapon/agentrun/agent/nodes"
)

func (s *Service) compileRunGraph(
	ctx context.Context,
) (compose.Runnable[*nodex.RunState, *contractx.AgentResult], error) {
	graph := compose.NewGraph[*nodex.RunState, *contractx.AgentResult]()

	if err := graph.AddLambdaNode("validate_task",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.RunState) (*nodex.RunState, error) {
			return nodex.ValidateTask(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_task: %w", err)
	}

	if err := graph.AddLambdaNode("plan_task",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.RunState) (*nodex.RunState, error) {
			return nodex.PlanTask(ctx, in, s.planner, s.catalog)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan_task: %w", err)
	}

	if err := graph.AddLambdaNode("execute_plan",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.RunState) (*nodex.RunState, error) {
			return nodex.ExecutePlan(ctx, in, s.executor)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_plan: %w", err)
	}

	if err := graph.AddLambdaNode("summarize",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.RunState) (*nodex.RunState, error) {
			return nodex.Summarize(ctx, in, s.summarizer)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node summarize: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_result",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.RunState) (*contractx.AgentResult, error) {
			return nodex.FinalizeResult(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_result: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_task"},
		{"validate_task", "plan_task"},
		{"plan_task", "execute_plan"},
		{"execute_plan", "summarize"},
		{"summarize", "finalize_result"},
		{"finalize_result", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("agent.run_task"))
	if err != nil {
		return nil, fmt.Errorf("compile run graph: %w", err)
	}
	return runner, nil
}
