package contract

import "context"

// Gateway is the boundary abstraction over external LLM providers.
// Transport, auth, and timeouts live behind it; failures wrap ErrGateway.
type Gateway interface {
	Send(ctx context.Context, system string, user string) (string, error)
}

type Planner interface {
	Plan(ctx context.Context, task string, catalog []ToolSpec) (Plan, error)
}

type Executor interface {
	Execute(ctx context.Context, plan Plan) Trace
}

type Summarizer interface {
	Summarize(ctx context.Context, task string, trace Trace) (string, error)
}

// History is the append-only record of completed runs. Serialization is
// the caller's concern; the core only appends and reads.
type History interface {
	Append(ctx context.Context, result *AgentResult) error
	All(ctx context.Context) ([]*AgentResult, error)
}
