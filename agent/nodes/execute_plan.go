package node

import (
	"context"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

// ExecutePlan never fails the run: per-step failures are data inside the
// trace, not node errors.
func ExecutePlan(
	ctx context.Context,
	st *RunState,
	executor contractx.Executor,
) (*RunState, error) {
	st.Trace = executor.Execute(ctx, st.Plan)
	st.State = contractx.RunSummarizing
	return st, nil
}
