package node

import (
	"context"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

func PlanTask(
	ctx context.Context,
	st *RunState,
	planner contractx.Planner,
	catalog []contractx.ToolSpec,
) (*RunState, error) {
	plan, err := planner.Plan(ctx, st.Task, catalog)
	if err != nil {
		return nil, err
	}

	st.Plan = plan
	st.State = contractx.RunExecuting
	return st, nil
}
