package node

import (
	contractx "github.com/pattarapon/agentrun/agent/contract"
)

func FinalizeResult(st *RunState) (*contractx.AgentResult, error) {
	if st == nil {
		return nil, contractx.ErrValidation
	}
	return &contractx.AgentResult{
		Task:      st.Task,
		Plan:      st.Plan,
		Trace:     st.Trace,
		Summary:   st.Summary,
		State:     st.State,
		CreatedAt: st.Now,
	}, nil
}
