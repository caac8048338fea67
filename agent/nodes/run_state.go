package node

import (
	"strings"
	"time"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

// RunState is the mutable state threaded through the run pipeline. The
// orchestrator allocates it before invoking the graph so the trace stays
// reachable even when a later node fails.
type RunState struct {
	Task  string
	Now   time.Time
	State contractx.RunState

	Plan    contractx.Plan
	Trace   contractx.Trace
	Summary string
}

// ValidateTask normalizes the task text and moves the run into Planning.
func ValidateTask(st *RunState) (*RunState, error) {
	if st == nil {
		return nil, contractx.ErrValidation
	}
	st.Task = strings.TrimSpace(st.Task)
	if st.Task == "" {
		return nil, contractx.ErrValidation
	}
	st.State = contractx.RunPlanning
	return st, nil
}
