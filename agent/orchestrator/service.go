package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/pattarapon/agentrun/agent/contract"
	historyx "github.com/pattarapon/agentrun/agent/history"
	nodex "github.com/pattarapon/agentrun/agent/nodes"
)

// Service drives a task through the run pipeline:
// Idle -> Planning -> Executing -> Summarizing -> Done, with Failed
// reachable from Planning and Summarizing. Executing cannot fail the run.
type Service struct {
	planner    contractx.Planner
	executor   contractx.Executor
	summarizer contractx.Summarizer
	history    contractx.History
	catalog    []contractx.ToolSpec

	graphRunner compose.Runnable[*nodex.RunState, *contractx.AgentResult]

	now func() time.Time
}

func New(
	planner contractx.Planner,
	executor contractx.Executor,
	summarizer contractx.Summarizer,
	history contractx.History,
	catalog []contractx.ToolSpec,
) (*Service, error) {
	if planner == nil {
		return nil, errors.New("planner is required")
	}
	if executor == nil {
		return nil, errors.New("executor is required")
	}
	if summarizer == nil {
		return nil, errors.New("summarizer is required")
	}
	if history == nil {
		history = historyx.NewMemoryStore()
	}

	s := &Service{
		planner:    planner,
		executor:   executor,
		summarizer: summarizer,
		history:    history,
		catalog:    catalog,
		now:        time.Now,
	}

	graphRunner, err := s.compileRunGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// History exposes the session's run history for the caller to render or
// persist; the core only appends to it.
func (s *Service) History() contractx.History {
	return s.history
}

// Catalog returns the tool specs the planner sees.
func (s *Service) Catalog() []contractx.ToolSpec {
	return s.catalog
}

// RunTask is the sole caller-facing entry point. A run that fails in
// planning or summarization still returns a structured AgentResult in the
// Failed state; the only error this returns is ErrValidation for a blank
// task.
func (s *Service) RunTask(ctx context.Context, task string) (*contractx.AgentResult, error) {
	if strings.TrimSpace(task) == "" {
		return nil, fmt.Errorf("%w: task is required", contractx.ErrValidation)
	}

	run := &nodex.RunState{
		Task:  task,
		Now:   s.now().UTC(),
		State: contractx.RunIdle,
	}

	result, err := s.graphRunner.Invoke(ctx, run)
	if err != nil {
		result = failedResult(run, err)
		log.Warn().
			Err(err).
			Str("phase", string(run.State)).
			Msg("run failed")
	}

	if err := s.history.Append(ctx, result); err != nil {
		// History is bookkeeping; losing a record must not fail the run.
		log.Warn().Err(err).Msg("failed to append run to history")
	}

	return result, nil
}

// failedResult builds the terminal artifact for a failed run. The run state
// pointer survived the graph, so the trace gathered before the failure
// (relevant when summarization fails) is still handed to the caller.
func failedResult(run *nodex.RunState, err error) *contractx.AgentResult {
	return &contractx.AgentResult{
		Task:      run.Task,
		Plan:      run.Plan,
		Trace:     run.Trace,
		State:     contractx.RunFailed,
		Failure:   err.Error(),
		CreatedAt: run.Now,
	}
}
