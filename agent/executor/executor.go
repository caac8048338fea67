package executor

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

// LimitPolicy controls what happens when a plan hits the step ceiling.
// Either way execution stops there; the run still proceeds to
// summarization, the policy only decides how the cut is recorded.
type LimitPolicy string

const (
	// LimitTruncate marks the trace truncated and lets the run summarize
	// what did execute.
	LimitTruncate LimitPolicy = "truncate"
	// LimitAbort additionally marks the trace halted, signalling a hard
	// stop to the caller.
	LimitAbort LimitPolicy = "abort"
)

const defaultMaxSteps = 20

// Registry is the slice of the tool registry the executor needs.
type Registry interface {
	Invoke(ctx context.Context, name string, args map[string]any) (contractx.ToolOutcome, error)
	Terminal(name string) bool
}

type Config struct {
	MaxSteps int         `envconfig:"MAX_STEPS" split_words:"true" default:"20"`
	OnLimit  LimitPolicy `envconfig:"ON_LIMIT" split_words:"true" default:"truncate"`
}

// ToolExecutor walks a plan strictly in order. A failed step is data, not
// control flow: it is recorded and the walk continues. Early stops are the
// step ceiling and terminal tools.
type ToolExecutor struct {
	registry Registry
	maxSteps int
	onLimit  LimitPolicy
}

var _ contractx.Executor = (*ToolExecutor)(nil)

func New(registry Registry, cfg Config) *ToolExecutor {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	onLimit := cfg.OnLimit
	if onLimit != LimitAbort {
		onLimit = LimitTruncate
	}
	return &ToolExecutor{
		registry: registry,
		maxSteps: maxSteps,
		onLimit:  onLimit,
	}
}

func (e *ToolExecutor) Execute(ctx context.Context, plan contractx.Plan) contractx.Trace {
	trace := contractx.Trace{Results: make([]contractx.StepResult, 0, len(plan.Steps))}

	for i, step := range plan.Steps {
		if i >= e.maxSteps {
			trace.Truncated = true
			if e.onLimit == LimitAbort {
				trace.Halted = true
			}
			log.Warn().
				Int("max_steps", e.maxSteps).
				Int("plan_steps", len(plan.Steps)).
				Str("policy", string(e.onLimit)).
				Msg("step ceiling reached, stopping execution")
			break
		}

		result := e.runStep(ctx, step)
		trace.Results = append(trace.Results, result)

		if result.Success && e.registry.Terminal(step.Tool) {
			trace.Halted = true
			log.Info().Str("tool", step.Tool).Int("index", step.Index).Msg("terminal tool halted execution")
			break
		}
	}

	return trace
}

func (e *ToolExecutor) runStep(ctx context.Context, step contractx.PlanStep) contractx.StepResult {
	outcome, err := e.registry.Invoke(ctx, step.Tool, step.Args)
	if err != nil {
		// The planner drops unknown tools at parse time; this is the
		// execution-time recheck.
		log.Warn().Err(err).Int("index", step.Index).Msg("step dispatch failed")
		return contractx.StepResult{
			Index: step.Index,
			Tool:  step.Tool,
			Error: err.Error(),
		}
	}

	result := contractx.StepResult{
		Index:   step.Index,
		Tool:    step.Tool,
		Success: outcome.Success,
		Output:  outcome.Output,
		Error:   strings.TrimSpace(outcome.Error),
	}

	evt := log.Debug().Int("index", step.Index).Str("tool", step.Tool).Bool("success", result.Success)
	if result.Error != "" {
		evt = evt.Str("error", result.Error)
	}
	evt.Msg("step executed")

	return result
}
