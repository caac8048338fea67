package contract

import "time"

// RunState tracks a task run through the orchestration pipeline.
type RunState string

const (
	RunIdle        RunState = "idle"
	RunPlanning    RunState = "planning"
	RunExecuting   RunState = "executing"
	RunSummarizing RunState = "summarizing"
	RunDone        RunState = "done"
	RunFailed      RunState = "failed"
)

// ParamType is the shallow type contract for a tool parameter.
type ParamType string

const (
	ParamString ParamType = "string"
	ParamNumber ParamType = "number"
	ParamBool   ParamType = "boolean"
	ParamObject ParamType = "object"
)

type ParamSpec struct {
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required,omitempty"`
}

// ToolSpec declares a tool's input contract. Terminal tools halt the
// executor after a successful call.
type ToolSpec struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Params      map[string]ParamSpec `json:"params,omitempty"`
	Terminal    bool                 `json:"terminal,omitempty"`
}

// ToolOutcome is the shape every tool returns across the call boundary.
// Tools convert internal failures into Success=false; they never leak
// errors to the executor.
type ToolOutcome struct {
	Success bool   `json:"success"`
	Output  any    `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PlanStep is one tool invocation in a plan. Never mutated after parse.
type PlanStep struct {
	Index       int            `json:"index"`
	Tool        string         `json:"tool"`
	Description string         `json:"description,omitempty"`
	Args        map[string]any `json:"args,omitempty"`
}

// Plan is an ordered sequence of steps; insertion order is execution order.
// Every step's tool name is guaranteed registered at parse time.
type Plan struct {
	Task  string     `json:"task"`
	Steps []PlanStep `json:"steps"`
}

type StepResult struct {
	Index   int    `json:"index"`
	Tool    string `json:"tool"`
	Success bool   `json:"success"`
	Output  any    `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Trace is the ordered record of executing a plan. Truncated is set when
// the step ceiling cut the run short; Halted when a terminal tool stopped it.
type Trace struct {
	Results   []StepResult `json:"results"`
	Truncated bool         `json:"truncated,omitempty"`
	Halted    bool         `json:"halted,omitempty"`
}

func (t Trace) Succeeded() int {
	n := 0
	for _, r := range t.Results {
		if r.Success {
			n++
		}
	}
	return n
}

func (t Trace) Failed() int {
	return len(t.Results) - t.Succeeded()
}

// AgentResult is the terminal artifact of a run, immutable once built.
// Failed runs still produce one so the caller can render it uniformly.
type AgentResult struct {
	Task      string    `json:"task"`
	Plan      Plan      `json:"plan"`
	Trace     Trace     `json:"trace"`
	Summary   string    `json:"summary,omitempty"`
	State     RunState  `json:"state"`
	Failure   string    `json:"failure,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
