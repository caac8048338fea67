package executor

import (
	"context"
	"fmt"
	"testing"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

type fakeRegistry struct {
	outcomes map[string]contractx.ToolOutcome
	terminal map[string]bool
	calls    []string
}

func (f *fakeRegistry) Invoke(_ context.Context, name string, _ map[string]any) (contractx.ToolOutcome, error) {
	f.calls = append(f.calls, name)
	outcome, ok := f.outcomes[name]
	if !ok {
		return contractx.ToolOutcome{}, fmt.Errorf("%w: %s", contractx.ErrUnknownTool, name)
	}
	return outcome, nil
}

func (f *fakeRegistry) Terminal(name string) bool { return f.terminal[name] }

func planOf(tools ...string) contractx.Plan {
	plan := contractx.Plan{Task: "test"}
	for i, tool := range tools {
		plan.Steps = append(plan.Steps, contractx.PlanStep{Index: i, Tool: tool, Args: map[string]any{}})
	}
	return plan
}

func TestExecuteRecordsEveryStepInOrder(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{outcomes: map[string]contractx.ToolOutcome{
		"math": {Success: true, Output: "14"},
		"file": {Success: true, Output: "written"},
	}}
	exec := New(registry, Config{})

	trace := exec.Execute(context.Background(), planOf("math", "file", "math"))
	if len(trace.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(trace.Results))
	}
	for i, r := range trace.Results {
		if r.Index != i {
			t.Fatalf("result %d has index %d", i, r.Index)
		}
	}
	if trace.Truncated || trace.Halted {
		t.Fatalf("unexpected flags: %#v", trace)
	}
}

func TestExecuteContinuesAfterFailedStep(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{outcomes: map[string]contractx.ToolOutcome{
		"broken": {Success: false, Error: "boom"},
		"math":   {Success: true, Output: "14"},
	}}
	exec := New(registry, Config{})

	trace := exec.Execute(context.Background(), planOf("broken", "math"))
	if len(trace.Results) != 2 {
		t.Fatalf("expected both steps to run, got %d", len(trace.Results))
	}
	if trace.Results[0].Success || trace.Results[0].Error != "boom" {
		t.Fatalf("unexpected first result: %#v", trace.Results[0])
	}
	if !trace.Results[1].Success {
		t.Fatalf("second step should have run: %#v", trace.Results[1])
	}
	if trace.Failed() != 1 || trace.Succeeded() != 1 {
		t.Fatalf("unexpected counts: failed=%d succeeded=%d", trace.Failed(), trace.Succeeded())
	}
}

func TestExecuteRecordsUnknownToolAsFailedStep(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{outcomes: map[string]contractx.ToolOutcome{}}
	exec := New(registry, Config{})

	trace := exec.Execute(context.Background(), planOf("ghost"))
	if len(trace.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(trace.Results))
	}
	r := trace.Results[0]
	if r.Success || r.Error == "" {
		t.Fatalf("unexpected result: %#v", r)
	}
}

func TestExecuteTruncatesAtStepCeiling(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{outcomes: map[string]contractx.ToolOutcome{
		"math": {Success: true, Output: "14"},
	}}
	exec := New(registry, Config{MaxSteps: 2})

	trace := exec.Execute(context.Background(), planOf("math", "math", "math", "math"))
	if len(trace.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(trace.Results))
	}
	if !trace.Truncated {
		t.Fatal("expected truncated trace")
	}
	if trace.Halted {
		t.Fatal("truncate policy must not halt")
	}
}

func TestExecuteAbortPolicyMarksHalted(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{outcomes: map[string]contractx.ToolOutcome{
		"math": {Success: true, Output: "14"},
	}}
	exec := New(registry, Config{MaxSteps: 1, OnLimit: LimitAbort})

	trace := exec.Execute(context.Background(), planOf("math", "math"))
	if !trace.Truncated || !trace.Halted {
		t.Fatalf("expected truncated and halted, got %#v", trace)
	}
}

func TestExecuteStopsAfterTerminalTool(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{
		outcomes: map[string]contractx.ToolOutcome{
			"finish": {Success: true, Output: "done"},
			"math":   {Success: true, Output: "14"},
		},
		terminal: map[string]bool{"finish": true},
	}
	exec := New(registry, Config{})

	trace := exec.Execute(context.Background(), planOf("finish", "math"))
	if len(trace.Results) != 1 {
		t.Fatalf("expected execution to stop after terminal tool, got %d results", len(trace.Results))
	}
	if !trace.Halted {
		t.Fatal("expected halted trace")
	}
	if len(registry.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %v", registry.calls)
	}
}

func TestExecuteFailedTerminalToolDoesNotHalt(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{
		outcomes: map[string]contractx.ToolOutcome{
			"finish": {Success: false, Error: "refused"},
			"math":   {Success: true, Output: "14"},
		},
		terminal: map[string]bool{"finish": true},
	}
	exec := New(registry, Config{})

	trace := exec.Execute(context.Background(), planOf("finish", "math"))
	if len(trace.Results) != 2 {
		t.Fatalf("expected both steps to run, got %d", len(trace.Results))
	}
	if trace.Halted {
		t.Fatal("failed terminal step must not halt execution")
	}
}

func TestNewNormalizesConfig(t *testing.T) {
	t.Parallel()

	exec := New(&fakeRegistry{}, Config{MaxSteps: -1, OnLimit: "explode"})
	if exec.maxSteps != defaultMaxSteps {
		t.Fatalf("expected default max steps, got %d", exec.maxSteps)
	}
	if exec.onLimit != LimitTruncate {
		t.Fatalf("expected truncate policy, got %s", exec.onLimit)
	}
}

func TestExecuteEmptyPlan(t *testing.T) {
	t.Parallel()

	exec := New(&fakeRegistry{}, Config{})
	trace := exec.Execute(context.Background(), contractx.Plan{Task: "noop"})
	if len(trace.Results) != 0 || trace.Truncated || trace.Halted {
		t.Fatalf("unexpected trace: %#v", trace)
	}
	if trace.Failed() != 0 {
		t.Fatalf("empty trace must have zero failures, got %d", trace.Failed())
	}
}
