package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

type sentPrompt struct {
	system string
	user   string
}

type fakeGateway struct {
	responses []string
	err       error
	sent      []sentPrompt
}

func (f *fakeGateway) Send(_ context.Context, system string, user string) (string, error) {
	f.sent = append(f.sent, sentPrompt{system: system, user: user})
	if f.err != nil {
		return "", f.err
	}
	idx := len(f.sent) - 1
	if idx >= len(f.responses) {
		return "", fmt.Errorf("no fake response left at call=%d", len(f.sent))
	}
	return f.responses[idx], nil
}

func mathCatalog() []contractx.ToolSpec {
	return []contractx.ToolSpec{
		{
			Name:        "math",
			Description: "Evaluate an arithmetic expression.",
			Params: map[string]contractx.ParamSpec{
				"expression": {Type: contractx.ParamString, Description: "Expression", Required: true},
			},
		},
		{Name: "file", Description: "Read, write, or check existence of a file."},
	}
}

func TestPlanParsesFencedJSON(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{responses: []string{
		"```json\n[{\"index\":0,\"tool\":\"math\",\"description\":\"evaluate\",\"args\":{\"expression\":\"2 + 3 * 4\"}}]\n```",
	}}
	p, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	plan, err := p.Plan(context.Background(), "计算 2 + 3 * 4", mathCatalog())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plan.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(plan.Steps))
	}
	step := plan.Steps[0]
	if step.Tool != "math" || step.Index != 0 {
		t.Fatalf("unexpected step: %#v", step)
	}
	if step.Args["expression"] != "2 + 3 * 4" {
		t.Fatalf("unexpected args: %#v", step.Args)
	}
	if !strings.Contains(gw.sent[0].system, "- math:") {
		t.Fatal("catalog missing from planner prompt")
	}
}

func TestPlanDropsUnregisteredTools(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{responses: []string{
		`[{"index":0,"tool":"teleport","args":{}},{"index":1,"tool":"","description":"think"}]`,
	}}
	p, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	plan, err := p.Plan(context.Background(), "teleport me home", mathCatalog())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plan.Steps) != 0 {
		t.Fatalf("expected zero-step plan, got %#v", plan.Steps)
	}
}

func TestPlanReindexesSurvivingSteps(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{responses: []string{
		`[{"index":1,"tool":"ghost"},{"index":2,"tool":"math","args":{"expression":"1+1"}},{"index":3,"tool":"file","args":{"action":"exists","path":"x"}}]`,
	}}
	p, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	plan, err := p.Plan(context.Background(), "do things", mathCatalog())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plan.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(plan.Steps))
	}
	for i, step := range plan.Steps {
		if step.Index != i {
			t.Fatalf("step %d has index %d", i, step.Index)
		}
	}
}

func TestPlanRetriesOnceWithCorrectivePrompt(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{responses: []string{
		"Sure! Here is the plan you asked for.",
		`[{"index":0,"tool":"math","args":{"expression":"2+2"}}]`,
	}}
	p, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	plan, err := p.Plan(context.Background(), "add numbers", mathCatalog())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plan.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(plan.Steps))
	}
	if len(gw.sent) != 2 {
		t.Fatalf("expected 2 gateway calls, got %d", len(gw.sent))
	}
	if !strings.Contains(gw.sent[1].user, "could not be parsed") {
		t.Fatalf("second call is not corrective: %q", gw.sent[1].user)
	}
	if !strings.Contains(gw.sent[1].user, "Sure! Here is the plan") {
		t.Fatal("corrective prompt must carry the malformed response")
	}
}

func TestPlanFailsAfterSecondMalformedResponse(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{responses: []string{"not json", "still not json"}}
	p, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = p.Plan(context.Background(), "add numbers", mathCatalog())
	if !errors.Is(err, contractx.ErrPlanning) {
		t.Fatalf("expected ErrPlanning, got %v", err)
	}
	if len(gw.sent) != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", len(gw.sent))
	}
}

func TestPlanPropagatesGatewayFailure(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{err: fmt.Errorf("%w: connection refused", contractx.ErrGateway)}
	p, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = p.Plan(context.Background(), "add numbers", mathCatalog())
	if !errors.Is(err, contractx.ErrPlanning) {
		t.Fatalf("expected ErrPlanning, got %v", err)
	}
}

func TestPlanRejectsEmptyTask(t *testing.T) {
	t.Parallel()

	p, err := New(&fakeGateway{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = p.Plan(context.Background(), "   ", mathCatalog())
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
