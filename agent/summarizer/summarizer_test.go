package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

type fakeGateway struct {
	response string
	err      error
	system   string
	user     string
	calls    int
}

func (f *fakeGateway) Send(_ context.Context, system string, user string) (string, error) {
	f.calls++
	f.system = system
	f.user = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestSummarizeRendersTrace(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{response: "The result of 2 + 3 * 4 is 14."}
	s, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	trace := contractx.Trace{Results: []contractx.StepResult{
		{Index: 0, Tool: "math", Success: true, Output: map[string]any{"result": 14}},
		{Index: 1, Tool: "file", Success: false, Error: "permission denied"},
	}}
	summary, err := s.Summarize(context.Background(), "计算 2 + 3 * 4", trace)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != gw.response {
		t.Fatalf("unexpected summary: %q", summary)
	}
	if !strings.Contains(gw.user, "Task: 计算 2 + 3 * 4") {
		t.Fatalf("task missing from prompt: %q", gw.user)
	}
	if !strings.Contains(gw.user, "step 0 [ok] math") {
		t.Fatalf("successful step missing from prompt: %q", gw.user)
	}
	if !strings.Contains(gw.user, "step 1 [failed] file: permission denied") {
		t.Fatalf("failed step missing from prompt: %q", gw.user)
	}
}

func TestSummarizeEmptyTrace(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{response: "No tool was able to serve this task."}
	s, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	summary, err := s.Summarize(context.Background(), "teleport me home", contractx.Trace{})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary == "" {
		t.Fatal("expected non-empty summary")
	}
	if !strings.Contains(gw.user, "(no steps were executed)") {
		t.Fatalf("empty-trace marker missing from prompt: %q", gw.user)
	}
}

func TestSummarizeNotesEarlyStops(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{response: "partial"}
	s, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := s.Summarize(context.Background(), "long task", contractx.Trace{Truncated: true}); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !strings.Contains(gw.user, "step ceiling") {
		t.Fatalf("truncation note missing: %q", gw.user)
	}

	if _, err := s.Summarize(context.Background(), "long task", contractx.Trace{Halted: true}); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !strings.Contains(gw.user, "halted early") {
		t.Fatalf("halt note missing: %q", gw.user)
	}
}

func TestSummarizeWrapsGatewayFailure(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{err: errors.New("model unavailable")}
	s, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = s.Summarize(context.Background(), "计算 2 + 3 * 4", contractx.Trace{})
	if !errors.Is(err, contractx.ErrSummarization) {
		t.Fatalf("expected ErrSummarization, got %v", err)
	}
}
