package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/pattarapon/agentrun/agent/contract"
	promptx "github.com/pattarapon/agentrun/agent/prompt"
)

// LLMSummarizer renders the execution trace, failed steps included, into a
// prompt and returns the model's summary verbatim. Gateway failures wrap
// ErrSummarization; there is no fabricated fallback summary.
type LLMSummarizer struct {
	gateway contractx.Gateway
	prompts promptx.Set
}

var _ contractx.Summarizer = (*LLMSummarizer)(nil)

func New(gateway contractx.Gateway) (*LLMSummarizer, error) {
	if gateway == nil {
		return nil, fmt.Errorf("%w: gateway is required", contractx.ErrValidation)
	}
	return &LLMSummarizer{
		gateway: gateway,
		prompts: promptx.LoadSet(),
	}, nil
}

func (s *LLMSummarizer) Summarize(ctx context.Context, task string, trace contractx.Trace) (string, error) {
	user := renderTracePrompt(task, trace)

	summary, err := s.gateway.Send(ctx, s.prompts.Summarizer, user)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrSummarization, err)
	}
	return summary, nil
}

func renderTracePrompt(task string, trace contractx.Trace) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n\nExecuted steps:\n", task)

	if len(trace.Results) == 0 {
		b.WriteString("(no steps were executed)\n")
	}
	for _, r := range trace.Results {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		fmt.Fprintf(&b, "- step %d [%s] %s", r.Index, status, r.Tool)
		if r.Error != "" {
			fmt.Fprintf(&b, ": %s", r.Error)
		}
		if r.Output != nil {
			fmt.Fprintf(&b, ": %s", renderOutput(r.Output))
		}
		b.WriteString("\n")
	}

	if trace.Truncated {
		b.WriteString("\nNote: execution stopped early because the step ceiling was reached.\n")
	} else if trace.Halted {
		b.WriteString("\nNote: execution was halted early by a terminal step.\n")
	}

	b.WriteString("\nSummarize the task outcome.")
	return b.String()
}

func renderOutput(output any) string {
	if s, ok := output.(string); ok {
		return s
	}
	encoded, err := json.Marshal(output)
	if err != nil {
		return fmt.Sprintf("%v", output)
	}
	return string(encoded)
}
