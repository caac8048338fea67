package node

import (
	"context"
	"strings"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

func Summarize(
	ctx context.Context,
	st *RunState,
	summarizer contractx.Summarizer,
) (*RunState, error) {
	summary, err := summarizer.Summarize(ctx, st.Task, st.Trace)
	if err != nil {
		return nil, err
	}

	st.Summary = strings.TrimSpace(summary)
	st.State = contractx.RunDone
	return st, nil
}
