package history

import (
	"context"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

// MemoryStore keeps the session's run history in process memory. The core
// is single-threaded per session, so no locking is needed; the store is
// owned by the session that created it.
type MemoryStore struct {
	results []*contractx.AgentResult
}

var _ contractx.History = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, result *contractx.AgentResult) error {
	if result == nil {
		return contractx.ErrValidation
	}
	s.results = append(s.results, result)
	return nil
}

// Reset drops all recorded runs. Session-owner convenience; not part of
// the History contract.
func (s *MemoryStore) Reset() {
	s.results = nil
}

func (s *MemoryStore) All(_ context.Context) ([]*contractx.AgentResult, error) {
	out := make([]*contractx.AgentResult, len(s.results))
	copy(out, s.results)
	return out, nil
}
