package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/planner.txt
	plannerRaw string

	//go:embed template/corrective.txt
	correctiveRaw string

	//go:embed template/summarizer.txt
	summarizerRaw string
)

// Set holds loaded prompt content.
type Set struct {
	Planner    string
	Corrective string
	Summarizer string
}

// LoadSet returns a Set with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time and trimming is cheap.
func LoadSet() Set {
	return Set{
		Planner:    strings.TrimSpace(plannerRaw),
		Corrective: strings.TrimSpace(correctiveRaw),
		Summarizer: strings.TrimSpace(summarizerRaw),
	}
}
