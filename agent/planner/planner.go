package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/pattarapon/agentrun/agent/contract"
	promptx "github.com/pattarapon/agentrun/agent/prompt"
)

// LLMPlanner turns a task description into an ordered plan of tool
// invocations. Parse policy is explicit and deterministic: one corrective
// retry on malformed output, then ErrPlanning. Steps naming tools absent
// from the catalog are dropped at parse time, so the plan invariant holds
// by construction.
type LLMPlanner struct {
	gateway contractx.Gateway
	prompts promptx.Set
}

func New(gateway contractx.Gateway) (*LLMPlanner, error) {
	if gateway == nil {
		return nil, fmt.Errorf("%w: gateway is required", contractx.ErrValidation)
	}
	return &LLMPlanner{
		gateway: gateway,
		prompts: promptx.LoadSet(),
	}, nil
}

var _ contractx.Planner = (*LLMPlanner)(nil)

func (p *LLMPlanner) Plan(ctx context.Context, task string, catalog []contractx.ToolSpec) (contractx.Plan, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return contractx.Plan{}, fmt.Errorf("%w: task is required", contractx.ErrValidation)
	}

	system := fmt.Sprintf(p.prompts.Planner, renderCatalog(catalog))
	user := fmt.Sprintf("Plan the following task: %s", task)

	raw, err := p.gateway.Send(ctx, system, user)
	if err != nil {
		return contractx.Plan{}, fmt.Errorf("%w: %v", contractx.ErrPlanning, err)
	}

	steps, parseErr := parseSteps(raw, catalog)
	if parseErr != nil {
		log.Warn().Err(parseErr).Msg("plan response malformed, retrying with corrective prompt")

		corrective := fmt.Sprintf(p.prompts.Corrective, task, raw, parseErr.Error())
		raw, err = p.gateway.Send(ctx, system, corrective)
		if err != nil {
			return contractx.Plan{}, fmt.Errorf("%w: %v", contractx.ErrPlanning, err)
		}
		steps, parseErr = parseSteps(raw, catalog)
		if parseErr != nil {
			return contractx.Plan{}, fmt.Errorf("%w: %v", contractx.ErrPlanning, parseErr)
		}
	}

	return contractx.Plan{Task: task, Steps: steps}, nil
}

type stepJSON struct {
	Index       int            `json:"index"`
	Tool        string         `json:"tool"`
	Description string         `json:"description"`
	Args        map[string]any `json:"args"`
}

// parseSteps decodes a model response into plan steps. Fences are stripped
// first since models wrap JSON in markdown despite instructions. Steps with
// an empty or unregistered tool name are excluded, and the survivors are
// reindexed by plan position.
func parseSteps(raw string, catalog []contractx.ToolSpec) ([]contractx.PlanStep, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("response is empty after stripping fences")
	}

	var decoded []stepJSON
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, fmt.Errorf("response is not a JSON step list: %v", err)
	}

	registered := make(map[string]struct{}, len(catalog))
	for _, spec := range catalog {
		registered[spec.Name] = struct{}{}
	}

	steps := make([]contractx.PlanStep, 0, len(decoded))
	for _, entry := range decoded {
		name := strings.TrimSpace(entry.Tool)
		if name == "" {
			log.Warn().Str("description", entry.Description).Msg("dropping step without a tool name")
			continue
		}
		if _, ok := registered[name]; !ok {
			log.Warn().Str("tool", name).Msg("dropping step for unregistered tool")
			continue
		}
		args := entry.Args
		if args == nil {
			args = map[string]any{}
		}
		steps = append(steps, contractx.PlanStep{
			Index:       len(steps),
			Tool:        name,
			Description: strings.TrimSpace(entry.Description),
			Args:        args,
		})
	}
	return steps, nil
}

func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

func renderCatalog(catalog []contractx.ToolSpec) string {
	if len(catalog) == 0 {
		return "(no tools registered)"
	}

	var b strings.Builder
	for _, spec := range catalog {
		fmt.Fprintf(&b, "- %s: %s\n", spec.Name, spec.Description)
		for _, key := range sortedParamKeys(spec.Params) {
			p := spec.Params[key]
			required := ""
			if p.Required {
				required = ", required"
			}
			fmt.Fprintf(&b, "  - %s (%s%s): %s\n", key, p.Type, required, p.Description)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func sortedParamKeys(params map[string]contractx.ParamSpec) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
