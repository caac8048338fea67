package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

// Tool is a named, locally executed capability with a declared input
// contract. Implementations must convert internal failures into a failed
// ToolOutcome instead of panicking or returning errors.
type Tool interface {
	Spec() contractx.ToolSpec
	Call(ctx context.Context, args map[string]any) contractx.ToolOutcome
}

// Registry holds the fixed set of tools registered at startup and
// dispatches invocations by name. It is side-effect-free aside from
// dispatch; side effects belong to the registered tools.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool, 8)}
}

// NewDefaultRegistry returns a registry with the built-in tool set.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range []Tool{
		&TerminalTool{},
		&FileTool{},
		&WebTool{},
		&MathTool{},
	} {
		if err := r.Register(t); err != nil {
			// Built-in names are distinct; a clash is a programming error.
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("%w: tool is nil", contractx.ErrValidation)
	}
	name := strings.TrimSpace(t.Spec().Name)
	if name == "" {
		return fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
	}
	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("%w: %s", contractx.ErrDuplicateTool, name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Terminal reports whether a registered tool halts execution on success.
func (r *Registry) Terminal(name string) bool {
	t, ok := r.tools[name]
	return ok && t.Spec().Terminal
}

// Specs returns the registered tool specs in registration order.
func (r *Registry) Specs() []contractx.ToolSpec {
	specs := make([]contractx.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec())
	}
	return specs
}

// Invoke dispatches a single tool call. The only error it returns is
// ErrUnknownTool; argument validation failures and tool failures come back
// as a failed outcome so the executor never crashes on them.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (contractx.ToolOutcome, error) {
	t, ok := r.tools[name]
	if !ok {
		return contractx.ToolOutcome{}, fmt.Errorf("%w: %s", contractx.ErrUnknownTool, name)
	}
	if err := validateArgs(t.Spec(), args); err != nil {
		return contractx.ToolOutcome{Error: err.Error()}, nil
	}
	return t.Call(ctx, args), nil
}

// validateArgs is a shallow presence and type check against the spec.
func validateArgs(spec contractx.ToolSpec, args map[string]any) error {
	keys := make([]string, 0, len(spec.Params))
	for k := range spec.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		p := spec.Params[key]
		val, ok := args[key]
		if !ok {
			if p.Required {
				return fmt.Errorf("%s: required parameter %q is missing", spec.Name, key)
			}
			continue
		}
		if !typeMatches(p.Type, val) {
			return fmt.Errorf("%s: parameter %q must be a %s, got %T", spec.Name, key, p.Type, val)
		}
	}
	return nil
}

func typeMatches(pt contractx.ParamType, val any) bool {
	switch pt {
	case contractx.ParamString:
		_, ok := val.(string)
		return ok
	case contractx.ParamNumber:
		switch val.(type) {
		case float64, float32, int, int64, json.Number:
			return true
		}
		return false
	case contractx.ParamBool:
		_, ok := val.(bool)
		return ok
	case contractx.ParamObject:
		_, ok := val.(map[string]any)
		return ok
	default:
		return true
	}
}
