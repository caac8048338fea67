package tool

import (
	"context"
	"fmt"
	"os"
	"strings"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

const ToolFile = "file"

type FileOutput struct {
	Action  string `json:"action"`
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
	Exists  bool   `json:"exists,omitempty"`
}

// FileTool reads, writes, and stats files on the local filesystem.
type FileTool struct{}

func (t *FileTool) Spec() contractx.ToolSpec {
	return contractx.ToolSpec{
		Name:        ToolFile,
		Description: "Read, write, or check existence of a file.",
		Params: map[string]contractx.ParamSpec{
			"action":  {Type: contractx.ParamString, Description: "One of read, write, exists", Required: true},
			"path":    {Type: contractx.ParamString, Description: "File path", Required: true},
			"content": {Type: contractx.ParamString, Description: "Content to write (write action only)"},
		},
	}
}

func (t *FileTool) Call(_ context.Context, args map[string]any) contractx.ToolOutcome {
	action, _ := args["action"].(string)
	path, _ := args["path"].(string)
	action = strings.ToLower(strings.TrimSpace(action))
	if strings.TrimSpace(path) == "" {
		return contractx.ToolOutcome{Error: "path must be a non-empty string"}
	}

	switch action {
	case "read":
		data, err := os.ReadFile(path)
		if err != nil {
			return contractx.ToolOutcome{Error: err.Error()}
		}
		return contractx.ToolOutcome{
			Success: true,
			Output:  FileOutput{Action: action, Path: path, Content: string(data)},
		}
	case "write":
		content, ok := args["content"].(string)
		if !ok {
			return contractx.ToolOutcome{Error: "write action requires content"}
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return contractx.ToolOutcome{Error: err.Error()}
		}
		return contractx.ToolOutcome{
			Success: true,
			Output:  FileOutput{Action: action, Path: path},
		}
	case "exists":
		_, err := os.Stat(path)
		return contractx.ToolOutcome{
			Success: true,
			Output:  FileOutput{Action: action, Path: path, Exists: err == nil},
		}
	default:
		return contractx.ToolOutcome{Error: fmt.Sprintf("unsupported action: %s", action)}
	}
}
