package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/pattarapon/agentrun/agent/contract"
	historyx "github.com/pattarapon/agentrun/agent/history"
	llmx "github.com/pattarapon/agentrun/agent/llm"
	orchestratorx "github.com/pattarapon/agentrun/agent/orchestrator"
)

const helpText = `Commands:
  help              show this help
  config            show the active model configuration
  tools             list registered tools
  models            list models served by the configured endpoint
  task <text>       run a task through the agent
  history           show past runs in this session
  clear             clear the in-memory history
  save <file>       save history to a JSON file
  load <file>       load history from a JSON file
  exit | quit       leave the shell

Example tasks:
  task 计算 2 + 3 * 4 的结果
  task create hello.txt containing "Hello World"
  task list the files in the current directory`

// Shell is the interactive front end. It owns presentation and history
// serialization; the agent core never formats or persists anything here.
type Shell struct {
	svc    *orchestratorx.Service
	client *openaisdk.Client
	cfg    llmx.Config

	in  io.Reader
	out io.Writer
}

func New(svc *orchestratorx.Service, client *openaisdk.Client, cfg llmx.Config) *Shell {
	return &Shell{
		svc:    svc,
		client: client,
		cfg:    cfg,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "agentrun interactive shell. Type 'help' for commands.")

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		fmt.Fprint(s.out, "agent> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Fprintln(s.out, helpText)
		case "config":
			s.printConfig()
		case "tools":
			s.printTools()
		case "models":
			s.printModels(ctx)
		case "task":
			s.runTask(ctx, arg)
		case "history":
			s.printHistory(ctx)
		case "clear":
			s.clearHistory()
		case "save":
			s.saveHistory(ctx, arg)
		case "load":
			s.loadHistory(ctx, arg)
		default:
			fmt.Fprintf(s.out, "unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (s *Shell) printConfig() {
	fmt.Fprintf(s.out, "provider:   %s\n", s.cfg.Provider)
	planner := s.cfg.ProviderFor(llmx.RolePlanner)
	summarizer := s.cfg.ProviderFor(llmx.RoleSummarizer)
	fmt.Fprintf(s.out, "planner:    %s (%s)\n", planner.Model, planner.BaseURL)
	fmt.Fprintf(s.out, "summarizer: %s (%s)\n", summarizer.Model, summarizer.BaseURL)
}

func (s *Shell) printTools() {
	for _, spec := range s.svc.Catalog() {
		fmt.Fprintf(s.out, "- %s: %s\n", spec.Name, spec.Description)
	}
}

func (s *Shell) printModels(ctx context.Context) {
	if s.client == nil {
		fmt.Fprintln(s.out, "no API client configured")
		return
	}
	page, err := s.client.Models.List(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "list models: %v\n", err)
		return
	}
	for _, m := range page.Data {
		fmt.Fprintf(s.out, "- %s\n", m.ID)
	}
}

func (s *Shell) runTask(ctx context.Context, task string) {
	if task == "" {
		fmt.Fprintln(s.out, "usage: task <text>")
		return
	}

	result, err := s.svc.RunTask(ctx, task)
	if err != nil {
		fmt.Fprintf(s.out, "run task: %v\n", err)
		return
	}
	s.printResult(result)
}

func (s *Shell) printResult(result *contractx.AgentResult) {
	fmt.Fprintf(s.out, "state: %s\n", result.State)
	if result.Failure != "" {
		fmt.Fprintf(s.out, "failure: %s\n", result.Failure)
	}
	for _, r := range result.Trace.Results {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		fmt.Fprintf(s.out, "  step %d [%s] %s", r.Index, status, r.Tool)
		if r.Error != "" {
			fmt.Fprintf(s.out, ": %s", r.Error)
		}
		fmt.Fprintln(s.out)
	}
	if result.Trace.Truncated {
		fmt.Fprintln(s.out, "  (execution truncated at the step ceiling)")
	}
	if result.Summary != "" {
		fmt.Fprintf(s.out, "\n%s\n", result.Summary)
	}
}

func (s *Shell) printHistory(ctx context.Context) {
	results, err := s.svc.History().All(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "read history: %v\n", err)
		return
	}
	if len(results) == 0 {
		fmt.Fprintln(s.out, "history is empty")
		return
	}
	for i, r := range results {
		fmt.Fprintf(s.out, "%d. [%s] %s (%d/%d steps ok)\n",
			i+1, r.State, r.Task, r.Trace.Succeeded(), len(r.Trace.Results))
	}
}

func (s *Shell) clearHistory() {
	mem, ok := s.svc.History().(*historyx.MemoryStore)
	if !ok {
		fmt.Fprintln(s.out, "clear is only supported for the in-memory history")
		return
	}
	mem.Reset()
	fmt.Fprintln(s.out, "history cleared")
}

func (s *Shell) saveHistory(ctx context.Context, path string) {
	if path == "" {
		fmt.Fprintln(s.out, "usage: save <file>")
		return
	}
	results, err := s.svc.History().All(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "read history: %v\n", err)
		return
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Fprintf(s.out, "encode history: %v\n", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(s.out, "write history: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "saved %d runs to %s\n", len(results), path)
}

func (s *Shell) loadHistory(ctx context.Context, path string) {
	if path == "" {
		fmt.Fprintln(s.out, "usage: load <file>")
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(s.out, "read file: %v\n", err)
		return
	}
	var results []*contractx.AgentResult
	if err := json.Unmarshal(data, &results); err != nil {
		fmt.Fprintf(s.out, "decode history: %v\n", err)
		return
	}
	for _, r := range results {
		if err := s.svc.History().Append(ctx, r); err != nil {
			fmt.Fprintf(s.out, "append run: %v\n", err)
			return
		}
	}
	fmt.Fprintf(s.out, "loaded %d runs from %s\n", len(results), path)
}
