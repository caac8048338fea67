package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

const (
	ToolWeb = "web"

	defaultRequestTimeout = 10 * time.Second
	maxResponseBodyBytes  = 1 << 20
)

type WebOutput struct {
	Method     string `json:"method"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

// WebTool issues simple GET/POST requests. The response body is truncated
// to keep trace payloads bounded.
type WebTool struct {
	// Client overrides the default HTTP client when set (used by tests).
	Client *http.Client
}

func (t *WebTool) Spec() contractx.ToolSpec {
	return contractx.ToolSpec{
		Name:        ToolWeb,
		Description: "Perform an HTTP GET or POST request.",
		Params: map[string]contractx.ParamSpec{
			"method":  {Type: contractx.ParamString, Description: "HTTP method (get or post)", Required: true},
			"url":     {Type: contractx.ParamString, Description: "Request URL", Required: true},
			"data":    {Type: contractx.ParamObject, Description: "JSON body (post only)"},
			"headers": {Type: contractx.ParamObject, Description: "Request headers (optional)"},
		},
	}
}

func (t *WebTool) Call(ctx context.Context, args map[string]any) contractx.ToolOutcome {
	method, _ := args["method"].(string)
	url, _ := args["url"].(string)
	method = strings.ToUpper(strings.TrimSpace(method))
	if strings.TrimSpace(url) == "" {
		return contractx.ToolOutcome{Error: "url must be a non-empty string"}
	}

	var body io.Reader
	switch method {
	case http.MethodGet:
	case http.MethodPost:
		if data, ok := args["data"].(map[string]any); ok {
			encoded, err := json.Marshal(data)
			if err != nil {
				return contractx.ToolOutcome{Error: fmt.Sprintf("encode request body: %v", err)}
			}
			body = bytes.NewReader(encoded)
		}
	default:
		return contractx.ToolOutcome{Error: fmt.Sprintf("unsupported HTTP method: %s", method)}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return contractx.ToolOutcome{Error: err.Error()}
	}
	if method == http.MethodPost && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if headers, ok := args["headers"].(map[string]any); ok {
		for k, v := range headers {
			if s, ok := v.(string); ok {
				req.Header.Set(k, s)
			}
		}
	}

	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return contractx.ToolOutcome{Error: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return contractx.ToolOutcome{Error: err.Error()}
	}

	return contractx.ToolOutcome{
		Success: true,
		Output: WebOutput{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		},
	}
}
