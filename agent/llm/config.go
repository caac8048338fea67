package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/pattarapon/agentrun/agent/contract"
	providerx "github.com/pattarapon/agentrun/pkg/provider"
)

// Role names the two prompts the agent sends through the gateway; each can
// run on its own model.
type Role string

const (
	RolePlanner    Role = "planner"
	RoleSummarizer Role = "summarizer"
)

// Provider presets. All three expose OpenAI-compatible chat completions.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
)

var providerDefaults = map[string]struct {
	baseURL string
	model   string
}{
	ProviderOpenAI:   {baseURL: "https://api.openai.com/v1", model: "gpt-4o-mini"},
	ProviderDeepSeek: {baseURL: "https://api.deepseek.com/v1", model: "deepseek-chat"},
	ProviderOllama:   {baseURL: "http://localhost:11434/v1", model: "llama3"},
}

type Config struct {
	Provider           string        `envconfig:"PROVIDER" split_words:"true" default:"openai"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`

	PlannerModel          string  `envconfig:"PLANNER_MODEL" split_words:"true"`
	SummarizerModel       string  `envconfig:"SUMMARIZER_MODEL" split_words:"true"`
	PlannerTemperature    float32 `envconfig:"PLANNER_TEMPERATURE" split_words:"true" default:"-1"`
	SummarizerTemperature float32 `envconfig:"SUMMARIZER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	provider := strings.ToLower(strings.TrimSpace(c.Provider))
	if _, ok := providerDefaults[provider]; !ok {
		return fmt.Errorf("%w: unsupported provider %q", contractx.ErrValidation, c.Provider)
	}
	// Ollama serves locally without credentials; hosted providers need a key.
	if provider != ProviderOllama && strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: api key is required for provider %q", contractx.ErrValidation, provider)
	}
	return nil
}

// ProviderFor resolves the endpoint config for a role, applying provider
// presets and per-role model/temperature overrides.
func (c Config) ProviderFor(role Role) providerx.Config {
	provider := strings.ToLower(strings.TrimSpace(c.Provider))
	defaults := providerDefaults[provider]

	baseURL := strings.TrimSpace(c.BaseURL)
	if baseURL == "" {
		baseURL = defaults.baseURL
	}
	modelName := strings.TrimSpace(c.Model)
	if modelName == "" {
		modelName = defaults.model
	}
	temp := c.Temperature

	switch role {
	case RolePlanner:
		if v := strings.TrimSpace(c.PlannerModel); v != "" {
			modelName = v
		}
		if c.PlannerTemperature >= 0 {
			temp = c.PlannerTemperature
		}
	case RoleSummarizer:
		if v := strings.TrimSpace(c.SummarizerModel); v != "" {
			modelName = v
		}
		if c.SummarizerTemperature >= 0 {
			temp = c.SummarizerTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return providerx.Config{
		BaseURL:            baseURL,
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
	}
}
