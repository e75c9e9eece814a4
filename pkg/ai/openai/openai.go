package openai

import (
	"errors"
	"sync"

	"github.com/OFFIS-RIT/umlreview/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ErrMissingKey is returned when no API key is configured.
var ErrMissingKey = errors.New("openai: missing API key")

// CompletionOpenAIClient talks to an OpenAI compatible chat completion
// endpoint, e.g. OpenAI itself or Groq.
//
// A CompletionOpenAIClient should be created using NewCompletionOpenAIClient.
type CompletionOpenAIClient struct {
	chatURL  string
	defaults ai.GenerateOptions

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewCompletionOpenAIClientParams defines the configuration parameters for
// creating a new CompletionOpenAIClient.
//
// ChatURL and ChatKey configure the chat/completion API endpoint; an empty
// ChatURL targets api.openai.com. Defaults apply to every request and can be
// overridden per call with GenerateOption values.
type NewCompletionOpenAIClientParams struct {
	ChatURL  string
	ChatKey  string
	Defaults ai.GenerateOptions
}

// NewCompletionOpenAIClient creates a client for the configured endpoint.
//
// Example:
//
//	client, err := openai.NewCompletionOpenAIClient(openai.NewCompletionOpenAIClientParams{
//		ChatURL:  "https://api.groq.com/openai/v1",
//		ChatKey:  os.Getenv("AI_CHAT_KEY"),
//		Defaults: ai.GenerateOptions{Model: "llama-3.3-70b-versatile", MaxTokens: 2048},
//	})
func NewCompletionOpenAIClient(
	params NewCompletionOpenAIClientParams,
) (*CompletionOpenAIClient, error) {
	chatClient := newOpenaiClient(params.ChatURL, params.ChatKey)
	if chatClient == nil {
		return nil, ErrMissingKey
	}

	return &CompletionOpenAIClient{
		chatURL:  params.ChatURL,
		defaults: params.Defaults,

		ChatClient: chatClient,
	}, nil
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
	extra ...option.RequestOption,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// failures are surfaced to the caller as they are
		option.WithMaxRetries(0),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	options = append(options, extra...)

	client := openai.NewClient(options...)

	return &client
}
