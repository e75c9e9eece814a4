package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"

	"github.com/OFFIS-RIT/umlreview/pkg/ai"
	"github.com/OFFIS-RIT/umlreview/pkg/logger"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
)

const (
	// headroom added to the prompt estimate for the reply
	contextHeadroom = 200
	defaultContext  = 4096
)

// GenerateCompletion sends a single-turn prompt and returns assistant text.
func (c *CompletionOllamaClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(c.defaults, opts...)

	req, err := newChatRequest(options, prompt)
	if err != nil {
		return "", err
	}
	return c.chat(ctx, req)
}

// GenerateCompletionWithFormat enforces a JSON schema and unmarshals into out.
func (c *CompletionOllamaClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	if out == nil {
		return errors.New("out must be a non-nil pointer")
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("out must be a non-nil pointer")
	}

	schemaObj := ai.GenerateSchema(out)
	formatBytes, err := json.Marshal(schemaObj)
	if err != nil {
		return err
	}

	options := ai.ApplyOptions(c.defaults, opts...)
	req, err := newChatRequest(options, prompt)
	if err != nil {
		return err
	}
	req.Format = json.RawMessage(formatBytes)

	content, err := c.chat(ctx, req)
	if err != nil {
		return err
	}
	return ai.UnmarshalFlexible(content, out)
}

func newChatRequest(options ai.GenerateOptions, prompt string) (*api.ChatRequest, error) {
	msgs := make([]api.Message, 0, len(options.SystemPrompts)+1)
	for _, sys := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sys})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": options.Temperature},
	}
	if options.TopP > 0 {
		req.Options["top_p"] = options.TopP
	}
	if options.MaxTokens > 0 {
		req.Options["num_predict"] = options.MaxTokens
	}

	tokens, err := estimateTokens(msgs)
	if err != nil {
		return nil, err
	}
	tokens += contextHeadroom + options.MaxTokens
	if tokens > defaultContext {
		req.Options["num_ctx"] = tokens
	}
	return req, nil
}

func estimateTokens(msgs []api.Message) (int, error) {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range msgs {
		n += len(enc.Encode(m.Content, nil, nil))
	}
	return n, nil
}

func (c *CompletionOllamaClient) chat(ctx context.Context, req *api.ChatRequest) (string, error) {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return "", translateError(err)
	}

	durationMs := final.Metrics.TotalDuration.Milliseconds()
	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   durationMs,
	})
	logger.Debug("Completion finished", "model", req.Model, "duration_ms", durationMs)

	if final.Message.Content == "" {
		return "", ai.ErrEmptyResponse
	}
	return final.Message.Content, nil
}

func translateError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		message := statusErr.ErrorMessage
		if message == "" {
			message = statusErr.Status
		}
		return &ai.ServiceError{
			StatusCode: statusErr.StatusCode,
			Message:    message,
		}
	}
	return err
}
