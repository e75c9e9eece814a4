package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/OFFIS-RIT/umlreview/pkg/ai"
	"github.com/OFFIS-RIT/umlreview/pkg/logger"

	"github.com/openai/openai-go/v3"
)

// GenerateCompletion sends a single-turn prompt to the chat model and
// returns the generated completion as plain text.
//
// Example:
//
//	resp, err := client.GenerateCompletion(ctx, "Review this diagram...")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(resp)
func (c *CompletionOpenAIClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(c.defaults, opts...)
	body := newChatParams(options, prompt)

	message, err := c.complete(ctx, body)
	if err != nil {
		return "", err
	}
	return message, nil
}

// GenerateCompletionWithFormat sends a prompt to the chat model and
// attempts to unmarshal the response into the provided output struct,
// using a JSON schema to enforce structure.
//
// Example:
//
//	var out critique.StructuredReview
//	err := client.GenerateCompletionWithFormat(ctx, "review", "UML review", prompt, &out)
//	if err != nil {
//		log.Fatal(err)
//	}
func (c *CompletionOpenAIClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	schema := ai.GenerateSchema(out)
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}

	options := ai.ApplyOptions(c.defaults, opts...)
	body := newChatParams(options, prompt)
	body.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: schemaParam,
		},
	}

	message, err := c.complete(ctx, body)
	if err != nil {
		return err
	}
	return ai.UnmarshalFlexible(message, out)
}

func newChatParams(options ai.GenerateOptions, prompt string) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    msgs,
		Temperature: openai.Float(options.Temperature),
	}
	if options.TopP > 0 {
		body.TopP = openai.Float(options.TopP)
	}
	if options.MaxTokens > 0 {
		body.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	return body
}

func (c *CompletionOpenAIClient) complete(
	ctx context.Context,
	body openai.ChatCompletionNewParams,
) (string, error) {
	start := time.Now()
	response, err := c.ChatClient.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", translateError(err)
	}
	duration := time.Since(start).Milliseconds()

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	})
	logger.Debug("Completion finished", "model", body.Model, "duration_ms", duration)

	if len(response.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}
	message := response.Choices[0].Message.Content
	if message == "" {
		return "", fmt.Errorf("%w (finish_reason: %s)", ai.ErrEmptyResponse, response.Choices[0].FinishReason)
	}
	return message, nil
}

func translateError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.StatusCode)
		}
		return &ai.ServiceError{
			StatusCode: apiErr.StatusCode,
			Message:    message,
		}
	}
	return err
}
