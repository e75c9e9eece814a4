// Package setup wires the review pipeline from environment variables. It is
// shared by the HTTP server and the CLI.
package setup

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/umlreview/internal/storage"
	"github.com/OFFIS-RIT/umlreview/internal/util"
	"github.com/OFFIS-RIT/umlreview/pkg/ai"
	oai "github.com/OFFIS-RIT/umlreview/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/umlreview/pkg/ai/openai"
	"github.com/OFFIS-RIT/umlreview/pkg/corpus"
	"github.com/OFFIS-RIT/umlreview/pkg/critique"
	"github.com/OFFIS-RIT/umlreview/pkg/loader"
	ioloader "github.com/OFFIS-RIT/umlreview/pkg/loader/io"
	s3loader "github.com/OFFIS-RIT/umlreview/pkg/loader/s3"
	"github.com/OFFIS-RIT/umlreview/pkg/logger"
)

const (
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultMaxTokens   = 2048
	DefaultTemperature = 1.0
	DefaultTopP        = 0.98
	DefaultCorpusDir   = "./corpus"
	DefaultChatURL     = "https://api.groq.com/openai/v1"
)

// GenerateOptions reads the sampling configuration.
func GenerateOptions() ai.GenerateOptions {
	return ai.GenerateOptions{
		Model:       util.GetEnvString("AI_CHAT_MODEL", DefaultModel),
		Temperature: util.GetEnvNumeric("AI_TEMPERATURE", DefaultTemperature),
		TopP:        util.GetEnvNumeric("AI_TOP_P", DefaultTopP),
		MaxTokens:   util.GetEnvInt("AI_MAX_TOKENS", DefaultMaxTokens),
	}
}

// NewCompletionClient creates the client selected by AI_ADAPTER. Anything
// but "ollama" selects the OpenAI compatible adapter.
func NewCompletionClient() (ai.CompletionClient, error) {
	defaults := GenerateOptions()
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewCompletionOllamaClient(oai.NewCompletionOllamaClientParams{
			BaseURL:  util.GetEnv("AI_CHAT_URL"),
			ApiKey:   util.GetEnv("AI_CHAT_KEY"),
			Defaults: defaults,

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return client, nil
	default:
		client, err := gai.NewCompletionOpenAIClient(gai.NewCompletionOpenAIClientParams{
			ChatURL:  util.GetEnvString("AI_CHAT_URL", DefaultChatURL),
			ChatKey:  util.GetEnv("AI_CHAT_KEY"),
			Defaults: defaults,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return client, nil
	}
}

// NewCorpusSource returns the S3 source when CORPUS_S3_BUCKET is set and the
// local directory CORPUS_DIR otherwise.
func NewCorpusSource(ctx context.Context) (loader.Source, error) {
	if bucket := util.GetEnv("CORPUS_S3_BUCKET"); bucket != "" {
		client, err := storage.NewS3Client(ctx)
		if err != nil {
			return nil, err
		}
		prefix := util.GetEnv("CORPUS_S3_PREFIX")
		logger.Debug("Using S3 corpus", "bucket", bucket, "prefix", prefix)
		return s3loader.NewS3FileLoaderWithClient(bucket, prefix, client), nil
	}

	dir := util.GetEnvString("CORPUS_DIR", DefaultCorpusDir)
	logger.Debug("Using local corpus", "dir", dir)
	return ioloader.NewIOFileLoader(dir), nil
}

// NewIndex loads the configured corpus and builds the retrieval index.
func NewIndex(ctx context.Context) (*corpus.Index, error) {
	src, err := NewCorpusSource(ctx)
	if err != nil {
		return nil, err
	}
	return corpus.Build(ctx, src)
}

// NewAnalyzer builds the index and, when withClient is set, the completion
// client, and returns the assembled pipeline.
func NewAnalyzer(ctx context.Context, withClient bool) (*critique.Analyzer, error) {
	idx, err := NewIndex(ctx)
	if err != nil {
		return nil, err
	}

	params := critique.AnalyzerParams{
		Index: idx,
		TopK:  util.GetEnvInt("RETRIEVAL_TOP_K", corpus.DefaultTopK),
	}
	if withClient {
		client, err := NewCompletionClient()
		if err != nil {
			return nil, err
		}
		params.Client = client
	}
	return critique.NewAnalyzer(params), nil
}
