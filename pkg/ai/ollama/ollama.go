package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/OFFIS-RIT/umlreview/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// CompletionOllamaClient implements ai.CompletionClient on top of an
// Ollama server.
type CompletionOllamaClient struct {
	defaults ai.GenerateOptions

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *api.Client
}

// NewCompletionOllamaClientParams contains configuration options for creating a new CompletionOllamaClient.
type NewCompletionOllamaClientParams struct {
	BaseURL string
	ApiKey  string

	Defaults ai.GenerateOptions

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		// don't overwrite if already set
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewCompletionOllamaClient connects to the Ollama server at BaseURL (or
// the default if empty). At most MaxConcurrentRequests chat calls run at
// once; values below one allow a single request.
func NewCompletionOllamaClient(
	params NewCompletionOllamaClientParams,
) (*CompletionOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)

	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	headers := map[string]string{}
	if params.ApiKey != "" {
		headers["Authorization"] = "Bearer " + params.ApiKey
	}
	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: headers,
			rt:      http.DefaultTransport,
		},
	}

	var cli *api.Client
	if u != nil {
		cli = api.NewClient(u, httpClient)
	} else {
		cli, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	}

	limit := params.MaxConcurrentRequests
	if limit < 1 {
		limit = 1
	}

	return &CompletionOllamaClient{
		defaults: params.Defaults,

		reqLock: semaphore.NewWeighted(limit),

		Client: cli,
	}, nil
}
