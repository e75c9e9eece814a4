package critique

import (
	"context"
	"errors"

	"github.com/OFFIS-RIT/umlreview/pkg/ai"
	"github.com/OFFIS-RIT/umlreview/pkg/corpus"
	"github.com/OFFIS-RIT/umlreview/pkg/logger"
	"github.com/OFFIS-RIT/umlreview/pkg/uml"
)

// ErrNoClient is returned when a review is requested from an Analyzer
// without a completion client.
var ErrNoClient = errors.New("no completion client configured")

// NoResponseFeedback is the feedback reported when the model answers with
// nothing.
const NoResponseFeedback = "No response from AI."

// Report is the outcome of one pipeline run.
type Report struct {
	Simplified string         `json:"simplified"`
	PlantUML   string         `json:"plantuml"`
	Degraded   bool           `json:"degraded"`
	Matches    []corpus.Match `json:"matches"`
	Prompt     string         `json:"-"`
	Feedback   string         `json:"feedback"`
}

// AnalyzerParams configures an Analyzer. Index is required. Client may be
// nil for callers that only prepare prompts. TopK falls back to
// corpus.DefaultTopK.
type AnalyzerParams struct {
	Index   *corpus.Index
	Client  ai.CompletionClient
	TopK    int
	Options []ai.GenerateOption
}

// Analyzer runs the extraction, retrieval and critique pipeline for
// uploaded diagrams. It is safe for concurrent use; the index is only read.
type Analyzer struct {
	index   *corpus.Index
	client  ai.CompletionClient
	topK    int
	options []ai.GenerateOption
}

// NewAnalyzer creates an Analyzer from params.
func NewAnalyzer(params AnalyzerParams) *Analyzer {
	topK := params.TopK
	if topK <= 0 {
		topK = corpus.DefaultTopK
	}
	return &Analyzer{
		index:   params.Index,
		client:  params.Client,
		topK:    topK,
		options: params.Options,
	}
}

// Index returns the corpus index the analyzer ranks against.
func (a *Analyzer) Index() *corpus.Index {
	return a.index
}

// TopK returns the configured number of retrieved matches.
func (a *Analyzer) TopK() int {
	return a.topK
}

// Prepare runs every stage up to the assembled prompt using the default
// number of matches.
func (a *Analyzer) Prepare(ctx context.Context, raw []byte) *Report {
	return a.PrepareTopK(ctx, raw, a.topK)
}

// PrepareTopK is Prepare with an explicit number of matches. A document
// that cannot be read degrades to uml.DegradedOutput and still gets a
// prompt.
func (a *Analyzer) PrepareTopK(ctx context.Context, raw []byte, k int) *Report {
	log := requestLogger(ctx)

	res := uml.ExtractDocument(raw)
	if res.Degraded() {
		log.Warn("Diagram could not be read, continuing degraded", "err", res.Err)
	} else {
		log.Debug("Extracted diagram",
			"classes", len(res.Extraction.Classes),
			"relationships", len(res.Extraction.Relationships),
		)
	}

	simplified := res.Simplified()
	plantUML := uml.ToPlantUML(simplified)

	var matches []corpus.Match
	if a.index != nil {
		matches = a.index.Rank(plantUML, k)
	}
	log.Debug("Ranked corpus", "matches", len(matches))

	return &Report{
		Simplified: simplified,
		PlantUML:   plantUML,
		Degraded:   res.Degraded(),
		Matches:    matches,
		Prompt:     BuildPrompt(simplified, matches),
	}
}

// Analyze runs the complete pipeline and stores the critique in
// Report.Feedback. When the completion service fails with a status, the
// report still comes back with Feedback set to the error text. An empty
// completion sets Feedback to NoResponseFeedback.
func (a *Analyzer) Analyze(ctx context.Context, raw []byte) (*Report, error) {
	report := a.Prepare(ctx, raw)
	if a.client == nil {
		return report, ErrNoClient
	}

	log := requestLogger(ctx)
	feedback, err := a.client.GenerateCompletion(ctx, report.Prompt, a.options...)
	if err != nil {
		if se, ok := ai.AsServiceError(err); ok {
			log.Error("Completion service failed", "status", se.StatusCode, "err", se.Message)
			report.Feedback = se.Error()
			return report, err
		}
		if errors.Is(err, ai.ErrEmptyResponse) {
			log.Warn("Completion was empty", "err", err)
			report.Feedback = NoResponseFeedback
			return report, err
		}
		log.Error("Completion failed", "err", err)
		return report, err
	}
	log.Info("Critique generated", "length", len(feedback))

	report.Feedback = feedback
	return report, nil
}

type loggerKey struct{}

// WithLogger attaches a request scoped logger used by the pipeline stages.
func WithLogger(ctx context.Context, l *logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func requestLogger(ctx context.Context) *logger.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*logger.Logger); ok && l != nil {
		return l
	}
	return logger.With()
}
