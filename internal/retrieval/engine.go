// Package retrieval answers questions by retrieving the most similar chunks
// and composing a citation-grounded prompt for a generation backend.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/faiqfarooq/codebase-rag/internal/apperr"
	"github.com/faiqfarooq/codebase-rag/internal/index"
	"github.com/faiqfarooq/codebase-rag/internal/llm"
	"github.com/faiqfarooq/codebase-rag/internal/models"
)

// NoResultsResponse is returned when the collection has nothing relevant.
const NoResultsResponse = "No relevant code found in the codebase. Please try a different query or ingest some code first."

const contextSeparator = "\n\n---\n\n"

const systemPrompt = `You are a helpful code assistant that explains code and helps debug issues.
When explaining code or answering questions, always cite the file and line number using the format: filename.ext:line_number
When explaining why something isn't working, be specific and reference the exact locations in the code.

Always format file references as: filename.ext:line_number (e.g., Button.tsx:42)`

const userPromptFormat = `Context from codebase:

%s

---

Question: %s

Please answer the question based on the code context above. When mentioning files or code locations, use the format filename.ext:line_number.`

// Engine is the retrieval coordinator: top-k query, context assembly, and
// generation dispatch.
type Engine struct {
	collection *index.Collection
	providers  *llm.Registry
	topK       int
	logger     *zap.Logger
}

// NewEngine creates a retrieval engine.
func NewEngine(collection *index.Collection, providers *llm.Registry, topK int, logger *zap.Logger) *Engine {
	if topK <= 0 {
		topK = 5
	}
	return &Engine{
		collection: collection,
		providers:  providers,
		topK:       topK,
		logger:     logger,
	}
}

// Answer retrieves the chunks most similar to query, assembles the cited
// context, and asks the backend selected by model. An empty collection is
// answered with a fixed no-results response, not an error.
func (e *Engine) Answer(ctx context.Context, query, model string) (*models.ChatResponse, error) {
	provider, err := e.providers.Select(model)
	if err != nil {
		return nil, err
	}

	results, err := e.collection.Query(ctx, query, e.topK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.ChatResponse{
			Response: NoResultsResponse,
			Sources:  []models.Source{},
		}, nil
	}

	contextText, sources := assembleContext(results)
	userPrompt := fmt.Sprintf(userPromptFormat, contextText, query)

	e.logger.Debug("invoking generator",
		zap.String("provider", provider.Name()),
		zap.Int("retrieved", len(results)),
	)
	text, err := provider.Invoke(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, apperr.GeneratorUnavailable("failed to generate response", err)
	}
	return &models.ChatResponse{Response: text, Sources: sources}, nil
}

// assembleContext builds the citation-annotated context block and the source
// descriptors, preserving the store's rank order.
func assembleContext(results []index.Result) (string, []models.Source) {
	blocks := make([]string, 0, len(results))
	sources := make([]models.Source, 0, len(results))
	for _, r := range results {
		m := r.Entry.Metadata
		blocks = append(blocks, fmt.Sprintf("[%s:%d]\n%s", m.Filename, m.StartLine, r.Entry.Text))
		sources = append(sources, models.Source{
			Filename:  m.Filename,
			StartLine: m.StartLine,
			FileType:  m.FileType,
			Preview:   m.Preview,
		})
	}
	return strings.Join(blocks, contextSeparator), sources
}
