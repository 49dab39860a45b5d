// Package rag combines the keyword index, the metrics extractor, and a
// chat-completion provider into a keyword research assistant.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/barekit/adscope/pkg/ads"
	"github.com/barekit/adscope/pkg/archive"
	"github.com/barekit/adscope/pkg/knowledge"
	"github.com/barekit/adscope/pkg/llm"
	"github.com/barekit/adscope/pkg/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const systemPrompt = `You are an expert digital marketing analyst with access to Google Ads keyword data.
Use the provided keyword data to answer questions about search volume, competition, costs, and marketing opportunities.

Provide specific, data-driven insights based on the keyword metrics. When making recommendations,
consider search volume, competition levels, and cost-per-click data.

If asked about keywords not in the data, suggest related alternatives from the available data.`

const recommendationsPrompt = "Include strategic recommendations for keyword targeting and campaign optimization."

// Assistant answers keyword research questions grounded in fetched metrics.
type Assistant struct {
	LLM         llm.Provider
	Index       *knowledge.Index
	Extractor   *ads.Extractor
	Archive     archive.Archive
	StorePath   string
	MaxTokens   int
	Temperature float64
	Debug       bool
}

// Option is a function that configures an Assistant.
type Option func(*Assistant)

// New creates a new Assistant. If a store path is set and the index's store
// supports snapshots, any existing snapshot is loaded; a missing snapshot is
// a first run, not an error.
func New(llmProvider llm.Provider, index *knowledge.Index, opts ...Option) (*Assistant, error) {
	a := &Assistant{
		LLM:         llmProvider,
		Index:       index,
		MaxTokens:   1500,
		Temperature: 0.7,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.StorePath != "" {
		if snap, ok := a.Index.VectorStore.(knowledge.Snapshotter); ok {
			if err := snap.Load(a.StorePath); err != nil {
				return nil, fmt.Errorf("failed to load keyword store: %w", err)
			}
			if a.Debug {
				slog.Info("Loaded keyword store", "path", a.StorePath, "keywords", len(a.Index.Records()))
			}
		}
	}

	return a, nil
}

// WithExtractor sets the metrics extractor used by UpdateKeywords.
func WithExtractor(extractor *ads.Extractor) Option {
	return func(a *Assistant) {
		a.Extractor = extractor
	}
}

// WithArchive sets the append-only keyword history archive.
func WithArchive(arc archive.Archive) Option {
	return func(a *Assistant) {
		a.Archive = arc
	}
}

// WithStorePath sets the path stem for snapshot persistence.
func WithStorePath(path string) Option {
	return func(a *Assistant) {
		a.StorePath = path
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(maxTokens int) Option {
	return func(a *Assistant) {
		a.MaxTokens = maxTokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(a *Assistant) {
		a.Temperature = temperature
	}
}

// WithDebug enables debug logging.
func WithDebug(enable bool) Option {
	return func(a *Assistant) {
		a.Debug = enable
	}
}

// UpdateKeywords fetches metrics for the seed terms, ingests them into the
// index, appends them to the archive, and saves a snapshot.
func (a *Assistant) UpdateKeywords(ctx context.Context, seeds []string, locationIDs []string) error {
	if a.Extractor == nil {
		return fmt.Errorf("no extractor configured")
	}

	if a.Debug {
		slog.Info("Fetching keyword data", "seeds", seeds)
	}

	records, err := a.Extractor.GenerateKeywordIdeas(ctx, seeds, locationIDs, "")
	if err != nil {
		return fmt.Errorf("failed to fetch keyword ideas: %w", err)
	}

	if err := a.Index.AddKeywords(ctx, records); err != nil {
		return err
	}

	if a.Archive != nil {
		for _, rec := range records {
			if err := a.Archive.Append(ctx, rec); err != nil {
				return fmt.Errorf("failed to archive keyword %q: %w", rec.Term, err)
			}
		}
	}

	if a.StorePath != "" {
		if snap, ok := a.Index.VectorStore.(knowledge.Snapshotter); ok {
			if err := snap.Save(a.StorePath); err != nil {
				return fmt.Errorf("failed to save keyword store: %w", err)
			}
		}
	}

	if a.Debug {
		slog.Info("Added keywords to index", "count", len(records))
	}
	return nil
}

// Answer retrieves up to maxRecords similar keywords and asks the model for
// an answer grounded in them. A completion failure is returned as the answer
// text, not as an error, so interactive use never crashes on a transient API
// failure.
func (a *Assistant) Answer(ctx context.Context, question string, maxRecords int, includeRecommendations bool) (string, error) {
	matches, err := a.Index.Search(ctx, question, maxRecords)
	if err != nil {
		return "", err
	}

	userPrompt := fmt.Sprintf("User Query: %s\n\n%s\n\nPlease provide a comprehensive answer based on the keyword data above.",
		question, formatContext(matches))
	if includeRecommendations {
		userPrompt += "\n\n" + recommendationsPrompt
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	}

	response, err := a.LLM.Chat(ctx, messages, &llm.Options{
		MaxTokens:      a.MaxTokens,
		Temperature:    a.Temperature,
		HasTemperature: true,
	})
	if err != nil {
		if a.Debug {
			slog.Error("Completion failed", "error", err)
		}
		return fmt.Sprintf("Error generating response: %v", err), nil
	}

	return response.Content, nil
}

// Stats returns descriptive statistics over the indexed records.
func (a *Assistant) Stats() map[string]any {
	return stats.Compute(a.Index.Records())
}

// formatContext builds the context block handed to the model: one numbered
// entry per retrieved record, in descending similarity order.
func formatContext(matches []knowledge.Match) string {
	if len(matches) == 0 {
		return "No relevant keyword data found."
	}

	p := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString("Relevant Keyword Data:\n\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. Keyword: '%s'\n", i+1, m.Record.Term)
		p.Fprintf(&b, "   - Search Volume: %d monthly searches\n", m.Record.SearchVolume)
		fmt.Fprintf(&b, "   - Competition: %s\n", m.Record.Competition)
		fmt.Fprintf(&b, "   - CPC Range: $%.2f - $%.2f\n", m.Record.CPCLow, m.Record.CPCHigh)
		fmt.Fprintf(&b, "   - Relevance Score: %.3f\n\n", m.Score)
	}

	return b.String()
}
