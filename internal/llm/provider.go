package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quotemark/internal/model"
)

// Provider defines the interface for LLM candidate extraction
type Provider interface {
	// Name returns the provider name
	Name() string

	// ExtractQuotes asks the model for the most important verbatim quotes
	// on a single page. Returned candidates always carry the page's number.
	ExtractQuotes(ctx context.Context, page model.PageText) ([]model.Candidate, error)

	// ExtractQuotesDocument asks the model for quotes across the whole
	// document in one call. Candidates keep the page numbers the model
	// assigned; the caller validates them against the page range.
	ExtractQuotesDocument(ctx context.Context, pages []model.PageText) ([]model.Candidate, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxPerPage caps the number of candidates kept per page
	MaxPerPage int

	// Temperature for generation; low values keep extraction verbatim
	Temperature float32
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Model:       "",
		Timeout:     30,
		MaxPerPage:  7,
		Temperature: 0.3,
	}
}

const systemPrompt = `You extract ONLY verbatim quotes from the provided page text.
Return JSON. No paraphrases. Your job is to identify the most important phrases that should be highlighted.`

// BuildPrompt constructs the per-page extraction prompt.
func BuildPrompt(page model.PageText, maxQuotes int) string {
	if maxQuotes <= 0 {
		maxQuotes = 7
	}
	return fmt.Sprintf(`Goal: highlight the most important phrases for understanding this document.

Rules:
- Choose 3-%d quotes from this page only.
- Each quote must be copied EXACTLY from the page text (verbatim, no changes).
- 6-25 words per quote (1 sentence max).
- Include page number in each highlight.
- Add a label tag: Problem, Constraint, Numbers, Decision, Risk, Insight, or other relevant category.
- Output JSON: {"highlights":[{"page":%d, "quote":"...", "label":"..."}]}

Page: %d
Text:
%s
`, maxQuotes, page.Number, page.Number, page.Raw)
}

// BuildDocumentPrompt constructs a single extraction prompt over the whole
// document, with every page delimited and numbered so the model can place
// each quote on its page.
func BuildDocumentPrompt(pages []model.PageText, maxPerPage int) string {
	if maxPerPage <= 0 {
		maxPerPage = 7
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Goal: highlight the most important phrases for understanding this document.

Rules:
- Choose the quotes that matter most across the whole document, at most %d per page.
- Each quote must be copied EXACTLY from its page's text (verbatim, no changes).
- 6-25 words per quote (1 sentence max).
- Include the page number the quote was copied from in each highlight.
- Add a label tag: Problem, Constraint, Numbers, Decision, Risk, Insight, or other relevant category.
- Output JSON: {"highlights":[{"page":1, "quote":"...", "label":"..."}]}

Document (%d pages):
`, maxPerPage, len(pages))

	for _, page := range pages {
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s\n", page.Number, page.Raw)
	}
	return b.String()
}

// ParseDocumentCandidates decodes a whole-document response. Unlike the
// per-page parser the model's page numbers are kept, including out-of-range
// ones (the pipeline reports those rather than coercing them); blank quotes
// are dropped and the per-page cap is applied in response order.
func ParseDocumentCandidates(content string, maxPerPage int) ([]model.Candidate, error) {
	content = stripJSONFences(content)

	var set model.CandidateSet
	if err := json.Unmarshal([]byte(content), &set); err != nil {
		return nil, fmt.Errorf("parse highlights JSON: %w", err)
	}

	perPage := make(map[int]int)
	candidates := make([]model.Candidate, 0, len(set.Highlights))
	for _, c := range set.Highlights {
		if strings.TrimSpace(c.Quote) == "" {
			continue
		}
		if maxPerPage > 0 && perPage[c.Page] >= maxPerPage {
			continue
		}
		perPage[c.Page]++
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// ParseCandidates decodes a model response into candidates. The page number
// is forced to the requested page so a confused model can never move a quote
// to a different page, and the per-page cap is applied in response order.
func ParseCandidates(content string, page model.PageText, maxPerPage int) ([]model.Candidate, error) {
	content = stripJSONFences(content)

	var set model.CandidateSet
	if err := json.Unmarshal([]byte(content), &set); err != nil {
		return nil, fmt.Errorf("parse highlights JSON: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(set.Highlights))
	for _, c := range set.Highlights {
		if strings.TrimSpace(c.Quote) == "" {
			continue
		}
		c.Page = page.Number
		candidates = append(candidates, c)
	}

	if maxPerPage > 0 && len(candidates) > maxPerPage {
		candidates = candidates[:maxPerPage]
	}
	return candidates, nil
}

// stripJSONFences removes a markdown code fence wrapper some models insist
// on emitting around JSON output.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
