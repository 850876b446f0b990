package model

import "time"

// Report is the complete run report written alongside the highlighted PDF.
type Report struct {
	InputPDF    string    `json:"input_pdf"`
	OutputPDF   string    `json:"output_pdf,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
	PageCount   int       `json:"page_count"`

	Outcomes []Outcome `json:"outcomes"` // one per candidate, in input order
	Summary  Summary   `json:"summary"`

	LLM *LLMInfo `json:"llm,omitempty"` // set when candidates came from an LLM provider
}

// Outcome correlates a candidate with its match result so downstream
// consumers can render or log each highlight attempt individually.
type Outcome struct {
	Candidate Candidate   `json:"candidate"`
	Result    MatchResult `json:"result"`
	Snippet   string      `json:"snippet,omitempty"` // raw page text at the matched span
}

// Summary aggregates match outcomes for quick inspection.
type Summary struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Exact     int `json:"exact"`
	Chunk     int `json:"chunk"`
	Fuzzy     int `json:"fuzzy"`
	Unmatched int `json:"unmatched"`
	Invalid   int `json:"invalid"` // page out of range or empty quote
}

// LLMInfo records which provider produced the candidates.
type LLMInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Cached   int    `json:"cached_pages,omitempty"` // pages served from cache
}

// Summarize rebuilds the summary counters from the outcomes.
func (r *Report) Summarize() {
	s := Summary{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		switch {
		case o.Result.Found:
			s.Matched++
			switch o.Result.Method {
			case MethodExact:
				s.Exact++
			case MethodChunk:
				s.Chunk++
			case MethodFuzzy:
				s.Fuzzy++
			}
		case o.Result.Reason == ReasonPageRange || o.Result.Reason == ReasonEmptyQuote:
			s.Invalid++
		default:
			s.Unmatched++
		}
	}
	s.Unmatched = s.Total - s.Matched - s.Invalid
	r.Summary = s
}
