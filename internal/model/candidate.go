package model

// Candidate is a quote to be located and highlighted on a specific page.
// Candidates are produced by an LLM provider or loaded from a JSON file;
// either way they are immutable inputs to the matching core.
type Candidate struct {
	Page  int    `json:"page"`            // 1-based page number the quote belongs to
	Quote string `json:"quote"`           // verbatim-ish phrase, typically 6-25 words
	Label string `json:"label,omitempty"` // category tag (Problem, Constraint, Numbers, ...)
}

// CandidateSet is the JSON document shape shared by LLM responses and
// caller-supplied highlight files.
type CandidateSet struct {
	Highlights []Candidate `json:"highlights"`
}

// Well-known candidate labels. Providers are prompted to use these but the
// label is free-form metadata and is never validated against this list.
const (
	LabelProblem    = "Problem"
	LabelConstraint = "Constraint"
	LabelNumbers    = "Numbers"
	LabelDecision   = "Decision"
	LabelRisk       = "Risk"
	LabelInsight    = "Insight"
)
