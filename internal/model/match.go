package model

// Method identifies which locator strategy produced a match.
type Method string

const (
	MethodExact Method = "exact" // full quote found contiguously (raw or normalized)
	MethodChunk Method = "chunk" // a contiguous word window of the quote found
	MethodFuzzy Method = "fuzzy" // best-line similarity match above threshold
)

// Reason classifies why a candidate produced no match.
type Reason string

const (
	ReasonNotFound    Reason = "not_found"     // no strategy located the quote on its page
	ReasonPageRange   Reason = "page_range"    // candidate references a page outside the document
	ReasonEmptyQuote  Reason = "empty_quote"   // quote is empty after normalization
	ReasonEmptyPage   Reason = "empty_page"    // page has no extractable text
)

// MatchResult is the outcome of locating one candidate on one page.
// Start and End are byte offsets into PageText.Raw forming the half-open
// span [Start, End). When Found is false, Method is empty and Reason is set.
type MatchResult struct {
	Found  bool    `json:"found"`
	Start  int     `json:"start,omitempty"`
	End    int     `json:"end,omitempty"`
	Method Method  `json:"method,omitempty"`
	Score  float64 `json:"score,omitempty"` // 1.0 for exact/chunk, line similarity for fuzzy
	Reason Reason  `json:"reason,omitempty"`
}

// NotFound returns a failed result with the given reason.
func NotFound(reason Reason) MatchResult {
	return MatchResult{Found: false, Reason: reason}
}
