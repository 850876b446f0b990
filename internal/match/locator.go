// Package match implements the quote-location engine: given a short
// verbatim-ish phrase and the extracted text of a document page, it finds
// the best matching span on that page despite line breaks, hyphenation
// artifacts and whitespace noise. Three strategies (exact, chunk, fuzzy)
// are tried in a fixed precision-first order, degrading gracefully so that
// extraction noise costs recall before it costs precision.
package match

import "quotemark/internal/model"

// Locator runs the locate strategies in order against a page.
// It is stateless apart from configuration and safe for concurrent use;
// every call normalizes its inputs afresh.
type Locator struct {
	cfg model.MatchConfig
}

// NewLocator creates a locator with the given tuning.
func NewLocator(cfg model.MatchConfig) *Locator {
	if cfg.FuzzyThreshold <= 0 || cfg.FuzzyThreshold > 1 {
		cfg.FuzzyThreshold = model.DefaultConfig().Match.FuzzyThreshold
	}
	if cfg.MinWindow <= 0 {
		cfg.MinWindow = model.DefaultConfig().Match.MinWindow
	}
	if cfg.WindowFrac <= 0 || cfg.WindowFrac > 1 {
		cfg.WindowFrac = model.DefaultConfig().Match.WindowFrac
	}
	return &Locator{cfg: cfg}
}

// Locate tries exact, then chunk, then fuzzy location of the candidate's
// quote on the page, short-circuiting on the first success. Failures are
// structured results, never errors: a candidate that cannot be located is a
// terminal, reportable outcome, not a fault.
func (l *Locator) Locate(c model.Candidate, page model.PageText) model.MatchResult {
	qn := Normalize(c.Quote)
	if qn.IsEmpty() {
		return model.NotFound(model.ReasonEmptyQuote)
	}

	pn := Normalize(page.Raw)
	if pn.IsEmpty() {
		return model.NotFound(model.ReasonEmptyPage)
	}

	if res := exactIn(c.Quote, qn, pn, page); res.Found {
		return res
	}
	if res := chunkIn(qn, pn, l.cfg); res.Found {
		return res
	}
	if res := fuzzyIn(qn, page, l.cfg); res.Found {
		return res
	}
	return model.NotFound(model.ReasonNotFound)
}
