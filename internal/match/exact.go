package match

import (
	"strings"

	"quotemark/internal/model"
)

// Exact locates the full quote contiguously on the page: first verbatim in
// the raw text, then in normalized space with the span mapped back to raw
// offsets. No partial credit; either the whole quote is present (modulo
// whitespace and hyphenation normalization) or the result is not found.
func Exact(quote string, page model.PageText) model.MatchResult {
	return exactIn(quote, Normalize(quote), Normalize(page.Raw), page)
}

func exactIn(quote string, qn, pn *Normalized, page model.PageText) model.MatchResult {
	// Raw verbatim hit needs no offset translation.
	if quote != "" {
		if idx := strings.Index(page.Raw, quote); idx >= 0 {
			return model.MatchResult{
				Found:  true,
				Start:  idx,
				End:    idx + len(quote),
				Method: model.MethodExact,
				Score:  1.0,
			}
		}
	}

	if qn.IsEmpty() || pn.IsEmpty() {
		return model.NotFound(model.ReasonNotFound)
	}

	if start, end, ok := pn.Find(qn.Fold); ok {
		return model.MatchResult{
			Found:  true,
			Start:  start,
			End:    end,
			Method: model.MethodExact,
			Score:  1.0,
		}
	}

	return model.NotFound(model.ReasonNotFound)
}
