package match

import (
	"strings"

	"quotemark/internal/model"
)

// Chunk locates a contiguous sub-phrase of the quote when the full quote is
// broken by extraction artifacts. The normalized quote is split into words
// and overlapping windows are tried from the largest size down to cfg
// MinWindow, sliding left to right one word at a time within each size, so
// the largest window wins and ties break leftmost. The returned span covers
// only the matched window, not the whole quote: the highlight covers what
// was actually found.
func Chunk(quote string, page model.PageText, cfg model.MatchConfig) model.MatchResult {
	return chunkIn(Normalize(quote), Normalize(page.Raw), cfg)
}

func chunkIn(qn, pn *Normalized, cfg model.MatchConfig) model.MatchResult {
	start, end, ok := chunkWindow(strings.Fields(qn.Fold), pn, cfg)
	if !ok {
		return model.NotFound(model.ReasonNotFound)
	}
	return model.MatchResult{
		Found:  true,
		Start:  start,
		End:    end,
		Method: model.MethodChunk,
		Score:  1.0,
	}
}

// chunkWindow runs the window schedule against a normalized text and returns
// the raw span of the first matching window. The schedule starts at
// floor(WindowFrac * wordcount) capped at one word below the full quote
// (the full quote was already tried by the exact locator) and never goes
// below MinWindow; quotes shorter than MinWindow words produce no windows.
func chunkWindow(words []string, pn *Normalized, cfg model.MatchConfig) (int, int, bool) {
	minWindow := cfg.MinWindow
	if minWindow < 2 {
		minWindow = 2
	}
	if len(words) <= minWindow || pn.IsEmpty() {
		return 0, 0, false
	}

	largest := int(float64(len(words)) * cfg.WindowFrac)
	if largest >= len(words) {
		largest = len(words) - 1
	}
	if largest < minWindow {
		largest = minWindow
	}

	for size := largest; size >= minWindow; size-- {
		for at := 0; at+size <= len(words); at++ {
			window := strings.Join(words[at:at+size], " ")
			if start, end, ok := pn.Find(window); ok {
				return start, end, true
			}
		}
	}
	return 0, 0, false
}
