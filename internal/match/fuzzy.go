package match

import (
	"strings"

	"quotemark/internal/model"
)

// Fuzzy locates a quote by line-level similarity when no contiguous
// substring of it survives on the page. Every page line is scored against
// the normalized quote with a normalized edit-distance ratio; the best line
// must clear cfg.FuzzyThreshold or the candidate stays unmatched. On a
// clearing line the chunk window schedule is retried scoped to that single
// line, and if even that fails the whole line's raw span is the match, so a
// close-enough quote still produces a visible highlight.
func Fuzzy(quote string, page model.PageText, cfg model.MatchConfig) model.MatchResult {
	return fuzzyIn(Normalize(quote), page, cfg)
}

func fuzzyIn(qn *Normalized, page model.PageText, cfg model.MatchConfig) model.MatchResult {
	if qn.IsEmpty() {
		return model.NotFound(model.ReasonNotFound)
	}

	bestIdx := -1
	bestScore := 0.0
	var bestNorm *Normalized

	for i, line := range page.Lines {
		ln := Normalize(line)
		if ln.IsEmpty() {
			continue
		}
		score := Similarity(qn.Fold, ln.Fold)
		if score > bestScore {
			bestIdx, bestScore, bestNorm = i, score, ln
		}
	}

	if bestIdx < 0 || bestScore < cfg.FuzzyThreshold {
		return model.NotFound(model.ReasonNotFound)
	}

	lineOffset := lineStart(page, bestIdx)

	// Prefer a verbatim sub-window of the quote inside the best line.
	if start, end, ok := chunkWindow(strings.Fields(qn.Fold), bestNorm, cfg); ok {
		return model.MatchResult{
			Found:  true,
			Start:  lineOffset + start,
			End:    lineOffset + end,
			Method: model.MethodFuzzy,
			Score:  bestScore,
		}
	}

	// Last resort: highlight the whole best line, trimmed of surrounding
	// whitespace via the line's own offset map.
	start, end := bestNorm.RawSpan(0, len(bestNorm.Fold))
	return model.MatchResult{
		Found:  true,
		Start:  lineOffset + start,
		End:    lineOffset + end,
		Method: model.MethodFuzzy,
		Score:  bestScore,
	}
}

// lineStart returns the byte offset of line idx within the page's raw text.
// Lines are Raw split on "\n", so offsets accumulate line lengths plus the
// separator.
func lineStart(page model.PageText, idx int) int {
	off := 0
	for i := 0; i < idx && i < len(page.Lines); i++ {
		off += len(page.Lines[i]) + 1
	}
	return off
}

// Similarity is a normalized Levenshtein ratio in [0,1]: identical strings
// score 1.0, fully disjoint strings approach 0.0. It is deterministic and
// symmetric for the same inputs.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ar := []rune(a)
	br := []rune(b)
	longest := max(len(ar), len(br))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(ar, br))/float64(longest)
}

// levenshtein computes the edit distance between two rune slices using the
// two-row dynamic programming form.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(min(prev[j]+1, curr[j-1]+1), prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
