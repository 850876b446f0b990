package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const softHyphen = '­'

// Normalized is the comparable form of a piece of raw text. Text keeps the
// original case for display; Fold is the case-folded view searched by the
// locators. Both share the same rune sequence, and every Fold byte maps back
// to a byte offset in the raw input so matches are always reported in raw
// coordinates.
type Normalized struct {
	Text string
	Fold string

	// starts[i] / ends[i] bracket the raw bytes of the rune that produced
	// Fold byte i. Collapsed whitespace runs map to their first raw byte.
	starts []int
	ends   []int
}

// Normalize canonicalizes raw text for matching:
//
//  1. hyphenated line-wrap breaks between alphabetic fragments are joined
//     (the hyphen and the break disappear), and soft hyphens are dropped;
//  2. any remaining whitespace run collapses to a single space;
//  3. leading and trailing whitespace is trimmed;
//  4. a case-folded view is kept alongside the display form.
//
// Normalizing already-normalized text yields the same text unchanged.
func Normalize(raw string) *Normalized {
	var text, fold strings.Builder
	starts := make([]int, 0, len(raw))
	ends := make([]int, 0, len(raw))

	emit := func(r rune, rawStart, rawEnd int) {
		text.WriteRune(r)
		lr := unicode.ToLower(r)
		fold.WriteRune(lr)
		for k := 0; k < utf8.RuneLen(lr); k++ {
			starts = append(starts, rawStart)
			ends = append(ends, rawEnd)
		}
	}

	pendingWS := -1 // raw offset of the first byte of an unemitted whitespace run
	prevLetter := false

	i := 0
	for i < len(raw) {
		r, size := utf8.DecodeRuneInString(raw[i:])
		switch {
		case r == softHyphen:
			i += size
		case unicode.IsSpace(r):
			if pendingWS < 0 {
				pendingWS = i
			}
			i += size
		case r == '-' && prevLetter && pendingWS < 0:
			if skip, ok := lineWrapJoin(raw[i+size:]); ok {
				// Drop the hyphen and the break; the fragments fuse.
				i += size + skip
				continue
			}
			emit(r, i, i+size)
			prevLetter = false
			i += size
		default:
			if pendingWS >= 0 {
				if text.Len() > 0 {
					emit(' ', pendingWS, pendingWS+1)
				}
				pendingWS = -1
			}
			emit(r, i, i+size)
			prevLetter = unicode.IsLetter(r)
			i += size
		}
	}

	return &Normalized{
		Text:   text.String(),
		Fold:   fold.String(),
		starts: starts,
		ends:   ends,
	}
}

// lineWrapJoin reports whether rest begins with a whitespace run containing a
// line break followed by an alphabetic rune, i.e. the tail of a hyphenated
// line wrap. It returns the byte length of the whitespace run to skip.
func lineWrapJoin(rest string) (int, bool) {
	j := 0
	sawBreak := false
	for j < len(rest) {
		r, size := utf8.DecodeRuneInString(rest[j:])
		if r == '\n' || r == '\r' {
			sawBreak = true
		} else if !unicode.IsSpace(r) {
			break
		}
		j += size
	}
	if !sawBreak || j >= len(rest) {
		return 0, false
	}
	next, _ := utf8.DecodeRuneInString(rest[j:])
	if !unicode.IsLetter(next) {
		return 0, false
	}
	return j, true
}

// IsEmpty reports whether nothing survived normalization.
func (n *Normalized) IsEmpty() bool {
	return n.Fold == ""
}

// RawSpan translates the half-open span [start, end) of the Fold view into
// byte offsets in the original raw text.
func (n *Normalized) RawSpan(start, end int) (int, int) {
	if start >= end || start >= len(n.starts) {
		return 0, 0
	}
	if end > len(n.ends) {
		end = len(n.ends)
	}
	return n.starts[start], n.ends[end-1]
}

// Find searches the case-folded view for needle and returns the matching
// raw-text span. The needle must already be normalized and case-folded.
func (n *Normalized) Find(needle string) (int, int, bool) {
	if needle == "" || n.Fold == "" {
		return 0, 0, false
	}
	idx := strings.Index(n.Fold, needle)
	if idx < 0 {
		return 0, 0, false
	}
	start, end := n.RawSpan(idx, idx+len(needle))
	return start, end, true
}
