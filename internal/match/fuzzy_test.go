package match

import (
	"strings"
	"testing"

	"quotemark/internal/model"
)

func TestSimilarity_Identical(t *testing.T) {
	if s := Similarity("lead time", "lead time"); s != 1.0 {
		t.Errorf("identical strings must score 1.0, got %v", s)
	}
}

func TestSimilarity_Disjoint(t *testing.T) {
	s := Similarity("aaaaaaaaaa", "zzzzzzzzzz")
	if s > 0.1 {
		t.Errorf("disjoint strings must score near zero, got %v", s)
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	a, b := "the plant must reduce lead time", "the plant should reduce lead times"
	if Similarity(a, b) != Similarity(b, a) {
		t.Errorf("similarity must be symmetric: %v vs %v", Similarity(a, b), Similarity(b, a))
	}
}

func TestSimilarity_Deterministic(t *testing.T) {
	a, b := "reduce lead time from 12 days", "reduce the lead time from 12 days"
	first := Similarity(a, b)
	for i := 0; i < 10; i++ {
		if got := Similarity(a, b); got != first {
			t.Fatalf("similarity not deterministic: %v != %v", got, first)
		}
	}
}

func TestFuzzy_SubWindowWithinBestLine(t *testing.T) {
	page := model.NewPageText(1, strings.Join([]string{
		"Quarterly report overview",
		"the plant must reduce lead time from twelve days",
		"Appendix tables follow",
	}, "\n"))
	// First word differs, so exact and full-page chunk context aside, the
	// middle line is the clear similarity winner and holds a long verbatim
	// sub-window of the quote.
	quote := "a plant must reduce lead time from twelve days"

	res := Fuzzy(quote, page, testMatchConfig())
	if !res.Found {
		t.Fatal("expected fuzzy match")
	}
	if res.Method != model.MethodFuzzy {
		t.Errorf("expected method fuzzy, got %q", res.Method)
	}
	if res.Score <= testMatchConfig().FuzzyThreshold || res.Score >= 1.0 {
		t.Errorf("expected line similarity in (threshold, 1), got %v", res.Score)
	}
	got := page.Raw[res.Start:res.End]
	if got != "plant must reduce lead time from twelve" {
		t.Errorf("expected the surviving sub-window, got %q", got)
	}
}

func TestFuzzy_FallsBackToWholeLine(t *testing.T) {
	page := model.NewPageText(1, strings.Join([]string{
		"Quarterly report overview",
		"  lead time reduction targets  ",
		"Appendix tables follow",
	}, "\n"))
	// Too short for any chunk window; similarity to the middle line is high
	// enough that the whole line becomes the match.
	quote := "lead time reduction target"

	res := Fuzzy(quote, page, testMatchConfig())
	if !res.Found {
		t.Fatal("expected whole-line fuzzy match")
	}
	got := page.Raw[res.Start:res.End]
	if got != "lead time reduction targets" {
		t.Errorf("expected the trimmed best line, got %q", got)
	}
}

func TestFuzzy_BelowThreshold(t *testing.T) {
	page := model.NewPageText(1, "completely unrelated content\nabout something else entirely")
	res := Fuzzy("the plant must reduce lead time from 12 days", page, testMatchConfig())
	if res.Found {
		t.Errorf("expected no fuzzy match below threshold, got score %v", res.Score)
	}
	if res.Method != "" {
		t.Errorf("method must be unset on failure, got %q", res.Method)
	}
}

func TestFuzzy_SpanWithinPageBounds(t *testing.T) {
	page := model.NewPageText(1, "intro line\nthe plant must reduce lead time\nclosing line")
	res := Fuzzy("the plant must reduce lead times", page, testMatchConfig())
	if !res.Found {
		t.Fatal("expected fuzzy match")
	}
	if res.Start > res.End || res.End > len(page.Raw) {
		t.Errorf("span out of bounds: [%d, %d) in %d bytes", res.Start, res.End, len(page.Raw))
	}
}
