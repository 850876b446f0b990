package match

import (
	"strings"
	"testing"
)

func TestNormalize_JoinsHyphenatedLineWrap(t *testing.T) {
	n := Normalize("the plant must achieve a reduc-\ntion in lead time")

	if !strings.Contains(n.Text, "reduction") {
		t.Errorf("expected hyphenated line wrap to be joined, got %q", n.Text)
	}
	if strings.Contains(n.Text, "-") {
		t.Errorf("expected hyphen to be removed, got %q", n.Text)
	}
}

func TestNormalize_HyphenJoinRequiresLineBreak(t *testing.T) {
	// A hyphen followed by a plain space is not a line-wrap artifact.
	n := Normalize("a well- known fact")
	if n.Text != "a well- known fact" {
		t.Errorf("expected hyphen before plain space to survive, got %q", n.Text)
	}
}

func TestNormalize_HyphenJoinRequiresAlphabeticFragments(t *testing.T) {
	// Numeric ranges broken across lines keep their hyphen.
	n := Normalize("pages 12-\n34 of the report")
	if !strings.Contains(n.Text, "12- 34") {
		t.Errorf("expected numeric hyphen to survive the line break, got %q", n.Text)
	}
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	n := Normalize("lead \t time\n\n from   12 days")
	if n.Text != "lead time from 12 days" {
		t.Errorf("expected collapsed whitespace, got %q", n.Text)
	}
}

func TestNormalize_TrimsEnds(t *testing.T) {
	n := Normalize("  \n lead time \t ")
	if n.Text != "lead time" {
		t.Errorf("expected trimmed text, got %q", n.Text)
	}
}

func TestNormalize_RemovesSoftHyphens(t *testing.T) {
	n := Normalize("reduc­tion")
	if n.Text != "reduction" {
		t.Errorf("expected soft hyphen removed, got %q", n.Text)
	}
}

func TestNormalize_FoldKeepsDisplayCase(t *testing.T) {
	n := Normalize("The Plant MUST Reduce")
	if n.Text != "The Plant MUST Reduce" {
		t.Errorf("display form must keep original case, got %q", n.Text)
	}
	if n.Fold != "the plant must reduce" {
		t.Errorf("fold form must be lowercase, got %q", n.Fold)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"the plant must reduce\nlead time",
		"a reduc-\ntion in cost",
		"  spaced   out  ",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once.Text)
		if twice.Text != once.Text {
			t.Errorf("normalize not idempotent for %q: %q != %q", in, twice.Text, once.Text)
		}
	}
}

func TestNormalize_EmptyResult(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t\n", "­"} {
		n := Normalize(in)
		if !n.IsEmpty() {
			t.Errorf("expected empty normalization for %q, got %q", in, n.Fold)
		}
	}
}

func TestNormalized_FindMapsBackToRawOffsets(t *testing.T) {
	raw := "The plant must reduce\nlead time from 12 days"
	pn := Normalize(raw)

	needle := Normalize("reduce lead time").Fold
	start, end, ok := pn.Find(needle)
	if !ok {
		t.Fatalf("expected to find %q in normalized page", needle)
	}

	got := raw[start:end]
	if got != "reduce\nlead time" {
		t.Errorf("raw span mismatch: got %q", got)
	}
}

func TestNormalized_FindAcrossHyphenJoin(t *testing.T) {
	raw := "a clear reduc-\ntion in lead time"
	pn := Normalize(raw)

	start, end, ok := pn.Find("reduction in lead")
	if !ok {
		t.Fatal("expected to find joined word in normalized page")
	}
	got := raw[start:end]
	if got != "reduc-\ntion in lead" {
		t.Errorf("raw span mismatch: got %q", got)
	}
	if start > end || end > len(raw) {
		t.Errorf("span out of bounds: [%d, %d) in %d bytes", start, end, len(raw))
	}
}

func TestNormalized_FindCaseInsensitive(t *testing.T) {
	pn := Normalize("THE PLANT MUST REDUCE")
	needle := Normalize("plant must").Fold
	start, end, ok := pn.Find(needle)
	if !ok {
		t.Fatal("expected case-insensitive find to succeed")
	}
	if got := "THE PLANT MUST REDUCE"[start:end]; got != "PLANT MUST" {
		t.Errorf("expected raw span in original case, got %q", got)
	}
}
