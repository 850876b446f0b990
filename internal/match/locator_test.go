package match

import (
	"testing"

	"quotemark/internal/model"
)

func testLocator() *Locator {
	return NewLocator(model.DefaultConfig().Match)
}

func TestLocator_VerbatimQuoteIsExact(t *testing.T) {
	page := model.NewPageText(3, "The plant must reduce lead time from 12 days to 5 days.")
	quote := "reduce lead time from 12 days"

	res := testLocator().Locate(model.Candidate{Page: 3, Quote: quote}, page)
	if !res.Found || res.Method != model.MethodExact {
		t.Fatalf("expected exact match, got %+v", res)
	}
	if got := page.Raw[res.Start:res.End]; got != quote {
		t.Errorf("span mismatch: got %q", got)
	}
}

func TestLocator_LineBreakQuoteIsExact(t *testing.T) {
	page := model.NewPageText(1, "The plant must reduce\nlead time from 12 days to 5 days within 6 months.")
	quote := "The plant must reduce lead time from 12 days to 5 days within 6 months."

	res := testLocator().Locate(model.Candidate{Page: 1, Quote: quote}, page)
	if !res.Found || res.Method != model.MethodExact {
		t.Fatalf("expected exact match after normalization, got %+v", res)
	}
}

func TestLocator_DeletedWordFallsBackToChunk(t *testing.T) {
	page := model.NewPageText(1, "the committee decided to postpone the final vote until next quarter pending review")
	// "final" deleted mid-quote.
	quote := "the committee decided to postpone the vote until next quarter"

	res := testLocator().Locate(model.Candidate{Page: 1, Quote: quote}, page)
	if !res.Found {
		t.Fatal("expected a match via chunking")
	}
	if res.Method != model.MethodChunk {
		t.Fatalf("expected method chunk, got %q", res.Method)
	}
	if res.End-res.Start >= len(quote) {
		t.Errorf("chunk span must be shorter than the quote, got %q", page.Raw[res.Start:res.End])
	}
}

func TestLocator_DisjointQuoteNotFound(t *testing.T) {
	page := model.NewPageText(1, "inventory levels held steady through the spring season")
	res := testLocator().Locate(model.Candidate{Page: 1, Quote: "quantum entanglement verification protocol overhead"}, page)
	if res.Found {
		t.Fatalf("expected no match, got %+v", res)
	}
	if res.Reason != model.ReasonNotFound {
		t.Errorf("expected reason not_found, got %q", res.Reason)
	}
	if res.Method != "" {
		t.Errorf("method must be unset on failure, got %q", res.Method)
	}
}

func TestLocator_ReorderedReducedQuote(t *testing.T) {
	// Documented schedule boundary: all words present but reordered and
	// reduced, no contiguous window of minimum size survives, and line
	// similarity stays below threshold. The candidate is dropped.
	page := model.NewPageText(1, "The plant must reduce\nlead time from 12 days to 5 days within 6 months.")
	res := testLocator().Locate(model.Candidate{Page: 1, Quote: "plant reduce time 12 days 5 days 6 months"}, page)
	if res.Found {
		t.Fatalf("expected no match for reordered quote, got %+v", res)
	}
}

func TestLocator_EmptyQuote(t *testing.T) {
	page := model.NewPageText(1, "some page text")
	for _, quote := range []string{"", "   \n\t", "­"} {
		res := testLocator().Locate(model.Candidate{Page: 1, Quote: quote}, page)
		if res.Found {
			t.Errorf("empty quote %q must not match", quote)
		}
		if res.Reason != model.ReasonEmptyQuote {
			t.Errorf("expected reason empty_quote for %q, got %q", quote, res.Reason)
		}
	}
}

func TestLocator_EmptyPage(t *testing.T) {
	res := testLocator().Locate(model.Candidate{Page: 1, Quote: "a perfectly fine quote"}, model.NewPageText(1, "  \n "))
	if res.Found || res.Reason != model.ReasonEmptyPage {
		t.Fatalf("expected empty_page failure, got %+v", res)
	}
}

func TestLocator_SpanInvariant(t *testing.T) {
	pages := []model.PageText{
		model.NewPageText(1, "The plant must reduce lead time from 12 days to 5 days."),
		model.NewPageText(2, "targets a sharp reduc-\ntion in lead time this year"),
		model.NewPageText(3, "intro\nthe plant must reduce lead time\noutro"),
	}
	quotes := []string{
		"reduce lead time from 12 days",
		"a sharp reduction in lead time",
		"the plant must reduce lead times",
	}
	loc := testLocator()
	for i, page := range pages {
		res := loc.Locate(model.Candidate{Page: page.Number, Quote: quotes[i]}, page)
		if !res.Found {
			t.Fatalf("page %d: expected match", page.Number)
		}
		if res.Start > res.End || res.End > len(page.Raw) {
			t.Errorf("page %d: span invariant violated: [%d, %d) in %d bytes",
				page.Number, res.Start, res.End, len(page.Raw))
		}
	}
}

func TestLocator_ConcurrentCallsAgree(t *testing.T) {
	page := model.NewPageText(1, "The plant must reduce\nlead time from 12 days to 5 days within 6 months.")
	cand := model.Candidate{Page: 1, Quote: "reduce lead time from 12 days"}
	loc := testLocator()

	want := loc.Locate(cand, page)
	results := make(chan model.MatchResult, 16)
	for i := 0; i < 16; i++ {
		go func() {
			results <- loc.Locate(cand, page)
		}()
	}
	for i := 0; i < 16; i++ {
		if got := <-results; got != want {
			t.Fatalf("concurrent result diverged: %+v != %+v", got, want)
		}
	}
}
