package llm

import (
	"strings"
	"testing"

	"quotemark/internal/model"
)

func TestParseCandidates_BasicResponse(t *testing.T) {
	page := model.NewPageText(3, "page text")
	content := `{"highlights":[
		{"page":3,"quote":"the plant must reduce lead time","label":"Constraint"},
		{"page":3,"quote":"from 12 days to 5 days","label":"Numbers"}
	]}`

	candidates, err := ParseCandidates(content, page, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Label != "Constraint" || candidates[1].Label != "Numbers" {
		t.Errorf("labels not preserved: %+v", candidates)
	}
}

func TestParseCandidates_ForcesPageNumber(t *testing.T) {
	page := model.NewPageText(2, "page text")
	content := `{"highlights":[{"page":9,"quote":"a quote from this page","label":"Insight"}]}`

	candidates, err := ParseCandidates(content, page, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates[0].Page != 2 {
		t.Errorf("expected page forced to 2, got %d", candidates[0].Page)
	}
}

func TestParseCandidates_AppliesPerPageCap(t *testing.T) {
	page := model.NewPageText(1, "page text")
	var quotes []string
	for i := 0; i < 10; i++ {
		quotes = append(quotes, `{"page":1,"quote":"quote number `+string(rune('a'+i))+`","label":"Insight"}`)
	}
	content := `{"highlights":[` + strings.Join(quotes, ",") + `]}`

	candidates, err := ParseCandidates(content, page, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 7 {
		t.Errorf("expected cap at 7 candidates, got %d", len(candidates))
	}
}

func TestParseCandidates_SkipsEmptyQuotes(t *testing.T) {
	page := model.NewPageText(1, "page text")
	content := `{"highlights":[
		{"page":1,"quote":"   ","label":"Insight"},
		{"page":1,"quote":"a real quote","label":"Insight"}
	]}`

	candidates, err := ParseCandidates(content, page, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Quote != "a real quote" {
		t.Errorf("expected blank quotes dropped, got %+v", candidates)
	}
}

func TestParseCandidates_StripsMarkdownFences(t *testing.T) {
	page := model.NewPageText(1, "page text")
	content := "```json\n{\"highlights\":[{\"page\":1,\"quote\":\"fenced quote\",\"label\":\"Insight\"}]}\n```"

	candidates, err := ParseCandidates(content, page, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Quote != "fenced quote" {
		t.Errorf("expected fenced JSON parsed, got %+v", candidates)
	}
}

func TestParseCandidates_InvalidJSON(t *testing.T) {
	page := model.NewPageText(1, "page text")
	if _, err := ParseCandidates("not json at all", page, 7); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestBuildPrompt_IncludesPageTextAndNumber(t *testing.T) {
	page := model.NewPageText(4, "the plant must reduce lead time")
	prompt := BuildPrompt(page, 5)

	if !strings.Contains(prompt, "Page: 4") {
		t.Error("prompt missing page number")
	}
	if !strings.Contains(prompt, page.Raw) {
		t.Error("prompt missing page text")
	}
	if !strings.Contains(prompt, "3-5 quotes") {
		t.Error("prompt missing per-page quote range")
	}
}

func TestBuildDocumentPrompt_DelimitsAllPages(t *testing.T) {
	pages := []model.PageText{
		model.NewPageText(1, "the rollout stalled in week two"),
		model.NewPageText(2, "lead time fell from 12 days to 5 days"),
	}
	prompt := BuildDocumentPrompt(pages, 5)

	if !strings.Contains(prompt, "Document (2 pages)") {
		t.Error("prompt missing page count")
	}
	for _, page := range pages {
		if !strings.Contains(prompt, page.Raw) {
			t.Errorf("prompt missing text of page %d", page.Number)
		}
	}
	if !strings.Contains(prompt, "--- Page 1 ---") || !strings.Contains(prompt, "--- Page 2 ---") {
		t.Error("prompt missing page delimiters")
	}
	if !strings.Contains(prompt, "at most 5 per page") {
		t.Error("prompt missing per-page cap")
	}
}

func TestParseDocumentCandidates_KeepsModelPages(t *testing.T) {
	content := `{"highlights":[
		{"page":2,"quote":"a quote from page two","label":"Insight"},
		{"page":5,"quote":"a quote from page five","label":"Numbers"},
		{"page":99,"quote":"a quote the model misplaced","label":"Risk"}
	]}`

	candidates, err := ParseDocumentCandidates(content, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	// Page numbers pass through untouched, out-of-range included; the
	// caller decides how to report a misplaced quote.
	if candidates[0].Page != 2 || candidates[1].Page != 5 || candidates[2].Page != 99 {
		t.Errorf("page numbers not preserved: %+v", candidates)
	}
}

func TestParseDocumentCandidates_PerPageCapAndBlanks(t *testing.T) {
	var quotes []string
	for i := 0; i < 5; i++ {
		quotes = append(quotes, `{"page":1,"quote":"page one quote `+string(rune('a'+i))+`","label":"Insight"}`)
	}
	quotes = append(quotes,
		`{"page":2,"quote":"   ","label":"Insight"}`,
		`{"page":2,"quote":"a real page two quote","label":"Insight"}`,
	)
	content := `{"highlights":[` + strings.Join(quotes, ",") + `]}`

	candidates, err := ParseDocumentCandidates(content, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byPage := map[int]int{}
	for _, c := range candidates {
		byPage[c.Page]++
	}
	if byPage[1] != 3 {
		t.Errorf("expected page 1 capped at 3 candidates, got %d", byPage[1])
	}
	if byPage[2] != 1 {
		t.Errorf("expected 1 page 2 candidate after dropping the blank, got %d", byPage[2])
	}
}

func TestParseDocumentCandidates_InvalidJSON(t *testing.T) {
	if _, err := ParseDocumentCandidates("not json at all", 7); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
