package model

import "strings"

// PageText holds the extracted text of a single document page.
// It is immutable once extracted; the matching core only reads it.
type PageText struct {
	Number int      `json:"page"`  // 1-based page number
	Raw    string   `json:"text"`  // raw extracted text, line breaks preserved
	Lines  []string `json:"lines"` // Raw split on line breaks
}

// NewPageText builds a PageText from raw extracted text.
func NewPageText(number int, raw string) PageText {
	return PageText{
		Number: number,
		Raw:    raw,
		Lines:  strings.Split(raw, "\n"),
	}
}

// IsEmpty reports whether the page has no usable text.
func (p PageText) IsEmpty() bool {
	return strings.TrimSpace(p.Raw) == ""
}
