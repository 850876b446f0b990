// Package extract reads per-page text and line geometry out of a PDF file.
// Text is assembled row by row from glyph positions so that the page text the
// matcher sees carries the same line structure a human would read, and every
// line remembers its position on the page for the annotation step.
package extract

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"quotemark/internal/model"
)

// Line is one assembled text row with its byte span in the page text and its
// bounding box in PDF user-space coordinates.
type Line struct {
	Start, End int // byte offsets into the page's raw text
	X0, X1     float64
	Y          float64 // baseline
	Height     float64 // approximated from the dominant font size
}

// Page couples the text the matcher works on with the geometry the
// annotator needs to draw highlights.
type Page struct {
	Text  model.PageText
	Lines []Line
}

// Extractor reads pages from a single open PDF.
type Extractor struct {
	path string
	file *os.File
	rdr  *pdf.Reader
}

// Open opens a PDF for page extraction. The caller must Close it.
func Open(path string) (*Extractor, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &Extractor{path: path, file: f, rdr: r}, nil
}

// Close releases the underlying file.
func (e *Extractor) Close() error {
	return e.file.Close()
}

// NumPages returns the page count.
func (e *Extractor) NumPages() int {
	return e.rdr.NumPage()
}

// Page extracts a single page (1-based).
func (e *Extractor) Page(num int) (Page, error) {
	if num < 1 || num > e.rdr.NumPage() {
		return Page{}, fmt.Errorf("page %d out of range 1-%d", num, e.rdr.NumPage())
	}

	p := e.rdr.Page(num)
	if p.V.IsNull() {
		return Page{Text: model.NewPageText(num, "")}, nil
	}

	rows, err := p.GetTextByRow()
	if err != nil {
		// Fall back to plain extraction; no geometry, matching still works.
		text, perr := p.GetPlainText(nil)
		if perr != nil {
			return Page{}, fmt.Errorf("extract page %d: %w", num, perr)
		}
		return Page{Text: model.NewPageText(num, text)}, nil
	}

	return assemblePage(num, rows), nil
}

// Pages extracts every page of the document in order.
func (e *Extractor) Pages() ([]Page, error) {
	pages := make([]Page, 0, e.rdr.NumPage())
	for i := 1; i <= e.rdr.NumPage(); i++ {
		page, err := e.Page(i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// assemblePage orders rows top-to-bottom, joins each row's fragments with
// coordinate-derived spacing and records per-line byte spans and boxes.
// PDF user space has Y increasing upward, so higher Y means higher on the
// page.
func assemblePage(num int, rows pdf.Rows) Page {
	kept := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			kept = append(kept, row)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return rowY(kept[i].Content) > rowY(kept[j].Content)
	})

	var buf strings.Builder
	var lines []Line
	for _, row := range kept {
		text, box := joinRow(row.Content)
		if strings.TrimSpace(text) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		box.Start = buf.Len()
		buf.WriteString(text)
		box.End = buf.Len()
		lines = append(lines, box)
	}

	return Page{
		Text:  model.NewPageText(num, buf.String()),
		Lines: lines,
	}
}

func rowY(frags []pdf.Text) float64 {
	if len(frags) == 0 {
		return 0
	}
	var sum float64
	for _, f := range frags {
		sum += f.Y
	}
	return sum / float64(len(frags))
}

// joinRow concatenates a row's fragments left to right, inserting a space
// wherever the horizontal gap between fragments exceeds a fraction of the
// font size.
func joinRow(frags []pdf.Text) (string, Line) {
	sorted := make([]pdf.Text, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf strings.Builder
	box := Line{X0: sorted[0].X, Y: sorted[0].Y}
	for i, f := range sorted {
		buf.WriteString(f.S)
		if f.FontSize > box.Height {
			box.Height = f.FontSize
		}
		end := f.X + f.W
		if end > box.X1 {
			box.X1 = end
		}
		if i+1 < len(sorted) {
			next := sorted[i+1]
			size := f.FontSize
			if size <= 0 {
				size = 12
			}
			if next.X-end > size*0.2 {
				buf.WriteString(" ")
			}
		}
	}
	if box.Height <= 0 {
		box.Height = 12
	}
	return buf.String(), box
}
