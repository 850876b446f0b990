// Package annotate writes highlight annotations into a PDF for located
// quote spans. Byte spans in page text are mapped back onto line bounding
// boxes from extraction, one region per crossed line, then rendered as
// standard text markup highlights so any PDF viewer shows them.
package annotate

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/color"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"quotemark/internal/extract"
)

// Region is an axis-aligned box in PDF user-space coordinates.
type Region struct {
	X0, Y0, X1, Y1 float64
}

// Highlight is one quote's worth of highlight regions on a single page.
type Highlight struct {
	Page    int
	Regions []Region
	Note    string
}

// highlightColor is the usual marker yellow.
var highlightColor = color.SimpleColor{R: 1, G: 0.85, B: 0.1}

// SpanRegions maps a byte span of the page text onto highlight regions, one
// per line the span crosses. Horizontal extent within a line is interpolated
// proportionally from byte positions, which is close enough for highlight
// boxes over mostly monospaced-width runs of body text.
func SpanRegions(page extract.Page, start, end int) []Region {
	var regions []Region
	for _, ln := range page.Lines {
		if ln.End <= start || ln.Start >= end {
			continue
		}
		width := ln.X1 - ln.X0
		span := ln.End - ln.Start
		if span <= 0 || width <= 0 {
			continue
		}

		s, e := start, end
		if s < ln.Start {
			s = ln.Start
		}
		if e > ln.End {
			e = ln.End
		}

		x0 := ln.X0 + width*float64(s-ln.Start)/float64(span)
		x1 := ln.X0 + width*float64(e-ln.Start)/float64(span)

		// Stretch the box from the descender to just above the ascender.
		regions = append(regions, Region{
			X0: x0,
			Y0: ln.Y - 0.25*ln.Height,
			X1: x1,
			Y1: ln.Y + ln.Height,
		})
	}
	return regions
}

// Apply writes all highlights into a copy of the input PDF at outPath.
func Apply(inPath, outPath string, highlights []Highlight) error {
	anns := make(map[int][]model.AnnotationRenderer)
	for _, h := range highlights {
		if len(h.Regions) == 0 {
			continue
		}
		anns[h.Page] = append(anns[h.Page], renderHighlight(h))
	}
	if len(anns) == 0 {
		return fmt.Errorf("no highlight regions to write")
	}

	if err := api.AddAnnotationsMapFile(inPath, outPath, anns, nil, false); err != nil {
		return fmt.Errorf("add annotations: %w", err)
	}
	return nil
}

// renderHighlight builds one pdfcpu highlight annotation covering all of a
// quote's regions. The annotation rect is the union box, the quad points
// carry the per-line boxes.
func renderHighlight(h Highlight) model.AnnotationRenderer {
	union := h.Regions[0]
	quads := make(types.QuadPoints, 0, len(h.Regions))
	for _, r := range h.Regions {
		if r.X0 < union.X0 {
			union.X0 = r.X0
		}
		if r.Y0 < union.Y0 {
			union.Y0 = r.Y0
		}
		if r.X1 > union.X1 {
			union.X1 = r.X1
		}
		if r.Y1 > union.Y1 {
			union.Y1 = r.Y1
		}
		quads = append(quads, *types.NewQuadLiteralForRect(types.NewRectangle(r.X0, r.Y0, r.X1, r.Y1)))
	}

	return model.NewHighlightAnnotation(
		*types.NewRectangle(union.X0, union.Y0, union.X1, union.Y1),
		0,
		h.Note,
		"",
		"",
		0,
		&highlightColor,
		0,
		0,
		0,
		"quotemark",
		nil,
		nil,
		"",
		"",
		quads,
	)
}
