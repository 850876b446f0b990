package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"quotemark/internal/model"
)

// WriteReportJSON writes the full report as indented JSON.
func WriteReportJSON(path string, report *model.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints a human-readable run summary. With verbose set it
// also lists every candidate with its outcome.
func RenderSummary(w io.Writer, report *model.Report, verbose bool) {
	s := report.Summary
	fmt.Fprintf(w, "%s: %d pages, %d candidates\n", report.InputPDF, report.PageCount, s.Total)
	fmt.Fprintf(w, "  matched   %d (exact %d, chunk %d, fuzzy %d)\n", s.Matched, s.Exact, s.Chunk, s.Fuzzy)
	fmt.Fprintf(w, "  unmatched %d\n", s.Unmatched)
	if s.Invalid > 0 {
		fmt.Fprintf(w, "  invalid   %d\n", s.Invalid)
	}
	if report.LLM != nil {
		fmt.Fprintf(w, "  llm: %s/%s", report.LLM.Provider, report.LLM.Model)
		if report.LLM.Cached > 0 {
			fmt.Fprintf(w, " (%d pages cached)", report.LLM.Cached)
		}
		fmt.Fprintln(w)
	}
	if report.OutputPDF != "" {
		fmt.Fprintf(w, "  wrote %s\n", report.OutputPDF)
	}

	if !verbose {
		return
	}
	for _, o := range report.Outcomes {
		status := "miss"
		if o.Result.Found {
			status = fmt.Sprintf("%s %.2f", o.Result.Method, o.Result.Score)
		} else if o.Result.Reason != "" {
			status = string(o.Result.Reason)
		}
		fmt.Fprintf(w, "  p%-3d [%-10s] %-40.40q %s\n", o.Candidate.Page, o.Candidate.Label, o.Candidate.Quote, status)
	}
}
