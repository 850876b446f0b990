// Package pipeline drives a full highlighting run: extract page text, obtain
// candidate quotes, locate each quote on its page, write highlight
// annotations and assemble the run report.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"quotemark/internal/annotate"
	"quotemark/internal/cache"
	"quotemark/internal/extract"
	"quotemark/internal/llm"
	"quotemark/internal/match"
	"quotemark/internal/model"
	"quotemark/internal/worker"
)

// Options are the per-run inputs.
type Options struct {
	InputPDF  string
	OutputPDF string // empty skips writing the annotated copy

	// CandidatesFile, when set, supplies candidates from a JSON file
	// instead of an LLM provider.
	CandidatesFile string
}

// Pipeline wires the extraction, matching and annotation stages together
// under one configuration. A Pipeline is safe for sequential reuse across
// documents.
type Pipeline struct {
	cfg      *model.Config
	provider llm.Provider
	store    cache.Cache
	limiter  *worker.Limiter
	locator  *match.Locator
}

// New builds a pipeline from configuration. The LLM provider is optional;
// without one every run must supply a candidates file.
func New(cfg *model.Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		mem := cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		if cfg.Cache.Dir != "" {
			store = cache.NewLayeredCache(mem, cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL))
		} else {
			store = mem
		}
	}

	var limiter *worker.Limiter
	if cfg.LLM.RateLimit > 0 {
		limiter = worker.NewLimiter(cfg.LLM.RateLimit, 0)
	}

	return &Pipeline{
		cfg:      cfg,
		provider: provider,
		store:    store,
		limiter:  limiter,
		locator:  match.NewLocator(cfg.Match),
	}, nil
}

// Run processes one document end to end and returns its report. The report
// is returned even when some candidates fail to match; only document-level
// failures (unreadable PDF, no candidate source) produce an error.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*model.Report, error) {
	report := &model.Report{
		InputPDF:    opts.InputPDF,
		ProcessedAt: time.Now().UTC(),
	}

	ex, err := extract.Open(opts.InputPDF)
	if err != nil {
		return nil, err
	}
	defer ex.Close()

	pages, err := ex.Pages()
	if err != nil {
		return nil, err
	}
	report.PageCount = len(pages)

	candidates, err := p.gather(ctx, opts, report, pages)
	if err != nil {
		return nil, err
	}

	report.Outcomes = p.locateAll(candidates, pages)
	report.Summarize()

	if opts.OutputPDF != "" {
		if err := p.annotateMatches(opts.InputPDF, opts.OutputPDF, report, pages); err != nil {
			return report, err
		}
	}
	return report, nil
}

// gather produces the candidate list, either from a file or from the LLM
// provider, and applies the global candidate cap.
func (p *Pipeline) gather(ctx context.Context, opts Options, report *model.Report, pages []extract.Page) ([]model.Candidate, error) {
	var candidates []model.Candidate

	switch {
	case opts.CandidatesFile != "":
		loaded, err := LoadCandidates(opts.CandidatesFile)
		if err != nil {
			return nil, err
		}
		candidates = loaded

	case p.provider != nil:
		texts := make([]model.PageText, len(pages))
		for i, pg := range pages {
			texts[i] = pg.Text
		}

		var extracted []model.Candidate
		var cached int
		// One call over the whole document when it fits the context
		// budget; past the budget, fall back to per-page extraction.
		if p.cfg.LLM.FullContext && documentChars(texts) <= p.cfg.LLM.MaxContextChars {
			docCandidates, hit, err := p.extractDocument(ctx, texts)
			if err != nil {
				return nil, fmt.Errorf("candidate extraction failed: %w", err)
			}
			extracted = docCandidates
			if hit {
				cached = len(texts)
			}
		} else {
			perPage, hits, errs := p.extractAll(texts)
			if len(perPage) == 0 && len(errs) > 0 {
				return nil, fmt.Errorf("candidate extraction failed: %w", errs[0])
			}
			extracted, cached = perPage, hits
		}

		candidates = extracted
		report.LLM = &model.LLMInfo{
			Provider: p.provider.Name(),
			Model:    p.cfg.LLM.Model,
			Cached:   cached,
		}

	default:
		return nil, fmt.Errorf("no candidate source: configure an LLM provider or pass a candidates file")
	}

	if max := p.cfg.LLM.MaxTotal; max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates, nil
}

// locateJob matches one candidate against its page.
type locateJob struct {
	index   int
	cand    model.Candidate
	page    model.PageText
	locator *match.Locator
}

type locateResult struct {
	index  int
	result model.MatchResult
}

func (r *locateResult) GetError() error { return nil }

func (j *locateJob) Execute(ctx context.Context) worker.Result {
	return &locateResult{index: j.index, result: j.locator.Locate(j.cand, j.page)}
}

// locateAll matches every candidate concurrently. Outcomes come back in
// candidate input order regardless of worker completion order, and a
// candidate whose page number is out of range is reported as such rather
// than coerced onto another page.
func (p *Pipeline) locateAll(candidates []model.Candidate, pages []extract.Page) []model.Outcome {
	outcomes := make([]model.Outcome, len(candidates))

	pool := worker.NewPool(p.cfg.Concurrency.Workers)
	pool.Start()

	for i, c := range candidates {
		outcomes[i].Candidate = c
		if c.Page < 1 || c.Page > len(pages) {
			outcomes[i].Result = model.NotFound(model.ReasonPageRange)
			continue
		}
		pool.Submit(&locateJob{
			index:   i,
			cand:    c,
			page:    pages[c.Page-1].Text,
			locator: p.locator,
		})
	}

	for _, r := range pool.Wait() {
		res := r.(*locateResult)
		outcomes[res.index].Result = res.result
		if res.result.Found {
			o := &outcomes[res.index]
			o.Snippet = pages[o.Candidate.Page-1].Text.Raw[res.result.Start:res.result.End]
		}
	}
	return outcomes
}

// annotateMatches writes highlight annotations for every located quote.
// Matches on pages extracted without geometry produce no regions and are
// skipped; if nothing at all can be drawn the annotated copy is not written
// and the report alone stands.
func (p *Pipeline) annotateMatches(inPath, outPath string, report *model.Report, pages []extract.Page) error {
	var highlights []annotate.Highlight
	for _, o := range report.Outcomes {
		if !o.Result.Found {
			continue
		}
		regions := annotate.SpanRegions(pages[o.Candidate.Page-1], o.Result.Start, o.Result.End)
		if len(regions) == 0 {
			continue
		}
		note := o.Candidate.Label
		if note == "" {
			note = o.Candidate.Quote
		}
		highlights = append(highlights, annotate.Highlight{
			Page:    o.Candidate.Page,
			Regions: regions,
			Note:    note,
		})
	}

	if len(highlights) == 0 {
		return nil
	}

	if err := annotate.Apply(inPath, outPath, highlights); err != nil {
		return fmt.Errorf("annotate %s: %w", outPath, err)
	}
	report.OutputPDF = outPath
	return nil
}
