package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"quotemark/internal/cache"
	"quotemark/internal/llm"
	"quotemark/internal/model"
	"quotemark/internal/worker"
)

// LoadCandidates reads a candidate set from a JSON file with the same
// {"highlights":[...]} shape the LLM providers produce. Blank quotes are
// dropped, everything else is passed through untouched so callers can
// hand-edit or replay a previous run's candidates.
func LoadCandidates(path string) ([]model.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates %s: %w", path, err)
	}

	var set model.CandidateSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse candidates %s: %w", path, err)
	}

	candidates := make([]model.Candidate, 0, len(set.Highlights))
	for _, c := range set.Highlights {
		if strings.TrimSpace(c.Quote) == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// extractJob asks the provider for one page's candidates, going through the
// response cache and the shared provider rate limiter.
type extractJob struct {
	page      model.PageText
	provider  llm.Provider
	modelName string
	store     cache.Cache
	limiter   *worker.Limiter
	ttl       time.Duration
}

type extractResult struct {
	page       int
	candidates []model.Candidate
	cached     bool
	err        error
}

func (r *extractResult) GetError() error { return r.err }

func (j *extractJob) Execute(ctx context.Context) worker.Result {
	res := &extractResult{page: j.page.Number}
	if j.page.IsEmpty() {
		return res
	}

	var key string
	if j.store != nil {
		key = cache.PageKey(j.provider.Name(), j.modelName, j.page.Raw)
		if data, ok := j.store.Get(key); ok {
			if err := json.Unmarshal(data, &res.candidates); err == nil {
				res.cached = true
				return res
			}
			// Unreadable entry, fall through to a fresh request.
			_ = j.store.Delete(key)
		}
	}

	if j.limiter != nil {
		if err := j.limiter.Wait(ctx, j.provider.Name()); err != nil {
			res.err = err
			return res
		}
	}

	candidates, err := j.provider.ExtractQuotes(ctx, j.page)
	if err != nil {
		res.err = fmt.Errorf("page %d: %w", j.page.Number, err)
		return res
	}
	res.candidates = candidates

	if j.store != nil {
		if data, err := json.Marshal(candidates); err == nil {
			_ = j.store.Set(key, data, j.ttl)
		}
	}
	return res
}

// documentChars is the total extracted text size used against the
// full-context budget.
func documentChars(pages []model.PageText) int {
	total := 0
	for _, pg := range pages {
		total += len(pg.Raw)
	}
	return total
}

// extractDocument asks the provider for the whole document's candidates in
// one call, going through the cache and rate limiter like the per-page path.
// The second return reports whether the response came from cache.
func (p *Pipeline) extractDocument(ctx context.Context, pages []model.PageText) ([]model.Candidate, bool, error) {
	var key string
	if p.store != nil {
		texts := make([]string, len(pages))
		for i, pg := range pages {
			texts[i] = pg.Raw
		}
		key = cache.DocumentKey(p.provider.Name(), p.cfg.LLM.Model, texts)
		if data, ok := p.store.Get(key); ok {
			var candidates []model.Candidate
			if err := json.Unmarshal(data, &candidates); err == nil {
				return candidates, true, nil
			}
			_ = p.store.Delete(key)
		}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
			return nil, false, err
		}
	}

	candidates, err := p.provider.ExtractQuotesDocument(ctx, pages)
	if err != nil {
		return nil, false, fmt.Errorf("document extraction: %w", err)
	}

	if p.store != nil {
		if data, err := json.Marshal(candidates); err == nil {
			_ = p.store.Set(key, data, p.cfg.Cache.TTL)
		}
	}
	return candidates, false, nil
}

// extractAll runs candidate extraction for every page concurrently and
// returns candidates in page order plus the number of cache-served pages.
// Pages that fail are skipped with their errors collected; one bad page
// does not abort the whole document.
func (p *Pipeline) extractAll(pages []model.PageText) ([]model.Candidate, int, []error) {
	pool := worker.NewPool(p.cfg.Concurrency.Workers)
	pool.Start()

	for _, pg := range pages {
		pool.Submit(&extractJob{
			page:      pg,
			provider:  p.provider,
			modelName: p.cfg.LLM.Model,
			store:     p.store,
			limiter:   p.limiter,
			ttl:       p.cfg.Cache.TTL,
		})
	}

	byPage := make(map[int][]model.Candidate)
	cached := 0
	var errs []error
	for _, r := range pool.Wait() {
		res := r.(*extractResult)
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		if res.cached {
			cached++
		}
		byPage[res.page] = append(byPage[res.page], res.candidates...)
	}

	var candidates []model.Candidate
	for _, pg := range pages {
		candidates = append(candidates, byPage[pg.Number]...)
	}
	return candidates, cached, errs
}
