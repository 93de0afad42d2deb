package scrape

import (
	"context"
	"sync"

	"github.com/dtnitsch/lne-nutrition/models"
)

// Job is one category page for a worker to process.
type Job struct {
	Index int
	Page  models.CategoryPage
}

// processCategories processes pages in discovery order. With more than one
// worker the pages are fetched concurrently, but results are still placed
// by discovery index. The first error cancels the remaining work.
func (p *Pipeline) processCategories(ctx context.Context, pages []models.CategoryPage) ([]CategoryResult, error) {
	results := make([]CategoryResult, len(pages))

	if p.cfg.Workers <= 1 || len(pages) <= 1 {
		for i, page := range pages {
			r, err := p.processCategory(ctx, page)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	jobs := make(chan Job, len(pages))

	workerCount := min(p.cfg.Workers, len(pages))
	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					continue
				}
				p.logger.Debug("worker started job", "worker", id, "category", job.Page.Title)
				r, err := p.processCategory(ctx, job.Page)
				if err != nil {
					once.Do(func() {
						firstErr = err
						cancel()
					})
					continue
				}
				results[job.Index] = r
			}
		}(w)
	}

	for i, page := range pages {
		jobs <- Job{Index: i, Page: page}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
