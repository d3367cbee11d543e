package vitibrasil

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"vitibrasil/internal/crawler"
)

type Job struct {
	Selection crawler.Selection
	Year      int
}

type WarmResult struct {
	Job    Job
	Source Source
	Rows   int
	Err    error
}

// Jobs monta a lista de buscas para as seleções e o intervalo de anos.
func Jobs(sels []crawler.Selection, from, to int) []Job {
	var jobs []Job
	for _, sel := range sels {
		for y := from; y <= to; y++ {
			jobs = append(jobs, Job{Selection: sel, Year: y})
		}
	}
	return jobs
}

// Warm executa as buscas com um pool de workers para popular os snapshots.
// Cada worker espera delay entre requisições para não sobrecarregar o site.
func (s *Service) Warm(ctx context.Context, jobs []Job, workers int, delay time.Duration) []WarmResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]WarmResult, len(jobs))
	idx := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				results[i] = s.warmOne(ctx, jobs[i])
				if delay > 0 {
					select {
					case <-ctx.Done():
					case <-time.After(delay):
					}
				}
			}
		}()
	}

	for i := range jobs {
		if ctx.Err() != nil {
			results[i] = WarmResult{Job: jobs[i], Err: ctx.Err()}
			continue
		}
		idx <- i
	}
	close(idx)
	wg.Wait()

	return results
}

func (s *Service) warmOne(ctx context.Context, job Job) WarmResult {
	res, err := s.Get(ctx, job.Selection, job.Year)
	if err != nil {
		zap.L().Warn("falha ao aquecer snapshot",
			zap.String("aba", job.Selection.Section),
			zap.String("sub_aba", job.Selection.Subsection),
			zap.Int("ano", job.Year),
			zap.Error(err),
		)
		return WarmResult{Job: job, Err: err}
	}
	return WarmResult{Job: job, Source: res.Source, Rows: res.Table.Len()}
}
