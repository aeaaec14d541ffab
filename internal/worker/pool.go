// Package worker implements the bounded-concurrency extraction pool with
// checkpointed resume.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ppiankov/lineage/internal/checkpoint"
	"github.com/ppiankov/lineage/internal/model"
	"go.uber.org/zap"
)

// Extractor produces a finished record for one MP stub. Implemented by
// pipeline.Pipeline; tests substitute fakes.
type Extractor interface {
	ExtractRelations(ctx context.Context, mp model.MP) (model.MPRecord, error)
}

// Flusher persists the accumulated results. Implemented by
// checkpoint.Store via SaveResults.
type Flusher interface {
	SaveResults(records []model.MPRecord) error
}

// Pool drains a fixed list of MP stubs with a bounded number of
// concurrent workers. Stubs whose id is already in the result set are
// skipped without any network or oracle call, which is what makes a
// re-run after interruption resume instead of restart.
type Pool struct {
	extractor Extractor
	results   *checkpoint.ResultSet
	flusher   Flusher
	limiter   *Limiter
	workers   int
	logger    *zap.Logger

	done  atomic.Int64
	total atomic.Int64
}

// NewPool creates a pool over the shared result set
func NewPool(extractor Extractor, results *checkpoint.ResultSet, flusher Flusher, workers int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		extractor: extractor,
		results:   results,
		flusher:   flusher,
		workers:   workers,
		logger:    logger,
	}
}

// UseLimiter applies per-domain rate limiting before each extraction
func (p *Pool) UseLimiter(l *Limiter) {
	p.limiter = l
}

// Progress returns processed and total item counts
func (p *Pool) Progress() (done int64, total int64) {
	return p.done.Load(), p.total.Load()
}

// Run drains the stub list and returns the first per-item error observed,
// if any. Items that fail are logged and skipped; they are not in the
// checkpoint, so the next run picks them up again. The result set is
// flushed on every exit path, so completed work survives failures.
func (p *Pool) Run(ctx context.Context, stubs []model.MP) (err error) {
	p.total.Store(int64(len(stubs)))

	defer func() {
		if p.results.Len() == 0 {
			return
		}
		if flushErr := p.flusher.SaveResults(p.results.Records()); flushErr != nil {
			p.logger.Error("checkpoint flush failed", zap.Error(flushErr))
			if err == nil {
				err = flushErr
			}
		}
	}()

	queue := make(chan model.MP, len(stubs))
	for _, mp := range stubs {
		queue <- mp
	}
	close(queue)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	recordErr := func(e error) {
		errMu.Lock()
		defer errMu.Unlock()
		if firstErr == nil {
			firstErr = e
		}
	}

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case mp, ok := <-queue:
					if !ok {
						return
					}
					// Both cases can be ready at once; cancellation wins
					if ctx.Err() != nil {
						return
					}
					if itemErr := p.process(ctx, mp); itemErr != nil {
						recordErr(itemErr)
					}
				}
			}
		}()
	}

	wg.Wait()

	errMu.Lock()
	defer errMu.Unlock()
	if err == nil {
		err = firstErr
	}
	return err
}

func (p *Pool) process(ctx context.Context, mp model.MP) error {
	defer p.done.Add(1)

	if p.results.Has(mp.ID) {
		p.logger.Debug("already processed, skipping",
			zap.Int("id", mp.ID),
			zap.String("name", mp.Name))
		return nil
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, mp.URL); err != nil {
			return err
		}
	}

	record, err := p.extractor.ExtractRelations(ctx, mp)
	if err != nil {
		p.logger.Error("extraction failed",
			zap.Int("id", mp.ID),
			zap.String("name", mp.Name),
			zap.String("url", mp.URL),
			zap.Error(err))
		return err
	}

	if err := p.results.Add(record); err != nil {
		// Cannot happen while each id is enqueued exactly once, but a
		// violated invariant should be loud.
		p.logger.Error("duplicate result", zap.Int("id", mp.ID), zap.Error(err))
		return err
	}

	p.logger.Info("extracted relations",
		zap.Int("id", mp.ID),
		zap.String("name", mp.Name),
		zap.Int("relations", record.RelationCount()))
	return nil
}
