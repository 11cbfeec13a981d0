package engine

import (
	"context"
	"errors"

	"freight/internal/core/domain/model/workflow"
)

// chain runs task in a tracked goroutine once prev, the previous task of the
// same chain, has finished. Callers hold the entry mutex so chain order
// follows mutation order.
func (e *Engine) chain(prev chan struct{}, task func()) chan struct{} {
	done := make(chan struct{})
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}
		task()
	}()
	return done
}

// persist schedules a repository write. en.mu must be held.
func (e *Engine) persist(en *entry, operation string, write func(context.Context) error) {
	en.persistTail = e.chain(en.persistTail, func() {
		err := e.persistPolicy.Do(e.ctx, write)
		if err == nil {
			return
		}
		e.logger.ErrorContext(e.ctx, "workflow persistence failed",
			"error", err, "load_id", en.loadID, "operation", operation)
		e.metrics.PersistenceFailed(operation)
		e.markDirty(en)
	})
}

// await runs call behind the pending writes of en and waits for its result.
// The engine lifecycle must be held.
func (e *Engine) await(ctx context.Context, en *entry, call func() error) error {
	result := make(chan error, 1)
	en.mu.Lock()
	en.persistTail = e.chain(en.persistTail, func() {
		result <- call()
	})
	en.mu.Unlock()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// notify schedules the dispatch of event. en.mu must be held.
func (e *Engine) notify(en *entry, event workflow.Event) {
	en.notifyTail = e.chain(en.notifyTail, func() {
		ctx, cancel := context.WithTimeout(e.ctx, e.notifyTimeout)
		defer cancel()
		if err := e.dispatcher.Dispatch(ctx, event); err != nil {
			e.logger.ErrorContext(ctx, "workflow event dispatch failed",
				"error", err, "load_id", en.loadID, "event", string(event.Type))
		}
	})
}

func (e *Engine) markDirty(en *entry) {
	en.mu.Lock()
	defer en.mu.Unlock()
	if en.dirty {
		return
	}
	en.dirty = true
	e.metrics.SetDirtyWorkflows(int(e.dirty.Add(1)))
}

func (e *Engine) clearDirty(en *entry) {
	en.mu.Lock()
	defer en.mu.Unlock()
	if !en.dirty {
		return
	}
	en.dirty = false
	e.metrics.SetDirtyWorkflows(int(e.dirty.Add(-1)))
}

// Reconcile pushes the full snapshot of every dirty workflow to the
// repository and reports how many were brought back in sync. The save is
// chained behind pending writes of the same load.
func (e *Engine) Reconcile(ctx context.Context) (int, error) {
	release, err := e.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	e.mu.RLock()
	candidates := make([]*entry, 0, e.dirty.Load())
	for _, en := range e.entries {
		candidates = append(candidates, en)
	}
	e.mu.RUnlock()

	results := make([]chan error, 0, len(candidates))
	for _, en := range candidates {
		en.mu.Lock()
		if !en.dirty {
			en.mu.Unlock()
			continue
		}
		snap := en.workflow.Snapshot()
		result := make(chan error, 1)
		en.persistTail = e.chain(en.persistTail, func() {
			err := e.persistPolicy.Do(e.ctx, func(ctx context.Context) error {
				return e.repo.SaveWorkflow(ctx, snap)
			})
			if err == nil {
				e.clearDirty(en)
			} else {
				e.metrics.PersistenceFailed("save_workflow")
			}
			result <- err
		})
		en.mu.Unlock()
		results = append(results, result)
	}

	var (
		synced  int
		errList []error
	)
	for _, result := range results {
		select {
		case err := <-result:
			if err != nil {
				errList = append(errList, err)
				continue
			}
			synced++
		case <-ctx.Done():
			return synced, ctx.Err()
		}
	}

	if synced > 0 || len(errList) > 0 {
		e.logger.InfoContext(ctx, "workflows reconciled", "synced", synced, "failed", len(errList))
	}
	return synced, errors.Join(errList...)
}
