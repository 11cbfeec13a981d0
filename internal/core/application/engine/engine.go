package engine

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"freight/internal/core/domain/model/workflow"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/metrics"
	"freight/internal/pkg/retry"
)

var ErrEngineClosed = errors.New("workflow engine is closed")

// Engine owns the cached workflows of this process.
type Engine struct {
	repo       ports.WorkflowRepository
	dispatcher ports.EventDispatcher
	validator  services.StepValidator
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time

	persistPolicy retry.Policy
	notifyTimeout time.Duration

	mu      sync.RWMutex
	entries map[string]*entry
	dirty   atomic.Int64

	lifecycle sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// entry is one cached workflow. mu is held across guard check, validation
// and mutation, and while side effects are chained.
type entry struct {
	mu          sync.Mutex
	loadID      string
	workflow    *workflow.LoadWorkflow
	dirty       bool
	persistTail chan struct{}
	notifyTail  chan struct{}
}

// New builds an engine. Close must be called to wait for pending side effects.
func New(repo ports.WorkflowRepository, dispatcher ports.EventDispatcher, opts ...Option) (*Engine, error) {
	if repo == nil {
		return nil, errs.NewValueIsRequiredError("repo")
	}
	if dispatcher == nil {
		return nil, errs.NewValueIsRequiredError("dispatcher")
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		repo:       repo,
		dispatcher: dispatcher,
		validator:  services.NewStepValidator(),
		logger:     slog.Default(),
		now:        time.Now,
		persistPolicy: retry.Policy{
			Timeout:         DefaultPersistTimeout,
			MaxRetries:      DefaultMaxRetries,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
		},
		notifyTimeout: DefaultNotifyTimeout,
		entries:       make(map[string]*entry),
		ctx:           ctx,
		cancel:        cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = metrics.New()
	}
	e.logger = e.logger.With("component", "workflow_engine")
	return e, nil
}

// Close stops accepting mutations and waits for in-flight side effects
// until ctx is done.
func (e *Engine) Close(ctx context.Context) error {
	e.lifecycle.Lock()
	e.closed = true
	e.lifecycle.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.cancel()
		return nil
	case <-ctx.Done():
		e.cancel()
		return ctx.Err()
	}
}

// InitializeWorkflow returns the workflow of loadID, creating it from the
// template only when neither the cache nor the repository holds one.
func (e *Engine) InitializeWorkflow(ctx context.Context, loadID, driverID, dispatcherID string) (workflow.Snapshot, error) {
	release, err := e.acquire()
	if err != nil {
		return workflow.Snapshot{}, err
	}
	defer release()

	en, err := e.lookup(ctx, loadID)
	if err == nil {
		return en.snapshot(), nil
	}
	if !errors.Is(err, workflow.ErrWorkflowNotFound) {
		return workflow.Snapshot{}, err
	}

	wf, err := workflow.NewLoadWorkflow(loadID, driverID, dispatcherID, e.now())
	if err != nil {
		return workflow.Snapshot{}, err
	}

	en, created := e.insert(loadID, wf)
	en.mu.Lock()
	defer en.mu.Unlock()

	snap := en.workflow.Snapshot()
	if created {
		e.logger.InfoContext(ctx, "workflow initialized",
			"load_id", loadID, "workflow_id", snap.ID, "driver_id", driverID)
		stored := en.workflow.Snapshot()
		e.persist(en, "create_workflow", func(ctx context.Context) error {
			_, err := e.repo.CreateWorkflow(ctx, stored)
			return err
		})
	}
	return snap, nil
}

// CanCompleteStep runs the ordering guard without mutating anything.
func (e *Engine) CanCompleteStep(ctx context.Context, loadID, stepID string) error {
	en, kind, err := e.resolve(ctx, loadID, stepID)
	if err != nil {
		return err
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.workflow.CanCompleteStep(kind)
}

// CompleteStep guards, validates and records the completion of stepID, then
// schedules persistence and the step's event.
func (e *Engine) CompleteStep(
	ctx context.Context,
	loadID, stepID string,
	data workflow.StepData,
	completedBy string,
) (workflow.Snapshot, error) {
	release, err := e.acquire()
	if err != nil {
		return workflow.Snapshot{}, err
	}
	defer release()

	en, kind, err := e.resolve(ctx, loadID, stepID)
	if err != nil {
		return workflow.Snapshot{}, err
	}

	en.mu.Lock()
	defer en.mu.Unlock()

	wf := en.workflow
	if err := wf.CanCompleteStep(kind); err != nil {
		return workflow.Snapshot{}, err
	}
	if err := e.validator.Validate(kind, data).Err(kind); err != nil {
		return workflow.Snapshot{}, err
	}

	now := e.now()
	if err := wf.CompleteStep(kind, data, completedBy, now); err != nil {
		return workflow.Snapshot{}, err
	}

	step, _ := wf.Step(kind)
	snap := wf.Snapshot()
	e.metrics.StepCompleted(kind.String())
	e.logger.InfoContext(ctx, "step completed",
		"load_id", loadID, "step", kind.String(), "completed_by", completedBy,
		"status", snap.Status.String(), "progress", snap.Progress)

	e.persist(en, "complete_step", func(ctx context.Context) error {
		return e.repo.CompleteStep(ctx, loadID, step)
	})
	e.notify(en, workflow.Event{
		Type:       workflow.EventForStep(kind),
		Step:       kind,
		Actor:      completedBy,
		Data:       step.Data.Clone(),
		OccurredAt: now,
		Workflow:   wf.Snapshot(),
	})
	return snap, nil
}

// RequestOverride opens an override request; the workflow becomes
// override_required until it is approved or rejected.
func (e *Engine) RequestOverride(ctx context.Context, loadID, stepID, reason, requestedBy string) (workflow.Snapshot, error) {
	return e.mutate(ctx, loadID, stepID, requestedBy, workflow.EventOverrideRequested,
		func(wf *workflow.LoadWorkflow, kind workflow.StepKind, now time.Time) (func(context.Context) error, error) {
			if err := wf.RequestOverride(kind, reason, requestedBy, now); err != nil {
				return nil, err
			}
			req := *wf.PendingOverride()
			return func(ctx context.Context) error {
				return e.repo.RequestOverride(ctx, loadID, req)
			}, nil
		})
}

// ApproveOverride signs off a pending override request.
func (e *Engine) ApproveOverride(ctx context.Context, loadID, stepID, approver string) (workflow.Snapshot, error) {
	return e.mutate(ctx, loadID, stepID, approver, workflow.EventOverrideApproved,
		func(wf *workflow.LoadWorkflow, kind workflow.StepKind, now time.Time) (func(context.Context) error, error) {
			if err := wf.ApproveOverride(kind, approver, now); err != nil {
				return nil, err
			}
			req := *wf.PendingOverride()
			return func(ctx context.Context) error {
				return e.repo.ApproveOverride(ctx, loadID, req)
			}, nil
		})
}

// RejectOverride drops a pending override request.
func (e *Engine) RejectOverride(ctx context.Context, loadID, stepID, rejectedBy string) (workflow.Snapshot, error) {
	return e.mutate(ctx, loadID, stepID, rejectedBy, workflow.EventOverrideRejected,
		func(wf *workflow.LoadWorkflow, kind workflow.StepKind, now time.Time) (func(context.Context) error, error) {
			if err := wf.RejectOverride(kind, rejectedBy, now); err != nil {
				return nil, err
			}
			return func(ctx context.Context) error {
				return e.repo.RejectOverride(ctx, loadID, kind, rejectedBy)
			}, nil
		})
}

type mutation func(wf *workflow.LoadWorkflow, kind workflow.StepKind, now time.Time) (func(context.Context) error, error)

func (e *Engine) mutate(
	ctx context.Context,
	loadID, stepID, actor string,
	event workflow.EventType,
	apply mutation,
) (workflow.Snapshot, error) {
	release, err := e.acquire()
	if err != nil {
		return workflow.Snapshot{}, err
	}
	defer release()

	en, kind, err := e.resolve(ctx, loadID, stepID)
	if err != nil {
		return workflow.Snapshot{}, err
	}

	en.mu.Lock()
	defer en.mu.Unlock()

	now := e.now()
	write, err := apply(en.workflow, kind, now)
	if err != nil {
		return workflow.Snapshot{}, err
	}

	snap := en.workflow.Snapshot()
	e.logger.InfoContext(ctx, "workflow override updated",
		"load_id", loadID, "step", kind.String(), "event", string(event), "actor", actor,
		"status", snap.Status.String())

	e.persist(en, string(event), write)
	e.notify(en, workflow.Event{
		Type:       event,
		Step:       kind,
		Actor:      actor,
		OccurredAt: now,
		Workflow:   en.workflow.Snapshot(),
	})
	return snap, nil
}

// UploadStepDocument attaches a document reference to a step. The write is
// queued behind pending writes of the same load and awaited, since the
// caller needs its outcome.
func (e *Engine) UploadStepDocument(
	ctx context.Context,
	loadID, stepID, fileURL, fileType, uploadedBy string,
	metadata workflow.StepData,
) (workflow.StepDocument, error) {
	release, err := e.acquire()
	if err != nil {
		return workflow.StepDocument{}, err
	}
	defer release()

	en, kind, err := e.resolve(ctx, loadID, stepID)
	if err != nil {
		return workflow.StepDocument{}, err
	}

	doc, err := workflow.NewStepDocument(loadID, kind, fileURL, fileType, uploadedBy, metadata, e.now())
	if err != nil {
		return workflow.StepDocument{}, err
	}

	err = e.await(ctx, en, func() error {
		return e.repo.UploadStepDocument(ctx, doc)
	})
	if err != nil {
		e.metrics.PersistenceFailed("upload_step_document")
		return workflow.StepDocument{}, fmt.Errorf("upload document for %s/%s: %w", loadID, stepID, err)
	}
	return doc, nil
}

// GetWorkflowActions returns the audit trail held by the repository. For a
// cached workflow the read waits for the load's queued writes first.
func (e *Engine) GetWorkflowActions(ctx context.Context, loadID string) ([]workflow.Action, error) {
	release, err := e.acquire()
	if err != nil {
		return e.repo.GetWorkflowActions(ctx, loadID)
	}
	defer release()

	e.mu.RLock()
	en := e.entries[loadID]
	e.mu.RUnlock()
	if en == nil {
		return e.repo.GetWorkflowActions(ctx, loadID)
	}

	var actions []workflow.Action
	err = e.await(ctx, en, func() error {
		var err error
		actions, err = e.repo.GetWorkflowActions(ctx, loadID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return actions, nil
}

// GetDriverWorkflows lists a driver's workflows, preferring the cached copy
// of each and including cached workflows not yet stored.
func (e *Engine) GetDriverWorkflows(ctx context.Context, driverID string) ([]workflow.Snapshot, error) {
	stored, err := e.repo.GetDriverWorkflows(ctx, driverID)
	if err != nil {
		return nil, err
	}

	byLoad := make(map[string]workflow.Snapshot, len(stored))
	for _, wf := range stored {
		byLoad[wf.LoadID()] = wf.Snapshot()
	}

	e.mu.RLock()
	cached := make([]*entry, 0, len(e.entries))
	for _, en := range e.entries {
		cached = append(cached, en)
	}
	e.mu.RUnlock()

	for _, en := range cached {
		en.mu.Lock()
		if en.workflow.DriverID() == driverID {
			byLoad[en.loadID] = en.workflow.Snapshot()
		}
		en.mu.Unlock()
	}

	out := make([]workflow.Snapshot, 0, len(byLoad))
	for _, s := range byLoad {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b workflow.Snapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.LoadID, b.LoadID)
	})
	return out, nil
}

// DirtyCount is the number of cached workflows awaiting reconciliation.
func (e *Engine) DirtyCount() int {
	return int(e.dirty.Load())
}

func (e *Engine) acquire() (func(), error) {
	e.lifecycle.RLock()
	if e.closed {
		e.lifecycle.RUnlock()
		return nil, ErrEngineClosed
	}
	return e.lifecycle.RUnlock, nil
}

// lookup returns the cached entry of loadID, loading it from the repository
// on a miss.
func (e *Engine) lookup(ctx context.Context, loadID string) (*entry, error) {
	e.mu.RLock()
	en := e.entries[loadID]
	e.mu.RUnlock()
	if en != nil {
		return en, nil
	}

	wf, err := e.repo.GetWorkflow(ctx, loadID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, workflow.NewWorkflowNotFoundError(loadID)
		}
		return nil, fmt.Errorf("load workflow %s: %w", loadID, err)
	}
	if wf == nil {
		return nil, workflow.NewWorkflowNotFoundError(loadID)
	}

	en, _ = e.insert(loadID, wf)
	return en, nil
}

// resolve applies the first two guards: the workflow exists, then the step does.
func (e *Engine) resolve(ctx context.Context, loadID, stepID string) (*entry, workflow.StepKind, error) {
	en, err := e.lookup(ctx, loadID)
	if err != nil {
		return nil, workflow.StepUnknown, err
	}
	kind, err := workflow.ParseStepKind(stepID)
	if err != nil {
		return nil, workflow.StepUnknown, &workflow.StepNotFoundError{StepID: stepID}
	}
	return en, kind, nil
}

// insert caches wf unless another caller got there first.
func (e *Engine) insert(loadID string, wf *workflow.LoadWorkflow) (*entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if en, ok := e.entries[loadID]; ok {
		return en, false
	}
	en := &entry{loadID: loadID, workflow: wf}
	e.entries[loadID] = en
	return en, true
}

func (en *entry) snapshot() workflow.Snapshot {
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.workflow.Snapshot()
}
