package ports

import (
	"context"

	"freight/internal/core/domain/model/workflow"
)

// EventDispatcher receives every successful workflow transition. Failures are
// the dispatcher's own business; they never affect the transition.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event workflow.Event) error
}
