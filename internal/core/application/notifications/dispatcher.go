// Package notifications turns workflow events into internal notifications
// and outbound EDI messages. Every delivery is best effort: failures are
// logged, counted and returned joined, and never touch workflow state.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"freight/internal/core/domain/model/edi"
	"freight/internal/core/domain/model/workflow"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/metrics"
	"freight/internal/pkg/retry"

	"golang.org/x/sync/errgroup"
)

var ErrMissingEDIFields = errors.New("edi message is missing required fields")

const defaultPartnerConcurrency = 4

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithRetryPolicy bounds each single delivery: one notification or one EDI send.
func WithRetryPolicy(p retry.Policy) Option {
	return func(d *Dispatcher) { d.policy = p }
}

// WithPartnerConcurrency limits how many partners receive EDI at once.
func WithPartnerConcurrency(n int) Option {
	return func(d *Dispatcher) { d.concurrency = n }
}

// Dispatcher implements ports.EventDispatcher.
type Dispatcher struct {
	notifier ports.Notifier
	edi      ports.EDIService
	loads    ports.LoadDirectory

	logger      *slog.Logger
	metrics     *metrics.Metrics
	policy      retry.Policy
	concurrency int
}

// NewDispatcher builds a dispatcher. ediService and loads may be nil, which
// disables EDI and broker notifications.
func NewDispatcher(notifier ports.Notifier, ediService ports.EDIService, loads ports.LoadDirectory, opts ...Option) (*Dispatcher, error) {
	if notifier == nil {
		return nil, errs.NewValueIsRequiredError("notifier")
	}
	d := &Dispatcher{
		notifier:    notifier,
		edi:         ediService,
		loads:       loads,
		logger:      slog.Default(),
		policy:      retry.Policy{MaxRetries: 2, InitialInterval: 100 * time.Millisecond},
		concurrency: defaultPartnerConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metrics == nil {
		d.metrics = metrics.New()
	}
	d.logger = d.logger.With("component", "event_dispatcher")
	return d, nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev workflow.Event) error {
	details, haveDetails := d.loadDetails(ctx, ev.LoadID())

	errList := []error{d.notifyActors(ctx, ev, details)}
	if haveDetails {
		errList = append(errList, d.sendEDI(ctx, ev, details))
	}
	return errors.Join(errList...)
}

func (d *Dispatcher) loadDetails(ctx context.Context, loadID string) (ports.LoadDetails, bool) {
	if d.loads == nil {
		return ports.LoadDetails{LoadID: loadID}, false
	}
	details, err := d.loads.GetLoad(ctx, loadID)
	if err != nil {
		d.logger.WarnContext(ctx, "load details unavailable", "error", err, "load_id", loadID)
		return ports.LoadDetails{LoadID: loadID}, false
	}
	return details, true
}

func (d *Dispatcher) notifyActors(ctx context.Context, ev workflow.Event, details ports.LoadDetails) error {
	recipients := []struct {
		role ports.Role
		id   string
	}{
		{ports.RoleDispatcher, ev.Workflow.DispatcherID},
		{ports.RoleBroker, details.BrokerID},
	}

	var errList []error
	for _, r := range recipients {
		if r.id == "" {
			continue
		}
		n := ports.Notification{
			Role:        r.role,
			RecipientID: r.id,
			Event:       ev.Type,
			LoadID:      ev.LoadID(),
			Status:      ev.Workflow.Status,
			Progress:    ev.Workflow.Progress,
			Actor:       ev.Actor,
			OccurredAt:  ev.OccurredAt,
		}
		if ev.Step != workflow.StepUnknown {
			n.StepID = ev.Step.String()
		}

		err := d.policy.Do(ctx, func(ctx context.Context) error {
			return d.notifier.Notify(ctx, n)
		})
		if err != nil {
			d.logger.ErrorContext(ctx, "notification failed",
				"error", err, "load_id", n.LoadID, "role", string(r.role), "event", string(ev.Type))
			d.metrics.NotificationFailed(string(r.role))
			errList = append(errList, fmt.Errorf("notify %s %s: %w", r.role, r.id, err))
		}
	}
	return errors.Join(errList...)
}

func (d *Dispatcher) sendEDI(ctx context.Context, ev workflow.Event, details ports.LoadDetails) error {
	trigger, ok := edi.TriggerFor(ev.Type)
	if !ok || d.edi == nil || len(details.PartnerIDs) == 0 {
		return nil
	}
	fields := buildFields(trigger, ev, details)

	var (
		g       errgroup.Group
		mu      sync.Mutex
		errList []error
	)
	g.SetLimit(max(d.concurrency, 1))
	for _, partnerID := range details.PartnerIDs {
		g.Go(func() error {
			if err := d.sendToPartner(ctx, partnerID, trigger, fields); err != nil {
				mu.Lock()
				errList = append(errList, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errList...)
}

func (d *Dispatcher) sendToPartner(ctx context.Context, partnerID string, trigger edi.Trigger, fields edi.Fields) error {
	tx := string(trigger.Transaction)
	logger := d.logger.With("load_id", fields[edi.FieldLoadID], "partner_id", partnerID, "transaction", tx)

	partner, err := d.edi.GetTradingPartner(ctx, partnerID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			logger.WarnContext(ctx, "trading partner not registered")
			d.metrics.EDIMessage(tx, metrics.OutcomeSkipped)
			return nil
		}
		logger.ErrorContext(ctx, "trading partner lookup failed", "error", err)
		d.metrics.EDIMessage(tx, metrics.OutcomeFailed)
		return fmt.Errorf("edi %s for %s: %w", tx, partnerID, err)
	}
	if !partner.Supports(trigger.Transaction) {
		d.metrics.EDIMessage(tx, metrics.OutcomeSkipped)
		return nil
	}

	if missing := trigger.Missing(fields); len(missing) > 0 {
		logger.ErrorContext(ctx, "edi message not generated", "missing", missing)
		d.metrics.EDIMessage(tx, metrics.OutcomeMissingData)
		return fmt.Errorf("edi %s for %s: %w: %v", tx, partnerID, ErrMissingEDIFields, missing)
	}

	msg, err := d.generate(ctx, trigger.Transaction, fields, partnerID)
	if err != nil {
		logger.ErrorContext(ctx, "edi generation failed", "error", err)
		d.metrics.EDIMessage(tx, metrics.OutcomeFailed)
		return fmt.Errorf("edi %s for %s: %w", tx, partnerID, err)
	}

	err = d.policy.Do(ctx, func(ctx context.Context) error {
		return d.edi.Send(ctx, msg.ID)
	})
	if err != nil {
		logger.ErrorContext(ctx, "edi send failed", "error", err, "message_id", msg.ID)
		d.metrics.EDIMessage(tx, metrics.OutcomeFailed)
		return fmt.Errorf("edi %s for %s: %w", tx, partnerID, err)
	}

	logger.InfoContext(ctx, "edi message sent", "message_id", msg.ID)
	d.metrics.EDIMessage(tx, metrics.OutcomeSent)
	return nil
}

func (d *Dispatcher) generate(ctx context.Context, code edi.TransactionCode, fields edi.Fields, partnerID string) (edi.Message, error) {
	switch code {
	case edi.Tx204:
		return d.edi.GenerateEDI204(ctx, fields, partnerID)
	case edi.Tx214:
		return d.edi.GenerateEDI214(ctx, fields, partnerID)
	case edi.Tx990:
		return edi.Message{}, fmt.Errorf("no generator for transaction %s", code)
	}
	return edi.Message{}, fmt.Errorf("no generator for transaction %s", code)
}

// buildFields extracts the envelope of trigger from the load and the step data.
func buildFields(trigger edi.Trigger, ev workflow.Event, details ports.LoadDetails) edi.Fields {
	f := edi.Fields{
		edi.FieldLoadID:      ev.LoadID(),
		edi.FieldBOLNumber:   details.BOLNumber,
		edi.FieldShipper:     details.Shipper,
		edi.FieldConsignee:   details.Consignee,
		edi.FieldOrigin:      details.Origin,
		edi.FieldDestination: details.Destination,
	}
	if trigger.Transaction == edi.Tx214 {
		f[edi.FieldStatusCode] = string(trigger.Status)
		f[edi.FieldStatusTime] = ev.OccurredAt.UTC().Format(time.RFC3339)
		f[edi.FieldLocation] = f[trigger.Location]
	}
	if seal, ok := ev.Data.Text("sealNumber"); ok {
		f[edi.FieldSealNumber] = seal
	}
	if receiver, ok := ev.Data.Text("receiverName"); ok {
		f[edi.FieldReceiver] = receiver
	}
	return f
}
