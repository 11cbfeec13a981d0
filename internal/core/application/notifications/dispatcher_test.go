package notifications_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"freight/internal/core/application/notifications"
	"freight/internal/core/domain/model/edi"
	"freight/internal/core/domain/model/workflow"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockEDIService struct{ mock.Mock }

func (m *MockEDIService) GenerateEDI204(ctx context.Context, f edi.Fields, partnerID string) (edi.Message, error) {
	args := m.Called(ctx, f, partnerID)
	return args.Get(0).(edi.Message), args.Error(1)
}

func (m *MockEDIService) GenerateEDI214(ctx context.Context, f edi.Fields, partnerID string) (edi.Message, error) {
	args := m.Called(ctx, f, partnerID)
	return args.Get(0).(edi.Message), args.Error(1)
}

func (m *MockEDIService) Send(ctx context.Context, messageID string) error {
	return m.Called(ctx, messageID).Error(0)
}

func (m *MockEDIService) GetTradingPartner(ctx context.Context, partnerID string) (edi.Partner, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(edi.Partner), args.Error(1)
}

type MockLoadDirectory struct{ mock.Mock }

func (m *MockLoadDirectory) GetLoad(ctx context.Context, loadID string) (ports.LoadDetails, error) {
	args := m.Called(ctx, loadID)
	return args.Get(0).(ports.LoadDetails), args.Error(1)
}

var occurredAt = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func newDispatcher(t *testing.T, n ports.Notifier, e ports.EDIService, l ports.LoadDirectory) *notifications.Dispatcher {
	t.Helper()
	d, err := notifications.NewDispatcher(n, e, l,
		notifications.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		notifications.WithRetryPolicy(retry.Policy{MaxRetries: 1, InitialInterval: time.Millisecond}),
	)
	require.NoError(t, err)
	return d
}

func event(t *testing.T, kind workflow.StepKind, data workflow.StepData) workflow.Event {
	t.Helper()
	w, err := workflow.NewLoadWorkflow("L1", "D1", "DP1", occurredAt)
	require.NoError(t, err)
	return workflow.Event{
		Type:       workflow.EventForStep(kind),
		Step:       kind,
		Actor:      "D1",
		Data:       data,
		OccurredAt: occurredAt,
		Workflow:   w.Snapshot(),
	}
}

func details() ports.LoadDetails {
	return ports.LoadDetails{
		LoadID:      "L1",
		BrokerID:    "B1",
		PartnerIDs:  []string{"P1", "P2"},
		Shipper:     "Acme Foods",
		Consignee:   "Big Box DC",
		Origin:      "Dallas, TX",
		Destination: "Memphis, TN",
		BOLNumber:   "BOL-77",
	}
}

func TestDispatcher_NotifiesDispatcherAndBroker(t *testing.T) {
	notifier := new(MockNotifier)
	loads := new(MockLoadDirectory)
	ediSvc := new(MockEDIService)
	loads.On("GetLoad", mock.Anything, "L1").Return(details(), nil).Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Role == ports.RoleDispatcher && n.RecipientID == "DP1" && n.Event == workflow.EventBOLReceived &&
			n.StepID == "bol_receipt_confirmation"
	})).Return(nil).Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Role == ports.RoleBroker && n.RecipientID == "B1"
	})).Return(nil).Once()

	err := newDispatcher(t, notifier, ediSvc, loads).Dispatch(t.Context(), event(t, workflow.BOLReceiptConfirmation, nil))

	require.NoError(t, err)
	notifier.AssertExpectations(t)
	ediSvc.AssertNotCalled(t, "GetTradingPartner", mock.Anything, mock.Anything)
}

func TestDispatcher_SendsEDI214ToSupportingPartners(t *testing.T) {
	notifier := new(MockNotifier)
	loads := new(MockLoadDirectory)
	ediSvc := new(MockEDIService)
	loads.On("GetLoad", mock.Anything, "L1").Return(details(), nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)
	ediSvc.On("GetTradingPartner", mock.Anything, "P1").
		Return(edi.Partner{ID: "P1", Active: true, Transactions: []edi.TransactionCode{edi.Tx214}}, nil).Once()
	ediSvc.On("GetTradingPartner", mock.Anything, "P2").
		Return(edi.Partner{ID: "P2", Active: true, Transactions: []edi.TransactionCode{edi.Tx204}}, nil).Once()
	ediSvc.On("GenerateEDI214", mock.Anything, mock.MatchedBy(func(f edi.Fields) bool {
		return f[edi.FieldStatusCode] == "AF" && f[edi.FieldSealNumber] == "S-9" &&
			f[edi.FieldLocation] == "Dallas, TX" && f[edi.FieldStatusTime] == "2026-03-04T10:00:00Z"
	}), "P1").Return(edi.Message{ID: "m1"}, nil).Once()
	ediSvc.On("Send", mock.Anything, "m1").Return(nil).Once()

	err := newDispatcher(t, notifier, ediSvc, loads).
		Dispatch(t.Context(), event(t, workflow.PickupCompletion, workflow.StepData{"sealNumber": "S-9"}))

	require.NoError(t, err)
	ediSvc.AssertExpectations(t)
	ediSvc.AssertNotCalled(t, "GenerateEDI214", mock.Anything, mock.Anything, "P2")
}

func TestDispatcher_SendsEDI204OnRateConfirmation(t *testing.T) {
	notifier := new(MockNotifier)
	loads := new(MockLoadDirectory)
	ediSvc := new(MockEDIService)
	d := details()
	d.PartnerIDs = []string{"P1"}
	loads.On("GetLoad", mock.Anything, "L1").Return(d, nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)
	ediSvc.On("GetTradingPartner", mock.Anything, "P1").
		Return(edi.Partner{ID: "P1", Active: true, Transactions: []edi.TransactionCode{edi.Tx204, edi.Tx214}}, nil).Once()
	ediSvc.On("GenerateEDI204", mock.Anything, mock.MatchedBy(func(f edi.Fields) bool {
		return f[edi.FieldShipper] == "Acme Foods" && f[edi.FieldDestination] == "Memphis, TN"
	}), "P1").Return(edi.Message{ID: "m204"}, nil).Once()
	ediSvc.On("Send", mock.Anything, "m204").Return(nil).Once()

	err := newDispatcher(t, notifier, ediSvc, loads).Dispatch(t.Context(), event(t, workflow.RateConfirmationVerification, nil))

	require.NoError(t, err)
	ediSvc.AssertExpectations(t)
}

func TestDispatcher_MissingFieldFailsOnlyThatMessage(t *testing.T) {
	notifier := new(MockNotifier)
	loads := new(MockLoadDirectory)
	ediSvc := new(MockEDIService)
	d := details()
	d.BOLNumber = ""
	d.PartnerIDs = []string{"P1"}
	loads.On("GetLoad", mock.Anything, "L1").Return(d, nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Twice()
	ediSvc.On("GetTradingPartner", mock.Anything, "P1").
		Return(edi.Partner{ID: "P1", Active: true, Transactions: []edi.TransactionCode{edi.Tx214}}, nil).Once()

	err := newDispatcher(t, notifier, ediSvc, loads).Dispatch(t.Context(), event(t, workflow.DeliveryArrival, nil))

	require.ErrorIs(t, err, notifications.ErrMissingEDIFields)
	assert.Contains(t, err.Error(), edi.FieldBOLNumber)
	notifier.AssertExpectations(t)
	ediSvc.AssertNotCalled(t, "GenerateEDI214", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_UnknownPartnerIsSkipped(t *testing.T) {
	notifier := new(MockNotifier)
	loads := new(MockLoadDirectory)
	ediSvc := new(MockEDIService)
	d := details()
	d.PartnerIDs = []string{"ghost"}
	loads.On("GetLoad", mock.Anything, "L1").Return(d, nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)
	ediSvc.On("GetTradingPartner", mock.Anything, "ghost").
		Return(edi.Partner{}, errs.NewObjectNotFoundError("partner", "ghost")).Once()

	err := newDispatcher(t, notifier, ediSvc, loads).Dispatch(t.Context(), event(t, workflow.DeliveryCompletion, nil))

	require.NoError(t, err)
	ediSvc.AssertExpectations(t)
}

func TestDispatcher_FailuresAreRetriedAndReported(t *testing.T) {
	notifier := new(MockNotifier)
	loads := new(MockLoadDirectory)
	ediSvc := new(MockEDIService)
	d := details()
	d.PartnerIDs = []string{"P1"}
	loads.On("GetLoad", mock.Anything, "L1").Return(d, nil).Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Role == ports.RoleDispatcher
	})).Return(errors.New("pubsub down")).Twice()
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()
	ediSvc.On("GetTradingPartner", mock.Anything, "P1").
		Return(edi.Partner{ID: "P1", Active: true, Transactions: []edi.TransactionCode{edi.Tx214}}, nil).Once()
	ediSvc.On("GenerateEDI214", mock.Anything, mock.Anything, "P1").Return(edi.Message{ID: "m1"}, nil).Once()
	ediSvc.On("Send", mock.Anything, "m1").Return(errors.New("van timeout")).Once()
	ediSvc.On("Send", mock.Anything, "m1").Return(nil).Once()

	err := newDispatcher(t, notifier, ediSvc, loads).Dispatch(t.Context(), event(t, workflow.TransitStart, nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pubsub down")
	assert.NotContains(t, err.Error(), "van timeout")
	notifier.AssertExpectations(t)
	ediSvc.AssertExpectations(t)
}

func TestDispatcher_WithoutLoadDetails(t *testing.T) {
	notifier := new(MockNotifier)
	loads := new(MockLoadDirectory)
	ediSvc := new(MockEDIService)
	loads.On("GetLoad", mock.Anything, "L1").Return(ports.LoadDetails{}, errs.NewObjectNotFoundError("load", "L1")).Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Role == ports.RoleDispatcher
	})).Return(nil).Once()

	err := newDispatcher(t, notifier, ediSvc, loads).Dispatch(t.Context(), event(t, workflow.DeliveryCompletion, nil))

	require.NoError(t, err)
	notifier.AssertExpectations(t)
	ediSvc.AssertNotCalled(t, "GetTradingPartner", mock.Anything, mock.Anything)
}

func TestNewDispatcher_RequiresNotifier(t *testing.T) {
	_, err := notifications.NewDispatcher(nil, nil, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
