package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-verify-link/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- mocks ---

type mockAuditLog struct{ mock.Mock }

func (m *mockAuditLog) Append(scratchHandle, requesterID string) error {
	return m.Called(scratchHandle, requesterID).Error(0)
}

type mockPairingStore struct{ mock.Mock }

func (m *mockPairingStore) Put(ctx context.Context, p *domain.Pairing) error {
	return m.Called(ctx, p).Error(0)
}

type mockRoleGrantor struct{ mock.Mock }

func (m *mockRoleGrantor) GrantRole(ctx context.Context, requesterID string) error {
	return m.Called(ctx, requesterID).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendDirectMessage(ctx context.Context, requesterID, text string) error {
	return m.Called(ctx, requesterID, text).Error(0)
}

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) PublishVerified(ctx context.Context, p *domain.Pairing) error {
	return m.Called(ctx, p).Error(0)
}

// --- tests ---

func TestOnSuccess_AllEffectsDispatched(t *testing.T) {
	al, ps, rg, nt, ep := &mockAuditLog{}, &mockPairingStore{}, &mockRoleGrantor{}, &mockNotifier{}, &mockEventPublisher{}
	al.On("Append", "scratcher99", "42").Return(nil)
	ps.On("Put", mock.Anything, mock.AnythingOfType("*domain.Pairing")).Return(nil)
	rg.On("GrantRole", mock.Anything, "42").Return(nil)
	nt.On("SendDirectMessage", mock.Anything, "42", mock.Anything).Return(nil)
	ep.On("PublishVerified", mock.Anything, mock.AnythingOfType("*domain.Pairing")).Return(nil)

	NewOutcomes(al, ps, rg, nt, ep).OnSuccess(context.Background(), "scratcher99", "42")

	al.AssertExpectations(t)
	ps.AssertExpectations(t)
	rg.AssertExpectations(t)
	nt.AssertExpectations(t)
	ep.AssertExpectations(t)
}

func TestOnSuccess_PairingRecordFields(t *testing.T) {
	al, ps, rg, nt := &mockAuditLog{}, &mockPairingStore{}, &mockRoleGrantor{}, &mockNotifier{}
	al.On("Append", mock.Anything, mock.Anything).Return(nil)
	rg.On("GrantRole", mock.Anything, mock.Anything).Return(nil)
	nt.On("SendDirectMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var got *domain.Pairing
	ps.On("Put", mock.Anything, mock.AnythingOfType("*domain.Pairing")).
		Run(func(args mock.Arguments) { got, _ = args.Get(1).(*domain.Pairing) }).
		Return(nil)

	NewOutcomes(al, ps, rg, nt, nil).OnSuccess(context.Background(), "scratcher99", "42")

	assert.NotNil(t, got)
	assert.Equal(t, "scratcher99", got.ScratchHandle)
	assert.Equal(t, "42", got.RequesterID)
	assert.NotEmpty(t, got.PairingID)
	assert.False(t, got.VerifiedAt.IsZero())
}

func TestOnSuccess_GrantFailureDoesNotBlockNotification(t *testing.T) {
	al, rg, nt := &mockAuditLog{}, &mockRoleGrantor{}, &mockNotifier{}
	al.On("Append", "scratcher99", "42").Return(nil)
	rg.On("GrantRole", mock.Anything, "42").
		Return(fmt.Errorf("role missing: %w", domain.ErrNotFound))
	nt.On("SendDirectMessage", mock.Anything, "42", mock.Anything).Return(nil)

	NewOutcomes(al, nil, rg, nt, nil).OnSuccess(context.Background(), "scratcher99", "42")

	nt.AssertCalled(t, "SendDirectMessage", mock.Anything, "42", mock.Anything)
}

func TestOnSuccess_AuditFailureDoesNotBlockGrant(t *testing.T) {
	al, rg, nt := &mockAuditLog{}, &mockRoleGrantor{}, &mockNotifier{}
	al.On("Append", "scratcher99", "42").Return(errors.New("disk full"))
	rg.On("GrantRole", mock.Anything, "42").Return(nil)
	nt.On("SendDirectMessage", mock.Anything, "42", mock.Anything).Return(nil)

	NewOutcomes(al, nil, rg, nt, nil).OnSuccess(context.Background(), "scratcher99", "42")

	rg.AssertCalled(t, "GrantRole", mock.Anything, "42")
	nt.AssertCalled(t, "SendDirectMessage", mock.Anything, "42", mock.Anything)
}

func TestOnSuccess_UndeliverableNotificationIsSwallowed(t *testing.T) {
	al, rg, nt := &mockAuditLog{}, &mockRoleGrantor{}, &mockNotifier{}
	al.On("Append", "scratcher99", "42").Return(nil)
	rg.On("GrantRole", mock.Anything, "42").Return(nil)
	nt.On("SendDirectMessage", mock.Anything, "42", mock.Anything).
		Return(fmt.Errorf("dms closed: %w", domain.ErrUndeliverable))

	// Must not panic or propagate; the session resolution already happened.
	NewOutcomes(al, nil, rg, nt, nil).OnSuccess(context.Background(), "scratcher99", "42")
}

func TestOnExpiry_SendsNotificationWithCode(t *testing.T) {
	nt := &mockNotifier{}
	nt.On("SendDirectMessage", mock.Anything, "42", mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Q7X2P9")
	})).Return(nil)

	NewOutcomes(&mockAuditLog{}, nil, &mockRoleGrantor{}, nt, nil).
		OnExpiry(context.Background(), "42", "Q7X2P9")

	nt.AssertExpectations(t)
}

func TestOnExpiry_UndeliverableIsSwallowed(t *testing.T) {
	nt := &mockNotifier{}
	nt.On("SendDirectMessage", mock.Anything, "42", mock.Anything).
		Return(fmt.Errorf("dms closed: %w", domain.ErrUndeliverable))

	NewOutcomes(&mockAuditLog{}, nil, &mockRoleGrantor{}, nt, nil).
		OnExpiry(context.Background(), "42", "Q7X2P9")
}
