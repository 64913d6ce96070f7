package payment

import (
	"context"

	"tryout-be/internal/assessment"
	"tryout-be/internal/club"

	"github.com/stretchr/testify/mock"
)

// MockAssessmentStore is a mock implementation of assessment.Store
type MockAssessmentStore struct {
	mock.Mock
}

func (m *MockAssessmentStore) Get(ctx context.Context, id uint) (*assessment.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assessment.Assessment), args.Error(1)
}

func (m *MockAssessmentStore) SetPaymentStatus(ctx context.Context, id uint, status assessment.PaymentStatus, sessionRef string) error {
	args := m.Called(ctx, id, status, sessionRef)
	return args.Error(0)
}

func (m *MockAssessmentStore) SetProviderSessionRef(ctx context.Context, id uint, ref string) error {
	args := m.Called(ctx, id, ref)
	return args.Error(0)
}

// MockClubDirectory is a mock implementation of club.Directory
type MockClubDirectory struct {
	mock.Mock
}

func (m *MockClubDirectory) Get(ctx context.Context, id uint) (*club.Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*club.Club), args.Error(1)
}

// MockCheckoutProvider is a mock implementation of CheckoutProvider
type MockCheckoutProvider struct {
	mock.Mock
}

func (m *MockCheckoutProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockCheckoutProvider) RetrieveCheckoutSession(ctx context.Context, providerSessionID string) (CheckoutPaymentStatus, error) {
	args := m.Called(ctx, providerSessionID)
	return args.Get(0).(CheckoutPaymentStatus), args.Error(1)
}
