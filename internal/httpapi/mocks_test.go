package httpapi

import (
	"context"
	"net/url"

	"github.com/lnanh2k4/zentrix-sub001/internal/b2b"
	"github.com/lnanh2k4/zentrix-sub001/internal/cart"
	"github.com/lnanh2k4/zentrix-sub001/internal/checkout"
	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
	"github.com/lnanh2k4/zentrix-sub001/internal/platform"
	"github.com/lnanh2k4/zentrix-sub001/internal/session"
)

// MockCartService implements CartService for testing
type MockCartService struct {
	CartView    *domain.CartView
	ViewErr     error
	Result      *cart.QuantityResult
	SetErr      error
	SetCalls    []int
	RemoveErr   error
	Removed     []string
	Alternative *domain.BranchStock
}

func (m *MockCartService) View(_ context.Context, _, _ int64) (*domain.CartView, error) {
	return m.CartView, m.ViewErr
}

func (m *MockCartService) SetQuantity(_ context.Context, _, _ int64, _ domain.CartGroup, newQuantity int) (*cart.QuantityResult, error) {
	m.SetCalls = append(m.SetCalls, newQuantity)
	return m.Result, m.SetErr
}

func (m *MockCartService) Remove(_ context.Context, _ int64, group domain.CartGroup) error {
	m.Removed = append(m.Removed, group.GroupKey)
	return m.RemoveErr
}

func (m *MockCartService) SwitchSuggestion(_ context.Context, _ domain.CartGroup, _ int64) *domain.BranchStock {
	return m.Alternative
}

// MockSessionStore implements session.Store for testing
type MockSessionStore struct {
	Branch      *domain.Branch
	BranchErr   error
	SetBranches []domain.Branch
}

func (m *MockSessionStore) SavePendingPayment(_ context.Context, _ int64, _ *session.PendingPayment) error {
	return nil
}

func (m *MockSessionStore) GetPendingPayment(_ context.Context, _ int64) (*session.PendingPayment, error) {
	return nil, session.ErrNoPendingPayment
}

func (m *MockSessionStore) ClearPendingPayment(_ context.Context, _ int64) error {
	return nil
}

func (m *MockSessionStore) SetBranch(_ context.Context, _ int64, branch domain.Branch) error {
	m.SetBranches = append(m.SetBranches, branch)
	return nil
}

func (m *MockSessionStore) GetBranch(_ context.Context, _ int64) (*domain.Branch, error) {
	if m.BranchErr != nil {
		return nil, m.BranchErr
	}
	if m.Branch == nil {
		return nil, session.ErrNoBranchSelected
	}
	return m.Branch, nil
}

// MockCheckoutService implements CheckoutService for testing
type MockCheckoutService struct {
	Submission   *checkout.Submission
	BuildErr     error
	BuiltFrom    []*checkout.Session
	Confirmation *checkout.Confirmation
	SubmitErr    error
	Submitted    []*checkout.Submission
}

func (m *MockCheckoutService) Build(_ context.Context, s *checkout.Session) (*checkout.Submission, error) {
	m.BuiltFrom = append(m.BuiltFrom, s)
	return m.Submission, m.BuildErr
}

func (m *MockCheckoutService) Submit(_ context.Context, sub *checkout.Submission) (*checkout.Confirmation, error) {
	m.Submitted = append(m.Submitted, sub)
	return m.Confirmation, m.SubmitErr
}

// MockPaymentPreparer implements PaymentPreparer for testing
type MockPaymentPreparer struct {
	PayURL   string
	Err      error
	Prepared []platform.Gateway
}

func (m *MockPaymentPreparer) Prepare(_ context.Context, gw platform.Gateway, _ *checkout.Submission) (string, error) {
	m.Prepared = append(m.Prepared, gw)
	return m.PayURL, m.Err
}

// MockPromotionService implements PromotionService for testing
type MockPromotionService struct {
	Promotions []domain.Promotion
	ListErr    error
	ClaimErr   error
	Claimed    []int64
}

func (m *MockPromotionService) ListUsable(_ context.Context, _ int64) ([]domain.Promotion, error) {
	return m.Promotions, m.ListErr
}

func (m *MockPromotionService) Claim(_ context.Context, _, promotionID int64) error {
	m.Claimed = append(m.Claimed, promotionID)
	return m.ClaimErr
}

// MockPromotionLookup implements PromotionLookup for testing
type MockPromotionLookup struct {
	Promotion *domain.Promotion
	Err       error
}

func (m *MockPromotionLookup) Lookup(_ context.Context, _, _ int64) (*domain.Promotion, error) {
	return m.Promotion, m.Err
}

// MockPaymentReconciler implements PaymentReconciler for testing
type MockPaymentReconciler struct {
	Confirmation *checkout.Confirmation
	Err          error
	Reconciled   []platform.Gateway
	Params       []url.Values
}

func (m *MockPaymentReconciler) Reconcile(_ context.Context, _ int64, gw platform.Gateway, params url.Values) (*checkout.Confirmation, error) {
	m.Reconciled = append(m.Reconciled, gw)
	m.Params = append(m.Params, params)
	return m.Confirmation, m.Err
}

// MockB2BService implements B2BService for testing
type MockB2BService struct {
	SubmitErr error
	Submitted []*b2b.Request
	Requests  []b2b.Request
	ListErr   error
}

func (m *MockB2BService) Submit(_ context.Context, req *b2b.Request) error {
	if m.SubmitErr != nil {
		return m.SubmitErr
	}
	req.ID = "req-1"
	m.Submitted = append(m.Submitted, req)
	return nil
}

func (m *MockB2BService) History(_ context.Context, _ int64) ([]b2b.Request, error) {
	return m.Requests, m.ListErr
}
