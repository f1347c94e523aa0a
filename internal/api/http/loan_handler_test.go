package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/security"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockLoanService
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) RequestLoan(ctx context.Context, userID, bookID int32) (*domain.Loan, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) IssueLoan(ctx context.Context, userID, bookID int32) (*domain.Loan, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) ConfirmLoan(ctx context.Context, loanID int32) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) ReturnLoan(ctx context.Context, loanID int32) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) GetLoan(ctx context.Context, loanID int32) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) ListLoans(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanService) QRCode(ctx context.Context, loanID int32) ([]byte, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func authedRequest(method, target, body string, claims *security.UserClaims) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	return r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
}

func TestLoanHandler_List(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Student sees only own loans", func(t *testing.T) {
		svc := new(MockLoanService)
		h := &LoanHandler{loanSvc: svc, now: func() time.Time { return now }}

		svc.On("ListLoans", mock.Anything, domain.LoanFilter{UserID: 1}).Return([]domain.Loan{}, nil)

		w := httptest.NewRecorder()
		h.List(w, authedRequest("GET", "/api/loans", "", &security.UserClaims{UserID: 1, Role: domain.RoleStudent}))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertCalled(t, "ListLoans", mock.Anything, domain.LoanFilter{UserID: 1})
	})

	t.Run("Librarian sees all loans with late projection", func(t *testing.T) {
		svc := new(MockLoanService)
		h := &LoanHandler{loanSvc: svc, now: func() time.Time { return now }}

		pastDue := now.Add(-24 * time.Hour)
		svc.On("ListLoans", mock.Anything, domain.LoanFilter{}).Return([]domain.Loan{
			{ID: 1, Status: domain.LoanStatusActive, DueDate: &pastDue},
		}, nil)

		w := httptest.NewRecorder()
		h.List(w, authedRequest("GET", "/api/loans", "", &security.UserClaims{UserID: 9, Role: domain.RoleLibrarian}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"late"`)
	})
}

func TestLoanHandler_Get(t *testing.T) {
	now := time.Now()
	svc := new(MockLoanService)
	h := &LoanHandler{loanSvc: svc, now: func() time.Time { return now }}

	svc.On("GetLoan", mock.Anything, int32(7)).Return(&domain.Loan{ID: 7, UserID: 2, Status: domain.LoanStatusPending}, nil)

	t.Run("Owner can read", func(t *testing.T) {
		r := authedRequest("GET", "/api/loans/7", "", &security.UserClaims{UserID: 2, Role: domain.RoleStudent})
		r = mux.SetURLVars(r, map[string]string{"id": "7"})
		w := httptest.NewRecorder()
		h.Get(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Another student is forbidden", func(t *testing.T) {
		r := authedRequest("GET", "/api/loans/7", "", &security.UserClaims{UserID: 3, Role: domain.RoleStudent})
		r = mux.SetURLVars(r, map[string]string{"id": "7"})
		w := httptest.NewRecorder()
		h.Get(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLoanHandler_Return_Conflict(t *testing.T) {
	svc := new(MockLoanService)
	h := NewLoanHandler(svc)

	svc.On("ReturnLoan", mock.Anything, int32(7)).Return(nil, domain.ErrLoanAlreadyReturned)

	r := authedRequest("PUT", "/api/loans/7/return", "", &security.UserClaims{UserID: 9, Role: domain.RoleLibrarian})
	r = mux.SetURLVars(r, map[string]string{"id": "7"})
	w := httptest.NewRecorder()
	h.Return(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already")
}

func TestLoanHandler_Request(t *testing.T) {
	t.Run("Uses the caller's identity", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc)

		svc.On("RequestLoan", mock.Anything, int32(4), int32(2)).Return(&domain.Loan{ID: 1, UserID: 4, BookID: 2, Status: domain.LoanStatusPending}, nil)

		w := httptest.NewRecorder()
		h.Request(w, authedRequest("POST", "/api/loans", `{"book_id":2}`, &security.UserClaims{UserID: 4, Role: domain.RoleStudent}))

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertCalled(t, "RequestLoan", mock.Anything, int32(4), int32(2))
	})

	t.Run("No copies maps to conflict", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc)

		svc.On("RequestLoan", mock.Anything, int32(4), int32(2)).Return(nil, domain.ErrNoCopiesAvailable)

		w := httptest.NewRecorder()
		h.Request(w, authedRequest("POST", "/api/loans", `{"book_id":2}`, &security.UserClaims{UserID: 4, Role: domain.RoleStudent}))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Missing book id is a bad request", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc)

		w := httptest.NewRecorder()
		h.Request(w, authedRequest("POST", "/api/loans", `{}`, &security.UserClaims{UserID: 4, Role: domain.RoleStudent}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoanHandler_QRCode(t *testing.T) {
	svc := new(MockLoanService)
	h := NewLoanHandler(svc)

	svc.On("QRCode", mock.Anything, int32(7)).Return([]byte{0x89, 'P', 'N', 'G'}, nil)

	r := authedRequest("GET", "/api/loans/7/qrcode", "", &security.UserClaims{UserID: 2, Role: domain.RoleStudent})
	r = mux.SetURLVars(r, map[string]string{"id": "7"})
	w := httptest.NewRecorder()
	h.QRCode(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"qrCode":"data:image/png;base64,`)
	assert.Contains(t, w.Body.String(), `"loanId":7`)
}
