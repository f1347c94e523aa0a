package service

import (
	"context"
	"time"

	"libraflow-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockBookRepo) ResizeStock(ctx context.Context, id, totalCopies int32) error {
	args := m.Called(ctx, id, totalCopies)
	return args.Error(0)
}
func (m *MockBookRepo) ReserveCopy(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) ReleaseCopy(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLoanRepo
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) List(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) FindOpenByUserAndBook(ctx context.Context, userID, bookID int32) (*domain.Loan, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) MarkActive(ctx context.Context, id int32, borrowedAt, dueDate time.Time) error {
	args := m.Called(ctx, id, borrowedAt, dueDate)
	return args.Error(0)
}
func (m *MockLoanRepo) MarkReturned(ctx context.Context, id int32, returnedAt time.Time) error {
	args := m.Called(ctx, id, returnedAt)
	return args.Error(0)
}
func (m *MockLoanRepo) CountReturnedByUser(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLoanRepo) CountOpenByBook(ctx context.Context, bookID int32) (int32, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLoanRepo) ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) ListActiveOverdue(ctx context.Context, now time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Loan), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) AddPoints(ctx context.Context, userID int32, delta int32) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}
func (m *MockUserRepo) AttachBadge(ctx context.Context, userID int32, name string) (bool, error) {
	args := m.Called(ctx, userID, name)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) ListBadges(ctx context.Context, userID int32) ([]domain.Badge, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Badge), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID int32, limit int32) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockStatsRepo
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) CountBooks(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockStatsRepo) SumAvailableCopies(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockStatsRepo) CountLoansByStatus(ctx context.Context, status domain.LoanStatus) (int32, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockStatsRepo) CountUserLoansByStatus(ctx context.Context, userID int32, status domain.LoanStatus) (int32, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockStatsRepo) CountStudents(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockStatsRepo) TopBorrowedBooks(ctx context.Context, limit int32) ([]domain.TopBook, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.TopBook), args.Error(1)
}
func (m *MockStatsRepo) CountBooksByGenre(ctx context.Context) ([]domain.GenreCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.GenreCount), args.Error(1)
}

// MockNotifier stands in for the notification service in state machine tests.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID int32, title, message string, kind domain.NotificationKind) {
	m.Called(ctx, userID, title, message, kind)
}
func (m *MockNotifier) List(ctx context.Context, userID int32) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *MockNotifier) MarkAllRead(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockRewards
type MockRewards struct {
	mock.Mock
}

func (m *MockRewards) CreditReturn(ctx context.Context, userID int32, bookTitle string) error {
	args := m.Called(ctx, userID, bookTitle)
	return args.Error(0)
}
