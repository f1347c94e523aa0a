package service

import (
	"context"

	"libraflow-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role, studentID string) (*domain.User, string, error) // user, token
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type BookService interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int32) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id int32) error
	ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error)
	LookupISBN(ctx context.Context, isbn string) (*domain.BookInfo, error)
}

type LoanService interface {
	// RequestLoan files a student request; the loan starts pending and no
	// copy is reserved until a librarian confirms.
	RequestLoan(ctx context.Context, userID, bookID int32) (*domain.Loan, error)
	// IssueLoan is the librarian walk-up path: the loan is created directly
	// active and a copy is reserved immediately.
	IssueLoan(ctx context.Context, userID, bookID int32) (*domain.Loan, error)
	ConfirmLoan(ctx context.Context, loanID int32) (*domain.Loan, error)
	ReturnLoan(ctx context.Context, loanID int32) (*domain.Loan, error)
	GetLoan(ctx context.Context, loanID int32) (*domain.Loan, error)
	ListLoans(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, error)
	// QRCode renders the loan's pickup/return token as a PNG.
	QRCode(ctx context.Context, loanID int32) ([]byte, error)
}

type RewardsService interface {
	// CreditReturn awards return points and evaluates badge thresholds. Called
	// by the loan state machine after a loan reaches returned.
	CreditReturn(ctx context.Context, userID int32, bookTitle string) error
}

type NotificationService interface {
	// Notify persists a notification and pushes it; failures are logged and
	// swallowed so a flaky channel can never block a state transition.
	Notify(ctx context.Context, userID int32, title, message string, kind domain.NotificationKind)
	List(ctx context.Context, userID int32) ([]domain.Notification, error)
	MarkAllRead(ctx context.Context, userID int32) error
}

type StatsService interface {
	Dashboard(ctx context.Context, userID int32, role domain.Role) (*domain.DashboardStats, error)
}

type AssistantService interface {
	Chat(ctx context.Context, message string) (string, error)
	Recommend(ctx context.Context, userID int32) ([]domain.Recommendation, bool, error) // recs, fallback
	Summarize(ctx context.Context, bookID int32) (string, bool, error)
	StatsSummary(ctx context.Context) (string, bool, error)
}

type EmailService interface {
	SendDueReminder(ctx context.Context, email, name, bookTitle string, daysLeft int) error
	SendOverdueNotice(ctx context.Context, email, name, bookTitle string, daysLate int) error
}

// PushSender delivers a notification to a user's devices. Implementations are
// fire-and-forget; errors are reported but never acted on.
type PushSender interface {
	Push(ctx context.Context, userID int32, title, message string) error
}
