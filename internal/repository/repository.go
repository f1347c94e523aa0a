package repository

import (
	"context"
	"time"

	"libraflow-backend/internal/domain"
)

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)

	// Update writes catalog fields only. The copy counters never pass through
	// it; they move exclusively via ResizeStock, ReserveCopy and ReleaseCopy.
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error)

	// ResizeStock sets total_copies and shifts available_copies by the same
	// delta in one conditional update, so the loaned count carries over even
	// while reservations land concurrently. Returns domain.ErrStockBelowLoaned
	// when the shift would drive availability negative, domain.ErrBookNotFound
	// when the book does not exist.
	ResizeStock(ctx context.Context, id, totalCopies int32) error

	// ReserveCopy atomically decrements available_copies, succeeding only if a
	// copy remains at the instant of the update. Returns
	// domain.ErrNoCopiesAvailable when the conditional update matches no row
	// with copies left, domain.ErrBookNotFound when the book does not exist.
	ReserveCopy(ctx context.Context, id int32) error

	// ReleaseCopy increments available_copies, clamped to total_copies.
	ReleaseCopy(ctx context.Context, id int32) error
}

type LoanRepository interface {
	// Create persists a new loan. A storage-level partial unique index over
	// (user_id, book_id) for open statuses is the authoritative duplicate
	// guard; violations surface as domain.ErrDuplicateLoan.
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id int32) (*domain.Loan, error)
	List(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, error)

	// FindOpenByUserAndBook returns the open (pending or active) loan for the
	// pair, or domain.ErrLoanNotFound.
	FindOpenByUserAndBook(ctx context.Context, userID, bookID int32) (*domain.Loan, error)

	// MarkActive flips pending→active and stamps the borrowing window in one
	// conditional update. Returns domain.ErrLoanNotPending if the loan was no
	// longer pending.
	MarkActive(ctx context.Context, id int32, borrowedAt, dueDate time.Time) error

	// MarkReturned flips active→returned in one conditional update. Returns
	// domain.ErrLoanAlreadyReturned if the flip already happened, so a
	// concurrent double return releases inventory exactly once.
	MarkReturned(ctx context.Context, id int32, returnedAt time.Time) error

	CountReturnedByUser(ctx context.Context, userID int32) (int32, error)
	CountOpenByBook(ctx context.Context, bookID int32) (int32, error)

	// ListActiveDueBetween returns active loans whose due date falls in
	// [from, to), for reminder jobs.
	ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]domain.Loan, error)
	// ListActiveOverdue returns active loans already past due at now.
	ListActiveOverdue(ctx context.Context, now time.Time) ([]domain.Loan, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)

	AddPoints(ctx context.Context, userID int32, delta int32) error

	// AttachBadge awards the named badge once per user. Returns true when the
	// badge was newly attached, false when the user already held it.
	AttachBadge(ctx context.Context, userID int32, name string) (bool, error)
	ListBadges(ctx context.Context, userID int32) ([]domain.Badge, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	ListByUser(ctx context.Context, userID int32, limit int32) ([]domain.Notification, error)
	MarkAllRead(ctx context.Context, userID int32) error
}

type StatsRepository interface {
	CountBooks(ctx context.Context) (int32, error)
	SumAvailableCopies(ctx context.Context) (int32, error)
	CountLoansByStatus(ctx context.Context, status domain.LoanStatus) (int32, error)
	CountUserLoansByStatus(ctx context.Context, userID int32, status domain.LoanStatus) (int32, error)
	CountStudents(ctx context.Context) (int32, error)
	TopBorrowedBooks(ctx context.Context, limit int32) ([]domain.TopBook, error)
	CountBooksByGenre(ctx context.Context) ([]domain.GenreCount, error)
}
