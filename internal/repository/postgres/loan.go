package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index uq_loans_open, the authoritative duplicate-loan guard.
const uniqueViolation = "23505"

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `l.id, l.user_id, l.book_id, l.status, l.borrowed_at, l.due_date, l.returned_at, l.created_on, l.updated_on,
       u.name, u.email, u.student_id,
       b.title, b.author, b.genre`

func scanLoan(scanner interface{ Scan(...any) error }) (*domain.Loan, error) {
	l := &domain.Loan{User: &domain.User{}, Book: &domain.Book{}}
	var studentID sql.NullString
	err := scanner.Scan(
		&l.ID, &l.UserID, &l.BookID, &l.Status, &l.BorrowedAt, &l.DueDate, &l.ReturnedAt, &l.CreatedOn, &l.UpdatedOn,
		&l.User.Name, &l.User.Email, &studentID,
		&l.Book.Title, &l.Book.Author, &l.Book.Genre,
	)
	if err != nil {
		return nil, err
	}
	l.User.ID = l.UserID
	l.User.StudentID = studentID.String
	l.Book.ID = l.BookID
	return l, nil
}

func (r *loanRepository) Create(ctx context.Context, l *domain.Loan) error {
	query := `INSERT INTO loans (user_id, book_id, status, borrowed_at, due_date, returned_at, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		l.UserID, l.BookID, l.Status, l.BorrowedAt, l.DueDate, l.ReturnedAt, now, now,
	).Scan(&l.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return domain.ErrDuplicateLoan
	}
	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + `
	          FROM loans l
	          JOIN users u ON u.id = l.user_id
	          JOIN books b ON b.id = l.book_id
	          WHERE l.id = $1`
	l, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *loanRepository) List(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + `
	          FROM loans l
	          JOIN users u ON u.id = l.user_id
	          JOIN books b ON b.id = l.book_id`
	var args []interface{}
	var conds []string
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("l.user_id = $%d", len(args)))
	}
	if filter.BookID != 0 {
		args = append(args, filter.BookID)
		conds = append(conds, fmt.Sprintf("l.book_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY l.created_on DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	return loans, rows.Err()
}

func (r *loanRepository) FindOpenByUserAndBook(ctx context.Context, userID, bookID int32) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + `
	          FROM loans l
	          JOIN users u ON u.id = l.user_id
	          JOIN books b ON b.id = l.book_id
	          WHERE l.user_id = $1 AND l.book_id = $2 AND l.status IN ('pending', 'active')`
	l, err := scanLoan(r.db.QueryRowContext(ctx, query, userID, bookID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// MarkActive is conditional on the pending status so that two librarians
// confirming the same loan cannot both win; the loser sees
// ErrLoanNotPending and must compensate its reservation.
func (r *loanRepository) MarkActive(ctx context.Context, id int32, borrowedAt, dueDate time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loans SET status = 'active', borrowed_at = $2, due_date = $3, updated_on = $4
		 WHERE id = $1 AND status = 'pending'`, id, borrowedAt, dueDate, time.Now())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLoanNotPending
	}
	return nil
}

// MarkReturned is the idempotence gate of the return path: exactly one of any
// number of concurrent returns flips the row, so the inventory release that
// follows happens exactly once.
func (r *loanRepository) MarkReturned(ctx context.Context, id int32, returnedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loans SET status = 'returned', returned_at = $2, updated_on = $3
		 WHERE id = $1 AND status = 'active'`, id, returnedAt, time.Now())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLoanAlreadyReturned
	}
	return nil
}

func (r *loanRepository) CountReturnedByUser(ctx context.Context, userID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM loans WHERE user_id = $1 AND status = 'returned'`, userID).Scan(&count)
	return count, err
}

func (r *loanRepository) CountOpenByBook(ctx context.Context, bookID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM loans WHERE book_id = $1 AND status IN ('pending', 'active')`, bookID).Scan(&count)
	return count, err
}

func (r *loanRepository) ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]domain.Loan, error) {
	return r.listActiveByDue(ctx,
		`l.status = 'active' AND l.due_date >= $1 AND l.due_date < $2`, from, to)
}

func (r *loanRepository) ListActiveOverdue(ctx context.Context, now time.Time) ([]domain.Loan, error) {
	return r.listActiveByDue(ctx, `l.status = 'active' AND l.due_date < $1`, now)
}

func (r *loanRepository) listActiveByDue(ctx context.Context, cond string, args ...interface{}) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + `
	          FROM loans l
	          JOIN users u ON u.id = l.user_id
	          JOIN books b ON b.id = l.book_id
	          WHERE ` + cond + ` ORDER BY l.due_date`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	return loans, rows.Err()
}
