package postgres

import (
	"context"
	"database/sql"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

type statsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountBooks(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM books`).Scan(&count)
	return count, err
}

func (r *statsRepository) SumAvailableCopies(ctx context.Context) (int32, error) {
	var sum int32
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(sum(available_copies), 0) FROM books`).Scan(&sum)
	return sum, err
}

// loanStatusCond applies the late projection uniformly: "late" is stored as
// "active" and derived from the due date, never persisted.
func loanStatusCond(status domain.LoanStatus, now time.Time) (string, []interface{}) {
	switch status {
	case domain.LoanStatusActive:
		return `status = 'active' AND (due_date IS NULL OR due_date >= $1)`, []interface{}{now}
	case domain.LoanStatusLate:
		return `status = 'active' AND due_date < $1`, []interface{}{now}
	default:
		return `status = $1`, []interface{}{status}
	}
}

func (r *statsRepository) CountLoansByStatus(ctx context.Context, status domain.LoanStatus) (int32, error) {
	cond, args := loanStatusCond(status, time.Now())
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans WHERE `+cond, args...).Scan(&count)
	return count, err
}

func (r *statsRepository) CountUserLoansByStatus(ctx context.Context, userID int32, status domain.LoanStatus) (int32, error) {
	cond, args := loanStatusCond(status, time.Now())
	args = append(args, userID)
	var count int32
	query := `SELECT count(*) FROM loans WHERE ` + cond + ` AND user_id = $2`
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *statsRepository) CountStudents(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE role = 'student'`).Scan(&count)
	return count, err
}

func (r *statsRepository) TopBorrowedBooks(ctx context.Context, limit int32) ([]domain.TopBook, error) {
	ds := dialect.From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("l.book_id")})).
		Select(goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author"), goqu.COUNT(goqu.Star()).As("count")).
		GroupBy(goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author")).
		Order(goqu.C("count").Desc()).
		Limit(uint(limit))

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []domain.TopBook
	for rows.Next() {
		var t domain.TopBook
		if err := rows.Scan(&t.BookID, &t.Title, &t.Author, &t.Count); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

func (r *statsRepository) CountBooksByGenre(ctx context.Context) ([]domain.GenreCount, error) {
	ds := dialect.From("books").
		Select(goqu.C("genre"), goqu.COUNT(goqu.Star()).As("count")).
		GroupBy(goqu.C("genre")).
		Order(goqu.C("count").Desc())

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.GenreCount
	for rows.Next() {
		var g domain.GenreCount
		if err := rows.Scan(&g.Genre, &g.Count); err != nil {
			return nil, err
		}
		counts = append(counts, g)
	}
	return counts, rows.Err()
}
