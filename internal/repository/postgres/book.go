package postgres

import (
	"context"
	"database/sql"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

var dialect = goqu.Dialect("postgres")

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (title, author, isbn, genre, description, cover_image, total_copies, available_copies, published_year, publisher, created_on, updated_on)
	          VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		b.Title, b.Author, b.ISBN, b.Genre, b.Description, b.CoverImage,
		b.TotalCopies, b.AvailableCopies, b.PublishedYear, b.Publisher, now, now,
	).Scan(&b.ID)
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	b := &domain.Book{}
	var isbn sql.NullString
	query := `SELECT id, title, author, isbn, genre, description, cover_image, total_copies, available_copies, published_year, publisher, created_on, updated_on
	          FROM books WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Title, &b.Author, &isbn, &b.Genre, &b.Description, &b.CoverImage,
		&b.TotalCopies, &b.AvailableCopies, &b.PublishedYear, &b.Publisher, &b.CreatedOn, &b.UpdatedOn,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	b.ISBN = isbn.String
	return b, nil
}

// Update touches catalog fields only. Copy counters are owned by
// ResizeStock, ReserveCopy and ReleaseCopy.
func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE books SET title=$1, author=$2, isbn=NULLIF($3, ''), genre=$4, description=$5, cover_image=$6, published_year=$7, publisher=$8, updated_on=$9 WHERE id=$10`
	res, err := r.db.ExecContext(ctx, query,
		b.Title, b.Author, b.ISBN, b.Genre, b.Description, b.CoverImage,
		b.PublishedYear, b.Publisher, time.Now(), b.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// ResizeStock applies a shelf-size change as a relative shift: both counters
// move by the same delta in one statement, so a reservation landing between a
// librarian's read and save is never overwritten. The condition keeps
// availability from going negative when the shelf shrinks below the loaned
// count.
func (r *bookRepository) ResizeStock(ctx context.Context, id, totalCopies int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET total_copies = $2, available_copies = available_copies + ($2 - total_copies), updated_on = $3
		 WHERE id = $1 AND available_copies + ($2 - total_copies) >= 0`, id, totalCopies, time.Now())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrBookNotFound
		}
		return domain.ErrStockBelowLoaned
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	ds := dialect.From("books").Select(
		"id", "title", "author", goqu.COALESCE(goqu.C("isbn"), "").As("isbn"),
		"genre", "description", "cover_image", "total_copies", "available_copies",
		"published_year", "publisher", "created_on", "updated_on",
	)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("author").ILike(pattern),
		))
	}
	if filter.Genre != "" {
		ds = ds.Where(goqu.C("genre").Eq(string(filter.Genre)))
	}
	if filter.AvailableOnly {
		ds = ds.Where(goqu.C("available_copies").Gt(0))
	}
	ds = ds.Order(goqu.C("created_on").Desc())

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Genre, &b.Description, &b.CoverImage,
			&b.TotalCopies, &b.AvailableCopies, &b.PublishedYear, &b.Publisher, &b.CreatedOn, &b.UpdatedOn,
		); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// ReserveCopy is the single critical section of the loan subsystem: the
// decrement and the availability check happen in one statement, so two
// confirmations racing for the last copy can never both succeed.
func (r *bookRepository) ReserveCopy(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET available_copies = available_copies - 1, updated_on = $2
		 WHERE id = $1 AND available_copies > 0`, id, time.Now())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "no copies" from "no such book" for the caller.
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrBookNotFound
		}
		return domain.ErrNoCopiesAvailable
	}
	return nil
}

// ReleaseCopy clamps to total_copies so a stray double release can never push
// availability above the shelf count.
func (r *bookRepository) ReleaseCopy(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET available_copies = LEAST(available_copies + 1, total_copies), updated_on = $2
		 WHERE id = $1`, id, time.Now())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}
