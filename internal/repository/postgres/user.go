package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (name, email, password_hash, role, student_id, points, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, 0, $6, $7) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Role, u.StudentID, now, now,
	).Scan(&u.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, password_hash, role, student_id, points, created_on, updated_on
	          FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.StudentID, &u.Points, &u.CreatedOn, &u.UpdatedOn,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, password_hash, role, student_id, points, created_on, updated_on
	          FROM users WHERE email = lower($1)`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.StudentID, &u.Points, &u.CreatedOn, &u.UpdatedOn,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT id, name, email, role, student_id, points, created_on, updated_on
	          FROM users ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.StudentID, &u.Points, &u.CreatedOn, &u.UpdatedOn); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) AddPoints(ctx context.Context, userID int32, delta int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET points = points + $2, updated_on = $3 WHERE id = $1`,
		userID, delta, time.Now())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// AttachBadge relies on the (user_id, name) primary key: under concurrent
// returns crossing the same threshold only one insert lands.
func (r *userRepository) AttachBadge(ctx context.Context, userID int32, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user_badges (user_id, name, awarded_on) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, name) DO NOTHING`,
		userID, name, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) ListBadges(ctx context.Context, userID int32) ([]domain.Badge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, awarded_on FROM user_badges WHERE user_id = $1 ORDER BY awarded_on`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		var b domain.Badge
		if err := rows.Scan(&b.Name, &b.AwardedOn); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
