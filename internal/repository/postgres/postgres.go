package postgres

import (
	"database/sql"

	"libraflow-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookRepository
	repository.LoanRepository
	repository.UserRepository
	repository.NotificationRepository
	repository.StatsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		BookRepository:         NewBookRepository(db),
		LoanRepository:         NewLoanRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		StatsRepository:        NewStatsRepository(db),
	}
}
