package service

import (
	"context"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

const topBooksLimit = 5

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

// Dashboard assembles the role-shaped dashboard. Librarians see the student
// head count; students see their own active and returned loan counters.
func (s *statsService) Dashboard(ctx context.Context, userID int32, role domain.Role) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	var err error
	if stats.TotalBooks, err = s.statsRepo.CountBooks(ctx); err != nil {
		return nil, err
	}
	if stats.AvailableBooks, err = s.statsRepo.SumAvailableCopies(ctx); err != nil {
		return nil, err
	}
	if stats.TopBooks, err = s.statsRepo.TopBorrowedBooks(ctx, topBooksLimit); err != nil {
		return nil, err
	}
	if stats.ByGenre, err = s.statsRepo.CountBooksByGenre(ctx); err != nil {
		return nil, err
	}

	if role == domain.RoleLibrarian {
		if stats.ActiveLoans, err = s.statsRepo.CountLoansByStatus(ctx, domain.LoanStatusActive); err != nil {
			return nil, err
		}
		if stats.LateLoans, err = s.statsRepo.CountLoansByStatus(ctx, domain.LoanStatusLate); err != nil {
			return nil, err
		}
		if stats.TotalStudents, err = s.statsRepo.CountStudents(ctx); err != nil {
			return nil, err
		}
		return stats, nil
	}

	if stats.ActiveLoans, err = s.statsRepo.CountUserLoansByStatus(ctx, userID, domain.LoanStatusActive); err != nil {
		return nil, err
	}
	if stats.MyReturnHistory, err = s.statsRepo.CountUserLoansByStatus(ctx, userID, domain.LoanStatusReturned); err != nil {
		return nil, err
	}
	return stats, nil
}
