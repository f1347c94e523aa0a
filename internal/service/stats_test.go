package service

import (
	"context"
	"testing"

	"libraflow-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatsService_Dashboard(t *testing.T) {
	ctx := context.Background()

	top := []domain.TopBook{{BookID: 1, Title: "Le Réseau", Count: 12}}
	byGenre := []domain.GenreCount{{Genre: domain.GenreInformatique, Count: 7}}

	t.Run("Librarian sees the library-wide view", func(t *testing.T) {
		statsRepo := new(MockStatsRepo)
		svc := NewStatsService(statsRepo)

		statsRepo.On("CountBooks", ctx).Return(int32(40), nil)
		statsRepo.On("SumAvailableCopies", ctx).Return(int32(25), nil)
		statsRepo.On("TopBorrowedBooks", ctx, int32(topBooksLimit)).Return(top, nil)
		statsRepo.On("CountBooksByGenre", ctx).Return(byGenre, nil)
		statsRepo.On("CountLoansByStatus", ctx, domain.LoanStatusActive).Return(int32(9), nil)
		statsRepo.On("CountLoansByStatus", ctx, domain.LoanStatusLate).Return(int32(3), nil)
		statsRepo.On("CountStudents", ctx).Return(int32(120), nil)

		stats, err := svc.Dashboard(ctx, 5, domain.RoleLibrarian)
		assert.NoError(t, err)
		assert.Equal(t, int32(9), stats.ActiveLoans)
		assert.Equal(t, int32(3), stats.LateLoans)
		assert.Equal(t, int32(120), stats.TotalStudents)
		assert.Zero(t, stats.MyReturnHistory)
		statsRepo.AssertNotCalled(t, "CountUserLoansByStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Student sees own counters", func(t *testing.T) {
		statsRepo := new(MockStatsRepo)
		svc := NewStatsService(statsRepo)

		statsRepo.On("CountBooks", ctx).Return(int32(40), nil)
		statsRepo.On("SumAvailableCopies", ctx).Return(int32(25), nil)
		statsRepo.On("TopBorrowedBooks", ctx, int32(topBooksLimit)).Return(top, nil)
		statsRepo.On("CountBooksByGenre", ctx).Return(byGenre, nil)
		statsRepo.On("CountUserLoansByStatus", ctx, int32(5), domain.LoanStatusActive).Return(int32(2), nil)
		statsRepo.On("CountUserLoansByStatus", ctx, int32(5), domain.LoanStatusReturned).Return(int32(11), nil)

		stats, err := svc.Dashboard(ctx, 5, domain.RoleStudent)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), stats.ActiveLoans)
		assert.Equal(t, int32(11), stats.MyReturnHistory)
		assert.Zero(t, stats.TotalStudents)
		statsRepo.AssertNotCalled(t, "CountStudents", mock.Anything)
	})
}
