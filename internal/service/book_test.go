package service

import (
	"context"
	"testing"

	"libraflow-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBookService_CreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults genre and fills the shelf", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := NewBookService(bookRepo, new(MockLoanRepo))

		bookRepo.On("Create", ctx, mock.AnythingOfType("*domain.Book")).Return(nil)

		book := &domain.Book{Title: "Le Réseau", Author: "A. Dupont", TotalCopies: 4}
		err := svc.CreateBook(ctx, book)
		assert.NoError(t, err)
		assert.Equal(t, domain.GenreAutre, book.Genre)
		assert.Equal(t, int32(4), book.AvailableCopies)
	})

	t.Run("Rejects invalid genre", func(t *testing.T) {
		svc := NewBookService(new(MockBookRepo), new(MockLoanRepo))
		err := svc.CreateBook(ctx, &domain.Book{Title: "T", Author: "A", TotalCopies: 1, Genre: "Alchimie"})
		assert.ErrorIs(t, err, domain.ErrInvalidGenre)
	})

	t.Run("Rejects missing title", func(t *testing.T) {
		svc := NewBookService(new(MockBookRepo), new(MockLoanRepo))
		err := svc.CreateBook(ctx, &domain.Book{Author: "A", TotalCopies: 1})
		assert.Error(t, err)
	})
}

func TestBookService_UpdateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("Shelf change goes through the relative resize", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := NewBookService(bookRepo, new(MockLoanRepo))

		// A confirmation reserved a copy while the librarian's edit form was
		// open: storage reports 4 available out of 8 after the resize. The
		// service must hand back those counters, never ones it computed from
		// an earlier read.
		bookRepo.On("ResizeStock", ctx, int32(1), int32(8)).Return(nil)
		bookRepo.On("Update", ctx, mock.AnythingOfType("*domain.Book")).Return(nil)
		bookRepo.On("GetByID", ctx, int32(1)).Return(&domain.Book{
			ID: 1, Title: "Le Réseau", Author: "A. Dupont", Genre: domain.GenreInformatique,
			TotalCopies: 8, AvailableCopies: 4,
		}, nil)

		update := &domain.Book{ID: 1, Title: "Le Réseau", Author: "A. Dupont", Genre: domain.GenreInformatique, TotalCopies: 8, AvailableCopies: 5}
		err := svc.UpdateBook(ctx, update)
		assert.NoError(t, err)
		assert.Equal(t, int32(4), update.AvailableCopies)
		bookRepo.AssertExpectations(t)
	})

	t.Run("Cannot shrink below the loaned count", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := NewBookService(bookRepo, new(MockLoanRepo))

		bookRepo.On("ResizeStock", ctx, int32(1), int32(2)).Return(domain.ErrStockBelowLoaned)

		update := &domain.Book{ID: 1, Title: "Le Réseau", Author: "A. Dupont", TotalCopies: 2}
		err := svc.UpdateBook(ctx, update)
		assert.ErrorIs(t, err, domain.ErrStockBelowLoaned)
		bookRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestBookService_DeleteBook(t *testing.T) {
	ctx := context.Background()

	t.Run("Blocked while loans are open", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		loanRepo := new(MockLoanRepo)
		svc := NewBookService(bookRepo, loanRepo)

		loanRepo.On("CountOpenByBook", ctx, int32(1)).Return(int32(2), nil)

		err := svc.DeleteBook(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrBookHasOpenLoans)
		bookRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Allowed once all loans are closed", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		loanRepo := new(MockLoanRepo)
		svc := NewBookService(bookRepo, loanRepo)

		loanRepo.On("CountOpenByBook", ctx, int32(1)).Return(int32(0), nil)
		bookRepo.On("Delete", ctx, int32(1)).Return(nil)

		err := svc.DeleteBook(ctx, 1)
		assert.NoError(t, err)
	})
}

func TestBookService_ListBooks(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(new(MockBookRepo), new(MockLoanRepo))

	_, err := svc.ListBooks(ctx, domain.BookFilter{Genre: "Alchimie"})
	assert.ErrorIs(t, err, domain.ErrInvalidGenre)
}
