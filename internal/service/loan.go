package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/logger"
	"libraflow-backend/internal/repository"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 300

type loanService struct {
	loanRepo repository.LoanRepository
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
	policy   *loanPolicy
	rewards  RewardsService
	notifier NotificationService
	now      func() time.Time
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	rewards RewardsService,
	notifier NotificationService,
) LoanService {
	return &loanService{
		loanRepo: loanRepo,
		bookRepo: bookRepo,
		userRepo: userRepo,
		policy:   newLoanPolicy(loanRepo, bookRepo),
		rewards:  rewards,
		notifier: notifier,
		now:      time.Now,
	}
}

// RequestLoan creates a pending loan. No copy is reserved yet: the book stays
// on the shelf until a librarian physically hands it over and confirms. The
// policy pre-check fails fast; the partial unique index on open loans catches
// the duplicate race the pre-check cannot see.
func (s *loanService) RequestLoan(ctx context.Context, userID, bookID int32) (*domain.Loan, error) {
	if err := s.policy.CanRequest(ctx, userID, bookID); err != nil {
		return nil, err
	}

	loan := &domain.Loan{
		UserID: userID,
		BookID: bookID,
		Status: domain.LoanStatusPending,
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	return s.loanRepo.GetByID(ctx, loan.ID)
}

// IssueLoan is the librarian walk-up path: reserve first, then create the
// loan directly active. If the create fails (e.g. the duplicate index fires),
// the reservation is compensated so no copy leaks.
func (s *loanService) IssueLoan(ctx context.Context, userID, bookID int32) (*domain.Loan, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}
	if _, err := s.loanRepo.FindOpenByUserAndBook(ctx, userID, bookID); err == nil {
		return nil, domain.ErrDuplicateLoan
	} else if !errors.Is(err, domain.ErrLoanNotFound) {
		return nil, err
	}

	if err := s.bookRepo.ReserveCopy(ctx, bookID); err != nil {
		return nil, err
	}

	borrowedAt := s.now()
	dueDate := borrowedAt.Add(domain.LoanPeriod)
	loan := &domain.Loan{
		UserID:     userID,
		BookID:     bookID,
		Status:     domain.LoanStatusActive,
		BorrowedAt: &borrowedAt,
		DueDate:    &dueDate,
	}
	// No loan id exists yet if the create failed, so the rollback is keyed on
	// the (user, book) pair.
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		if relErr := s.bookRepo.ReleaseCopy(ctx, bookID); relErr != nil {
			logger.Error("inventory inconsistency: failed to roll back reservation",
				"user_id", userID, "book_id", bookID, "error", relErr)
		}
		return nil, err
	}

	full, err := s.loanRepo.GetByID(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, userID, "Emprunt enregistré",
		fmt.Sprintf("Le livre « %s » vous a été prêté jusqu'au %s.", full.Book.Title, dueDate.Format("02/01/2006")),
		domain.NotificationSuccess)
	return full, nil
}

// ConfirmLoan commits pending→active. Ordering is fail-closed on the scarce
// resource: the atomic reserve runs first, then the conditional status flip.
// A reserve loss is a conflict, not a validation error; the loan stays
// pending. If the flip loses a same-loan race the reservation is rolled back.
func (s *loanService) ConfirmLoan(ctx context.Context, loanID int32) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanConfirm(loan); err != nil {
		return nil, err
	}

	if err := s.bookRepo.ReserveCopy(ctx, loan.BookID); err != nil {
		return nil, err
	}

	borrowedAt := s.now()
	dueDate := borrowedAt.Add(domain.LoanPeriod)
	if err := s.loanRepo.MarkActive(ctx, loanID, borrowedAt, dueDate); err != nil {
		s.compensateReserve(ctx, loan.BookID, loanID)
		return nil, err
	}

	full, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, full.UserID, "Emprunt confirmé",
		fmt.Sprintf("Votre emprunt de « %s » est confirmé. À rendre avant le %s.", full.Book.Title, dueDate.Format("02/01/2006")),
		domain.NotificationSuccess)
	return full, nil
}

// ReturnLoan commits active→returned. Here the contended row is the loan
// itself, so the conditional flip runs first and acts as the idempotence
// gate: only the winner of a double return reaches the release, so inventory
// is incremented exactly once.
func (s *loanService) ReturnLoan(ctx context.Context, loanID int32) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanReturn(loan); err != nil {
		return nil, err
	}

	if err := s.loanRepo.MarkReturned(ctx, loanID, s.now()); err != nil {
		return nil, err
	}

	if err := s.bookRepo.ReleaseCopy(ctx, loan.BookID); err != nil {
		// The loan is returned but the copy was not released. This is the
		// inconsistency class that needs reconciliation; it must never be
		// silent.
		logger.Error("inventory inconsistency: release failed after return",
			"loan_id", loanID, "book_id", loan.BookID, "error", err)
		return nil, fmt.Errorf("release copy for loan %d: %w", loanID, err)
	}

	full, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := s.rewards.CreditReturn(ctx, full.UserID, full.Book.Title); err != nil {
		// Rewards are a downstream observer, not a gate: the return stands.
		logger.Error("failed to credit return rewards", "loan_id", loanID, "user_id", full.UserID, "error", err)
	}

	s.notifier.Notify(ctx, full.UserID, "Livre rendu",
		fmt.Sprintf("Merci d'avoir rendu « %s ».", full.Book.Title),
		domain.NotificationInfo)
	return full, nil
}

func (s *loanService) GetLoan(ctx context.Context, loanID int32) (*domain.Loan, error) {
	return s.loanRepo.GetByID(ctx, loanID)
}

func (s *loanService) ListLoans(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, error) {
	return s.loanRepo.List(ctx, filter)
}

func (s *loanService) QRCode(ctx context.Context, loanID int32) ([]byte, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(loan.QRToken(), qrcode.Medium, qrSize)
}

// compensateReserve returns a copy taken by a reservation whose loan write
// failed. If even the release fails the books table is off by one; log it
// loudly for reconciliation.
func (s *loanService) compensateReserve(ctx context.Context, bookID, loanID int32) {
	if err := s.bookRepo.ReleaseCopy(ctx, bookID); err != nil {
		logger.Error("inventory inconsistency: failed to roll back reservation",
			"book_id", bookID, "loan_id", loanID, "error", err)
	}
}
