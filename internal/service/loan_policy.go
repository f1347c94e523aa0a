package service

import (
	"context"
	"errors"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

// loanPolicy gates loan transitions before the state machine commits them.
// Its checks fail fast but are advisory: the storage layer's atomic reserve
// and the partial unique index on open loans remain the safety boundary.
type loanPolicy struct {
	loanRepo repository.LoanRepository
	bookRepo repository.BookRepository
}

func newLoanPolicy(loanRepo repository.LoanRepository, bookRepo repository.BookRepository) *loanPolicy {
	return &loanPolicy{loanRepo: loanRepo, bookRepo: bookRepo}
}

// CanRequest denies when the pair already has an open loan or when no copy is
// currently available. The availability check here is only advisory; the
// authoritative gate is the atomic reserve at confirmation time.
func (p *loanPolicy) CanRequest(ctx context.Context, userID, bookID int32) error {
	book, err := p.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return err
	}
	if !book.IsAvailable() {
		return domain.ErrNoCopiesAvailable
	}
	_, err = p.loanRepo.FindOpenByUserAndBook(ctx, userID, bookID)
	if err == nil {
		return domain.ErrDuplicateLoan
	}
	if !errors.Is(err, domain.ErrLoanNotFound) {
		return err
	}
	return nil
}

// CanConfirm denies unless the loan is still pending. Availability is not
// checked here: the reserve itself re-checks atomically and its failure is
// the authoritative answer.
func (p *loanPolicy) CanConfirm(loan *domain.Loan) error {
	if loan.Status != domain.LoanStatusPending {
		return domain.ErrLoanNotPending
	}
	return nil
}

// CanReturn denies a second return and a return of a never-activated loan.
func (p *loanPolicy) CanReturn(loan *domain.Loan) error {
	switch loan.Status {
	case domain.LoanStatusReturned:
		return domain.ErrLoanAlreadyReturned
	case domain.LoanStatusPending:
		return domain.ErrLoanNotActive
	}
	return nil
}
