package domain

import "errors"

// Validation errors: the request references something that does not exist or
// is malformed. No state was changed.
var (
	ErrBookNotFound = errors.New("book not found")
	ErrLoanNotFound = errors.New("loan not found")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidGenre = errors.New("unknown genre")
)

// Conflict errors: the request was well-formed but the current state forbids
// the transition. No partial mutation is left behind.
var (
	// ErrDuplicateLoan: the (user, book) pair already has an open loan.
	ErrDuplicateLoan = errors.New("an open loan already exists for this user and book")
	// ErrNoCopiesAvailable: the atomic reserve found no remaining copy. On the
	// confirm path this means another confirmation won the last copy.
	ErrNoCopiesAvailable = errors.New("no copies available")
	// ErrLoanNotPending: confirm requires a pending loan.
	ErrLoanNotPending = errors.New("loan is not pending")
	// ErrLoanNotActive: return requires a confirmed loan.
	ErrLoanNotActive = errors.New("loan was never activated")
	// ErrLoanAlreadyReturned: return is not idempotent-silent; the second call
	// is rejected.
	ErrLoanAlreadyReturned = errors.New("loan already returned")
	// ErrBookHasOpenLoans: a book cannot be deleted while loans reference it.
	ErrBookHasOpenLoans = errors.New("book still has open loans")
	// ErrStockBelowLoaned: a shelf resize would leave fewer total copies than
	// are currently out on loan.
	ErrStockBelowLoaned = errors.New("total copies cannot go below the loaned count")
)

// ErrForbidden: the authenticated role may not perform this operation.
var ErrForbidden = errors.New("forbidden")
