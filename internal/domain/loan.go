package domain

import (
	"fmt"
	"time"
)

type LoanStatus string

const (
	// LoanStatusPending is a student request not yet confirmed by a librarian.
	// No copy is reserved while pending.
	LoanStatusPending LoanStatus = "pending"
	// LoanStatusActive is a confirmed loan; exactly one copy is reserved.
	LoanStatusActive LoanStatus = "active"
	// LoanStatusLate is a read-time projection of an active loan past its due
	// date. It is never written to storage.
	LoanStatusLate LoanStatus = "late"
	// LoanStatusReturned is terminal; the copy has been released.
	LoanStatusReturned LoanStatus = "returned"
)

// LoanPeriod is the borrowing window granted at activation.
const LoanPeriod = 14 * 24 * time.Hour

// QRTokenPrefix prefixes the loan identity in QR payloads scanned at the desk.
const QRTokenPrefix = "LIBRAFLOW_LOAN:"

type Loan struct {
	ID         int32      `json:"id"`
	UserID     int32      `json:"user_id"`
	BookID     int32      `json:"book_id"`
	User       *User      `json:"user,omitempty"` // Populated on detail/listing reads
	Book       *Book      `json:"book,omitempty"`
	Status     LoanStatus `json:"status"`
	BorrowedAt *time.Time `json:"borrowed_at,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	CreatedOn  string     `json:"created_on"`
	UpdatedOn  string     `json:"updated_on"`
}

// DisplayStatus projects the stored status for presentation: an active loan
// past its due date reads as late. The stored status field is authoritative
// and is never flipped by reads.
func (l *Loan) DisplayStatus(now time.Time) LoanStatus {
	if l.Status == LoanStatusActive && l.DueDate != nil && now.After(*l.DueDate) {
		return LoanStatusLate
	}
	return l.Status
}

// IsOpen reports whether the loan still blocks a new request for the same
// (user, book) pair.
func (l *Loan) IsOpen() bool {
	switch l.Status {
	case LoanStatusPending, LoanStatusActive, LoanStatusLate:
		return true
	}
	return false
}

// QRToken returns the opaque payload encoded into the loan's QR code.
func (l *Loan) QRToken() string {
	return fmt.Sprintf("%s%d", QRTokenPrefix, l.ID)
}

// LoanFilter narrows loan listings. UserID zero means all users.
type LoanFilter struct {
	UserID int32
	BookID int32
	Status LoanStatus
}
