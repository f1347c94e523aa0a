package http

import (
	"encoding/base64"
	"net/http"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/service"
)

type LoanHandler struct {
	loanSvc service.LoanService
	now     func() time.Time
}

func NewLoanHandler(loanSvc service.LoanService) *LoanHandler {
	return &LoanHandler{loanSvc: loanSvc, now: time.Now}
}

// project applies the late projection for presentation. The stored status is
// authoritative and untouched; every read path goes through here so the
// displayed state is consistent across endpoints.
func (h *LoanHandler) project(loan *domain.Loan) *domain.Loan {
	out := *loan
	out.Status = loan.DisplayStatus(h.now())
	return &out
}

// List returns all loans for librarians, the caller's own for students.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	filter := domain.LoanFilter{}
	if claims.Role != domain.RoleLibrarian {
		filter.UserID = claims.UserID
	}

	loans, err := h.loanSvc.ListLoans(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	projected := make([]domain.Loan, 0, len(loans))
	for i := range loans {
		projected = append(projected, *h.project(&loans[i]))
	}
	writeJSON(w, http.StatusOK, projected)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid loan id")
		return
	}
	loan, err := h.loanSvc.GetLoan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	claims, _ := ClaimsFromContext(r.Context())
	if claims.Role != domain.RoleLibrarian && loan.UserID != claims.UserID {
		writeError(w, domain.ErrForbidden)
		return
	}
	writeJSON(w, http.StatusOK, h.project(loan))
}

type requestLoanBody struct {
	BookID int32 `json:"book_id"`
}

// Request files a student borrow request; the loan starts pending.
func (h *LoanHandler) Request(w http.ResponseWriter, r *http.Request) {
	var body requestLoanBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.BookID == 0 {
		writeBadRequest(w, "book_id is required")
		return
	}
	claims, _ := ClaimsFromContext(r.Context())

	loan, err := h.loanSvc.RequestLoan(r.Context(), claims.UserID, body.BookID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.project(loan))
}

type issueLoanBody struct {
	UserID int32 `json:"user_id"`
	BookID int32 `json:"book_id"`
}

// Issue is the librarian walk-up path: the loan is created directly active.
func (h *LoanHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var body issueLoanBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == 0 || body.BookID == 0 {
		writeBadRequest(w, "user_id and book_id are required")
		return
	}

	loan, err := h.loanSvc.IssueLoan(r.Context(), body.UserID, body.BookID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.project(loan))
}

func (h *LoanHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid loan id")
		return
	}
	loan, err := h.loanSvc.ConfirmLoan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.project(loan))
}

func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid loan id")
		return
	}
	loan, err := h.loanSvc.ReturnLoan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.project(loan))
}

type qrCodeResponse struct {
	QRCode string `json:"qrCode"`
	LoanID int32  `json:"loanId"`
}

// QRCode returns the loan's pickup/return token as a base64 PNG data URL,
// ready for an <img> tag.
func (h *LoanHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid loan id")
		return
	}
	png, err := h.loanSvc.QRCode(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, qrCodeResponse{
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		LoanID: id,
	})
}
