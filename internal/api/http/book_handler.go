package http

import (
	"net/http"
	"strconv"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/service"

	"github.com/gorilla/mux"
)

type BookHandler struct {
	bookSvc service.BookService
}

func NewBookHandler(bookSvc service.BookService) *BookHandler {
	return &BookHandler{bookSvc: bookSvc}
}

func pathID(r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.BookFilter{
		Search:        q.Get("search"),
		Genre:         domain.Genre(q.Get("genre")),
		AvailableOnly: q.Get("available") == "true",
	}
	books, err := h.bookSvc.ListBooks(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if books == nil {
		books = []domain.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid book id")
		return
	}
	book, err := h.bookSvc.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var book domain.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := h.bookSvc.CreateBook(r.Context(), &book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid book id")
		return
	}
	var book domain.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	book.ID = id
	if err := h.bookSvc.UpdateBook(r.Context(), &book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid book id")
		return
	}
	if err := h.bookSvc.DeleteBook(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "book deleted"})
}

func (h *BookHandler) LookupISBN(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]
	if isbn == "" {
		writeBadRequest(w, "isbn is required")
		return
	}
	info, err := h.bookSvc.LookupISBN(r.Context(), isbn)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
