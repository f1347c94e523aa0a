package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Book         *BookHandler
	Loan         *LoanHandler
	Notification *NotificationHandler
	Stats        *StatsHandler
	Assistant    *AssistantHandler
	AuthMW       *AuthMiddleware
}

// NewRouter wires the full API surface. Registration and login are the only
// unauthenticated routes; everything else sits behind the bearer-token
// middleware, with librarian-only guards applied per route.
func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, AccessLog)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.Auth.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")

	// The catalog is browsable without an account.
	api.HandleFunc("/books", h.Book.List).Methods("GET")
	api.HandleFunc("/books/{id:[0-9]+}", h.Book.Get).Methods("GET")

	authed := api.NewRoute().Subrouter()
	authed.Use(h.AuthMW.Authenticate)

	authed.HandleFunc("/auth/me", h.Auth.Me).Methods("GET")
	authed.HandleFunc("/auth/users", LibrarianOnly(h.Auth.ListUsers)).Methods("GET")

	authed.HandleFunc("/books/isbn/{isbn}", LibrarianOnly(h.Book.LookupISBN)).Methods("GET")
	authed.HandleFunc("/books", LibrarianOnly(h.Book.Create)).Methods("POST")
	authed.HandleFunc("/books/{id:[0-9]+}", LibrarianOnly(h.Book.Update)).Methods("PUT")
	authed.HandleFunc("/books/{id:[0-9]+}", LibrarianOnly(h.Book.Delete)).Methods("DELETE")

	authed.HandleFunc("/loans", h.Loan.List).Methods("GET")
	authed.HandleFunc("/loans", h.Loan.Request).Methods("POST")
	authed.HandleFunc("/loans/issue", LibrarianOnly(h.Loan.Issue)).Methods("POST")
	authed.HandleFunc("/loans/{id:[0-9]+}", h.Loan.Get).Methods("GET")
	authed.HandleFunc("/loans/{id:[0-9]+}/confirm", LibrarianOnly(h.Loan.Confirm)).Methods("PUT")
	authed.HandleFunc("/loans/{id:[0-9]+}/return", LibrarianOnly(h.Loan.Return)).Methods("PUT")
	authed.HandleFunc("/loans/{id:[0-9]+}/qrcode", h.Loan.QRCode).Methods("GET")

	authed.HandleFunc("/stats", h.Stats.Dashboard).Methods("GET")

	authed.HandleFunc("/notifications", h.Notification.List).Methods("GET")
	authed.HandleFunc("/notifications/mark-read", h.Notification.MarkAllRead).Methods("PUT")

	authed.HandleFunc("/ai/chat", h.Assistant.Chat).Methods("POST")
	authed.HandleFunc("/ai/recommend", h.Assistant.Recommend).Methods("POST")
	authed.HandleFunc("/ai/summarize", h.Assistant.Summarize).Methods("POST")
	authed.HandleFunc("/ai/stats-summary", h.Assistant.StatsSummary).Methods("GET")

	return r
}
