package domain

// TopBook is one entry of the most-borrowed ranking.
type TopBook struct {
	BookID int32  `json:"book_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Count  int32  `json:"count"`
}

// GenreCount is the number of catalog titles in one genre.
type GenreCount struct {
	Genre Genre `json:"genre"`
	Count int32 `json:"count"`
}

// DashboardStats is the role-shaped dashboard payload. Librarians see
// TotalStudents; students see their own loan counters instead.
type DashboardStats struct {
	TotalBooks      int32        `json:"total_books"`
	AvailableBooks  int32        `json:"available_books"`
	ActiveLoans     int32        `json:"active_loans"`
	LateLoans       int32        `json:"late_loans"`
	TotalStudents   int32        `json:"total_students,omitempty"`
	MyReturnHistory int32        `json:"my_return_history,omitempty"`
	TopBooks        []TopBook    `json:"top_books"`
	ByGenre         []GenreCount `json:"by_genre"`
}
