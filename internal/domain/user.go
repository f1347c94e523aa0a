package domain

type Role string

const (
	RoleStudent   Role = "student"
	RoleLibrarian Role = "librarian"
)

type User struct {
	ID           int32   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Role         Role    `json:"role"`
	StudentID    string  `json:"student_id,omitempty"`
	Points       int32   `json:"points"`
	Badges       []Badge `json:"badges,omitempty"`
	CreatedOn    string  `json:"created_on"`
	UpdatedOn    string  `json:"updated_on"`
}

// Badge is a named achievement. A user holds each badge name at most once,
// enforced by the (user_id, name) primary key in storage.
type Badge struct {
	Name      string `json:"name"`
	AwardedOn string `json:"awarded_on"`
}
