package domain

// Recommendation is one AI-suggested title.
type Recommendation struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Reason string `json:"reason"`
}
