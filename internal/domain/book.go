package domain

type Genre string

const (
	GenreInformatique  Genre = "Informatique"
	GenreMathematiques Genre = "Mathématiques"
	GenreSciences      Genre = "Sciences"
	GenreGestion       Genre = "Gestion"
	GenreLitterature   Genre = "Littérature"
	GenreAutre         Genre = "Autre"
)

// Genres lists every valid catalog genre, in display order.
var Genres = []Genre{
	GenreInformatique,
	GenreMathematiques,
	GenreSciences,
	GenreGestion,
	GenreLitterature,
	GenreAutre,
}

func (g Genre) Valid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

type Book struct {
	ID              int32  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn,omitempty"`
	Genre           Genre  `json:"genre"`
	Description     string `json:"description"`
	CoverImage      string `json:"cover_image"`
	TotalCopies     int32  `json:"total_copies"`
	AvailableCopies int32  `json:"available_copies"`
	PublishedYear   int32  `json:"published_year,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	CreatedOn       string `json:"created_on"`
	UpdatedOn       string `json:"updated_on"`
}

func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// BookInfo is the metadata returned by an external ISBN lookup.
type BookInfo struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	CoverImage  string `json:"cover_image"`
	ISBN        string `json:"isbn"`
}

// BookFilter narrows catalog listings. Zero values mean "no constraint".
type BookFilter struct {
	Search        string
	Genre         Genre
	AvailableOnly bool
}
