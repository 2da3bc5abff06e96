package posts

import "time"

// Post es una entrada del blog de la clínica.
type Post struct {
	ID          string
	Title       string
	Content     string
	ImageURL    string
	PublishedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
