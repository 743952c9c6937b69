package library

// Category groups books. Listings call it a genre.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// Books is filled only by queries that load it explicitly.
	Books []Book `json:"books,omitempty"`
}
