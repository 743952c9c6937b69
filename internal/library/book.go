package library

// Book is a catalog entry owned by exactly one Category.
type Book struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// CategoryID carries the caller's category reference on creation. It is not persisted;
	// the stored relation lives in Category.
	CategoryID int64     `json:"category_id,omitempty"`
	Category   *Category `json:"category,omitempty"`
}
