package domain

// Book represents a catalog entry in the remote library.
// Immutable once fetched for a session; the session references it, the
// catalog owns it.
type Book struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Annotation string `json:"annotation"`
	Pages      int    `json:"pages"`
	CreatedAt  int64  `json:"created_at"`
	UserID     int    `json:"user_id"`
}

// Progress is the last page a user was viewing in a book, persisted
// remotely per (user, book) pair.
type Progress struct {
	CurrentPage int `json:"current_page"`
}
