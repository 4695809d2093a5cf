package domain

// ReaderSession is the in-memory reading state. ActiveBook == nil means
// the session is Idle; otherwise 1 <= CurrentPage <= TotalAllowedPages
// <= ActiveBook.Pages holds.
type ReaderSession struct {
	ActiveBook        *Book
	CurrentPage       int
	TotalAllowedPages int
}

// Reading reports whether a book is open.
func (s *ReaderSession) Reading() bool {
	return s.ActiveBook != nil
}

// RenderInstruction is the payload a session operation returns; it is
// sufficient for a view layer to update the screen without further logic.
type RenderInstruction struct {
	Title         string `json:"title"`
	FormattedPage string `json:"formatted_page"`
	CurrentPage   int    `json:"current_page"`
	TotalPages    int    `json:"total_pages"`
	CanAdvance    bool   `json:"can_advance"`
	CanRetreat    bool   `json:"can_retreat"`
}
