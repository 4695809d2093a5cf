package service

import (
	"context"
	"sync"

	"book-reader/internal/domain"
	apperrors "book-reader/pkg/errors"
)

// readerSession is the reading-mode state machine. Idle when no book is
// open, Reading otherwise; operations mutate state only under the
// session mutex, so navigation is single-flight and the persisted
// position can never fall behind the in-memory one out of order.
type readerSession struct {
	client   domain.LibraryClient
	auth     domain.AuthService
	policy   *AccessPolicy
	progress domain.ProgressSync
	logger   domain.Logger

	mu      sync.Mutex
	session domain.ReaderSession
	// generation increments on every open and teardown; page fetches
	// capture it so a response landing after the session moved on is
	// discarded instead of applied.
	generation uint64
}

// NewSessionService creates the reader session in its Idle state.
func NewSessionService(
	client domain.LibraryClient,
	auth domain.AuthService,
	policy *AccessPolicy,
	progress domain.ProgressSync,
	logger domain.Logger,
) domain.SessionService {
	return &readerSession{
		client:   client,
		auth:     auth,
		policy:   policy,
		progress: progress,
		logger:   logger,
	}
}

// Open enters reading mode on a book. The allowed page count comes from
// the access policy, the starting page from the remote progress mirror,
// clamped in case a role change or book edit left the stored page out of
// range.
func (s *readerSession) Open(ctx context.Context, bookID int) (*domain.RenderInstruction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.auth.CurrentUser()
	if user == nil {
		s.teardownLocked()
		return nil, apperrors.NewUnauthenticated("sign in to read")
	}
	if _, ok := s.auth.Token(); !ok {
		s.teardownLocked()
		return nil, apperrors.NewUnauthenticated("session expired, sign in again")
	}

	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	totalAllowed := s.policy.AllowedPages(user.Role.Name, book.Pages)
	if totalAllowed < 1 {
		totalAllowed = 1
	}

	page := s.progress.Position(ctx, bookID)
	if page < 1 {
		page = 1
	}
	if page > totalAllowed {
		page = totalAllowed
	}

	s.generation++
	s.session = domain.ReaderSession{
		ActiveBook:        book,
		CurrentPage:       page,
		TotalAllowedPages: totalAllowed,
	}

	s.logger.Info("Reading mode entered", "book_id", book.ID, "page", page, "total_allowed", totalAllowed)
	return s.loadPageLocked(ctx)
}

// Advance moves one page forward. At the last allowed page it is a
// no-op: the view disables the control, and the session refuses the
// crossing independently.
func (s *readerSession) Advance(ctx context.Context) (*domain.RenderInstruction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Reading() || s.session.CurrentPage >= s.session.TotalAllowedPages {
		return s.snapshotLocked(), nil
	}

	user := s.auth.CurrentUser()
	if user == nil {
		s.teardownLocked()
		return nil, apperrors.NewUnauthenticated("sign in to read")
	}

	// The policy is re-checked on every advance; a corrupt
	// TotalAllowedPages must not let a restricted role past the preview.
	next := s.session.CurrentPage + 1
	if next > s.policy.AllowedPages(user.Role.Name, s.session.ActiveBook.Pages) {
		return nil, apperrors.NewForbidden("page is beyond the allowed preview")
	}

	s.session.CurrentPage = next
	// Position is persisted before the page fetch begins, so a failure
	// mid-fetch cannot lose the navigation.
	s.progress.RecordPosition(s.session.ActiveBook.ID, next)
	return s.loadPageLocked(ctx)
}

// Retreat moves one page back; a no-op at page 1.
func (s *readerSession) Retreat(ctx context.Context) (*domain.RenderInstruction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Reading() || s.session.CurrentPage <= 1 {
		return s.snapshotLocked(), nil
	}

	s.session.CurrentPage--
	s.progress.RecordPosition(s.session.ActiveBook.ID, s.session.CurrentPage)
	return s.loadPageLocked(ctx)
}

// Close leaves reading mode. The position was already persisted by the
// last navigation, so nothing is saved here.
func (s *readerSession) Close() *domain.RenderInstruction {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Reading() {
		s.logger.Info("Reading mode left", "book_id", s.session.ActiveBook.ID)
	}
	s.generation++
	s.session = domain.ReaderSession{}
	return s.snapshotLocked()
}

// Snapshot reports the current state without fetching page content.
func (s *readerSession) Snapshot() *domain.RenderInstruction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// loadPageLocked fetches and formats the current page. An expired
// credential tears the session down; any other failure leaves the
// cursor untouched so the reader can simply retry.
func (s *readerSession) loadPageLocked(ctx context.Context) (*domain.RenderInstruction, error) {
	generation := s.generation
	book := s.session.ActiveBook
	page := s.session.CurrentPage

	token, ok := s.auth.Token()
	if !ok {
		s.teardownLocked()
		return nil, apperrors.NewUnauthenticated("session expired, sign in again")
	}

	content, err := s.client.PageContent(ctx, token, book.ID, page)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindUnauthenticated) {
			s.logger.Warn("Credential rejected mid-session", "book_id", book.ID)
			s.teardownLocked()
			return nil, err
		}
		s.logger.Error("Failed to load book page", err, "book_id", book.ID, "page", page)
		return nil, apperrors.NewUnavailable("page unavailable", err)
	}

	if s.generation != generation || s.session.ActiveBook == nil || s.session.ActiveBook.ID != book.ID {
		return nil, apperrors.NewUnavailable("page response arrived for a closed session", domain.ErrStaleResponse)
	}

	instruction := s.snapshotLocked()
	instruction.FormattedPage = FormatPage(content)
	return instruction, nil
}

func (s *readerSession) snapshotLocked() *domain.RenderInstruction {
	if !s.session.Reading() {
		return &domain.RenderInstruction{}
	}
	book := s.session.ActiveBook
	return &domain.RenderInstruction{
		Title:       book.Title + " - " + book.Author,
		CurrentPage: s.session.CurrentPage,
		TotalPages:  s.session.TotalAllowedPages,
		CanAdvance:  s.session.CurrentPage < s.session.TotalAllowedPages,
		CanRetreat:  s.session.CurrentPage > 1,
	}
}

// teardownLocked resets to Idle and invalidates the local credential;
// every authentication failure unwinds through here.
func (s *readerSession) teardownLocked() {
	s.generation++
	s.session = domain.ReaderSession{}
	s.auth.ClearCredential()
}

func (s *readerSession) findBook(ctx context.Context, bookID int) (*domain.Book, error) {
	books, err := s.client.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	for _, book := range books {
		if book.ID == bookID {
			return book, nil
		}
	}
	return nil, apperrors.NewValidation("book not found in catalog")
}
