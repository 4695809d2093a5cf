package service

import (
	"context"
	"sync"
	"testing"

	"book-reader/internal/domain"
	apperrors "book-reader/pkg/errors"
)

type mockLibraryClient struct {
	mu sync.Mutex

	books     []*domain.Book
	pages     map[int]map[int]string
	progress  map[int]int
	saved     []saveRequest
	pageCalls int

	listErr error
	pageErr error
	saveErr error
}

func newMockLibraryClient() *mockLibraryClient {
	return &mockLibraryClient{
		pages:    make(map[int]map[int]string),
		progress: make(map[int]int),
	}
}

func (m *mockLibraryClient) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.books, nil
}

func (m *mockLibraryClient) PageContent(ctx context.Context, token string, bookID, page int) (string, error) {
	m.mu.Lock()
	m.pageCalls++
	m.mu.Unlock()
	if m.pageErr != nil {
		return "", m.pageErr
	}
	if content, ok := m.pages[bookID][page]; ok {
		return content, nil
	}
	return "page text", nil
}

func (m *mockLibraryClient) GetProgress(ctx context.Context, token string, bookID int) (*domain.Progress, error) {
	page, ok := m.progress[bookID]
	if !ok {
		return nil, domain.ErrNoProgress
	}
	return &domain.Progress{CurrentPage: page}, nil
}

func (m *mockLibraryClient) SaveProgress(ctx context.Context, token string, bookID, page int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, saveRequest{bookID: bookID, page: page})
	return nil
}

func (m *mockLibraryClient) Profile(ctx context.Context, token string) (*domain.User, error) {
	return nil, apperrors.NewUnavailable("not wired in this mock", nil)
}

func (m *mockLibraryClient) Login(ctx context.Context, login, password string) (*domain.Credential, error) {
	return nil, apperrors.NewUnavailable("not wired in this mock", nil)
}

func (m *mockLibraryClient) Register(ctx context.Context, login, email, password string) error {
	return nil
}

func (m *mockLibraryClient) Logout(ctx context.Context, token string) error {
	return nil
}

func (m *mockLibraryClient) savedPages() []saveRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]saveRequest, len(m.saved))
	copy(out, m.saved)
	return out
}

func (m *mockLibraryClient) pageCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageCalls
}

type mockAuthService struct {
	user    *domain.User
	token   string
	cleared bool
}

func (m *mockAuthService) Login(ctx context.Context, login, password string) (*domain.User, error) {
	return m.user, nil
}

func (m *mockAuthService) Register(ctx context.Context, login, email, password string) (*domain.User, error) {
	return m.user, nil
}

func (m *mockAuthService) Logout(ctx context.Context) {}

func (m *mockAuthService) Profile(ctx context.Context) (*domain.User, error) {
	return m.user, nil
}

func (m *mockAuthService) CurrentUser() *domain.User {
	return m.user
}

func (m *mockAuthService) Token() (string, bool) {
	if m.token == "" {
		return "", false
	}
	return m.token, true
}

func (m *mockAuthService) ClearCredential() {
	m.cleared = true
	m.user = nil
	m.token = ""
}

// mockProgressSync records positions synchronously so tests can assert
// ordering without racing a worker goroutine.
type mockProgressSync struct {
	position int
	recorded []saveRequest
}

func (m *mockProgressSync) Position(ctx context.Context, bookID int) int {
	if m.position < 1 {
		return 1
	}
	return m.position
}

func (m *mockProgressSync) RecordPosition(bookID, page int) {
	m.recorded = append(m.recorded, saveRequest{bookID: bookID, page: page})
}

func (m *mockProgressSync) Stop() {}

// MockLogger records messages; the progress worker logs from its own
// goroutine, so access is locked.
type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) append(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *MockLogger) logged() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.append("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	if err != nil {
		msg = msg + " - " + err.Error()
	}
	m.append("ERROR: " + msg)
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.append("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.append("WARN: " + msg)
}

func newTestSession(client *mockLibraryClient, auth *mockAuthService, progress *mockProgressSync) domain.SessionService {
	policy := NewAccessPolicy([]string{"admin", "super"})
	return NewSessionService(client, auth, policy, progress, NewMockLogger())
}

func readerUser(role string) *domain.User {
	return &domain.User{
		ID:    7,
		Login: "reader",
		Email: "reader@example.com",
		Role:  domain.Role{ID: 1, Name: role},
	}
}

func catalogWith(pages int) *mockLibraryClient {
	client := newMockLibraryClient()
	client.books = []*domain.Book{{
		ID:     1,
		Title:  "War and Peace",
		Author: "Tolstoy",
		Pages:  pages,
	}}
	return client
}

func TestSession_OpenUnauthenticated(t *testing.T) {
	client := catalogWith(40)
	auth := &mockAuthService{}
	svc := newTestSession(client, auth, &mockProgressSync{})

	_, err := svc.Open(context.Background(), 1)
	if !apperrors.IsKind(err, apperrors.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}
	if snapshot := svc.Snapshot(); snapshot.CurrentPage != 0 {
		t.Fatalf("expected idle session, got page %d", snapshot.CurrentPage)
	}
}

func TestSession_OpenRestrictedRoleCapsPages(t *testing.T) {
	client := catalogWith(40)
	auth := &mockAuthService{user: readerUser("user"), token: "tok"}
	svc := newTestSession(client, auth, &mockProgressSync{})

	instruction, err := svc.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if instruction.TotalPages != 15 {
		t.Fatalf("expected 15 allowed pages, got %d", instruction.TotalPages)
	}
	if instruction.CurrentPage != 1 {
		t.Fatalf("expected to start at page 1, got %d", instruction.CurrentPage)
	}
	if !instruction.CanAdvance || instruction.CanRetreat {
		t.Fatalf("expected advance enabled and retreat disabled at page 1")
	}
	if instruction.Title != "War and Peace - Tolstoy" {
		t.Fatalf("unexpected title %q", instruction.Title)
	}
}

func TestSession_OpenUnrestrictedRoleFullBook(t *testing.T) {
	client := catalogWith(40)
	auth := &mockAuthService{user: readerUser("admin"), token: "tok"}
	svc := newTestSession(client, auth, &mockProgressSync{})

	instruction, err := svc.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if instruction.TotalPages != 40 {
		t.Fatalf("expected 40 allowed pages, got %d", instruction.TotalPages)
	}
}

func TestSession_OpenResumesSavedProgress(t *testing.T) {
	client := catalogWith(40)
	auth := &mockAuthService{user: readerUser("user"), token: "tok"}
	svc := newTestSession(client, auth, &mockProgressSync{position: 9})

	instruction, err := svc.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if instruction.CurrentPage != 9 {
		t.Fatalf("expected to resume at page 9, got %d", instruction.CurrentPage)
	}
}

func TestSession_OpenClampsStaleProgress(t *testing.T) {
	// A role change or book edit can leave a stored page beyond the
	// allowed range.
	client := catalogWith(40)
	auth := &mockAuthService{user: readerUser("user"), token: "tok"}
	svc := newTestSession(client, auth, &mockProgressSync{position: 33})

	instruction, err := svc.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if instruction.CurrentPage != 15 {
		t.Fatalf("expected clamp to page 15, got %d", instruction.CurrentPage)
	}
}

func TestSession_OpenUnknownBook(t *testing.T) {
	client := catalogWith(40)
	auth := &mockAuthService{user: readerUser("user"), token: "tok"}
	svc := newTestSession(client, auth, &mockProgressSync{})

	_, err := svc.Open(context.Background(), 999)
	if !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSession_AdvanceRetreatRoundTrip(t *testing.T) {
	client := catalogWith(40)
	auth := &mockAuthService{user: readerUser("user"), token: "tok"}
	progress := &mockProgressSync{position: 5}
	svc := newTestSession(client, auth, progress)

	if _, err := svc.Open(context.Background(), 1); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	forward, err := svc.Advance(context.Background())
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if forward.CurrentPage != 6 {
		t.Fatalf("expected page 6 after advance, got %d", forward.CurrentPage)
	}

	back, err := svc.Retreat(context.Background())
	if err != nil {
		t.Fatalf("retreat failed: %v", err)
	}
	if back.CurrentPage != 5 {
		t.Fatalf("expected page 5 after round trip, got %d", back.CurrentPage)
	}

	want := []saveRequest{{bookID: 1, page: 6}, {bookID: 1, page: 5}}
	if len(progress.recorded) != len(want) {
		t.Fatalf("expected %d saves, got %d", len(want), len(progress.recorded))
	}
	for i, req := range want {
		if progress.recorded[i] != req {
			t.Fatalf("save %d: expected %+v, got %+v", i, req, progress.recorded[i])
		}
	}
}

func TestSession_BoundariesAreNoOps(t *testing.T) {
	client := catalogWith(40)
	auth := &mockAuthService{user: readerUser("user"), token: "tok"}
	progress := &mockProgressSync{}
	svc := newTestSession(client, auth, progress)

	if _, err := svc.Open(context.Background(), 1); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	fetchesAfterOpen := client.pageCallCount()

	// Retreat at page 1.
	instruction, err := svc.Retreat(context.Background())
	if err != nil {
		t.Fatalf("retreat failed: %v", err)
	}
	if instruction.CurrentPage != 1 {
		t.Fatalf("expected page 1 unchanged, got %d", instruction.CurrentPage)
	}
	if client.pageCallCount() != fetchesAfterOpen {
		t.Fatalf("boundary retreat must not fetch a page")
	}
	if len(progress.recorded) != 0 {
		t.Fatalf("boundary retreat must not save progress")
	}

	// Walk to the last allowed page, then try to cross it.
	for i := 0; i < 14; i++ {
		if _, err := svc.Advance(context.Background()); err != nil {
			t.Fatalf("advance %d failed: %v", i+1, err)
		}
	}
	if snapshot := svc.Snapshot(); snapshot.CurrentPage != 15 {
		t.Fatalf("expected page 15 after 14 advances, got %d", snapshot.CurrentPage)
	}

	fetchesAtBoundary := client.pageCallCount()
	savesAtBoundary := len(progress.recorded)

	instruction, err = svc.Advance(context.Background())
	if err != nil {
		t.Fatalf("boundary advance failed: %v", err)
	}
	if instruction.CurrentPage != 15 {
		t.Fatalf("expected page 15 unchanged, got %d", instruction.CurrentPage)
	}
	if instruction.CanAdvance {
		t.Fatalf("expected advance disabled at the preview boundary")
	}
	if client.pageCallCount() != fetchesAtBoundary {
		t.Fatalf("boundary advance must not fetch a page")
	}
	if len(progress.recorded) != savesAtBoundary {
		t.Fatalf("boundary advance must not save progress")
	}
}

func TestSession_PageFetchFailureKeepsPosition(t *testing.T) {
	client := catalogWith(40)
	auth := &mockAuthService{user: readerUser("user"), token: "tok"}
	svc := newTestSession(client, auth, &mockProgressSync{position: 3})

	if _, err := svc.Open(context.Background(), 1); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	client.pageErr = apperrors.NewUnavailable("service down", nil)
	_, err := svc.Advance(context.Background())
	if !apperrors.IsKind(err, apperrors.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}

	// Still Reading; the cursor moved and stays where navigation put it.
	snapshot := svc.Snapshot()
	if snapshot.CurrentPage != 4 {
		t.Fatalf("expected page 4 preserved, got %d", snapshot.CurrentPage)
	}
	if snapshot.TotalPages != 15 {
		t.Fatalf("expected session still open, got %+v", snapshot)
	}
}

func TestSession_AuthRejectionMidSessionTearsDown(t *testing.T) {
	client := catalogWith(40)
	auth := &mockAuthService{user: readerUser("user"), token: "tok"}
	svc := newTestSession(client, auth, &mockProgressSync{position: 7})

	if _, err := svc.Open(context.Background(), 1); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	client.pageErr = apperrors.NewUnauthenticated("token expired")
	_, err := svc.Advance(context.Background())
	if !apperrors.IsKind(err, apperrors.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}
	if !auth.cleared {
		t.Fatalf("expected credential to be cleared")
	}
	if snapshot := svc.Snapshot(); snapshot.CurrentPage != 0 {
		t.Fatalf("expected idle session after teardown, got %+v", snapshot)
	}
}

func TestSession_CloseResetsToIdle(t *testing.T) {
	client := catalogWith(40)
	auth := &mockAuthService{user: readerUser("user"), token: "tok"}
	progress := &mockProgressSync{}
	svc := newTestSession(client, auth, progress)

	if _, err := svc.Open(context.Background(), 1); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	instruction := svc.Close()
	if instruction.CurrentPage != 0 || instruction.Title != "" {
		t.Fatalf("expected idle instruction, got %+v", instruction)
	}
	// Close saves nothing; the last navigation already did.
	if len(progress.recorded) != 0 {
		t.Fatalf("close must not save progress")
	}

	next, err := svc.Advance(context.Background())
	if err != nil {
		t.Fatalf("advance on idle failed: %v", err)
	}
	if next.CurrentPage != 0 {
		t.Fatalf("advance on idle session must be a no-op")
	}
}

func TestSession_FormatsPageContent(t *testing.T) {
	client := catalogWith(40)
	client.pages[1] = map[int]string{1: `He said \"wait\"\n\nThen left`}
	auth := &mockAuthService{user: readerUser("user"), token: "tok"}
	svc := newTestSession(client, auth, &mockProgressSync{})

	instruction, err := svc.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	want := "<p>He said \\wait\\</p><p>Then left</p>"
	if instruction.FormattedPage != want {
		t.Fatalf("expected %q, got %q", want, instruction.FormattedPage)
	}
}
