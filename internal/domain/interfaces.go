package domain

import (
	"context"
	"time"
)

// LibraryClient is the remote document library service contract.
// Every call is stateless against the service; authenticated calls carry
// the bearer token.
type LibraryClient interface {
	ListBooks(ctx context.Context) ([]*Book, error)
	PageContent(ctx context.Context, token string, bookID, page int) (string, error)
	GetProgress(ctx context.Context, token string, bookID int) (*Progress, error)
	SaveProgress(ctx context.Context, token string, bookID, page int) error
	Profile(ctx context.Context, token string) (*User, error)
	Login(ctx context.Context, login, password string) (*Credential, error)
	Register(ctx context.Context, login, email, password string) error
	Logout(ctx context.Context, token string) error
}

// KeyValueStore is the client-side persistence abstraction (the browser
// localStorage analog) used for the credential and reader preferences.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// SessionService drives the reader session state machine. Each operation
// returns a render instruction for the view layer, or an error carrying
// one of the pkg/errors kinds.
type SessionService interface {
	Open(ctx context.Context, bookID int) (*RenderInstruction, error)
	Advance(ctx context.Context) (*RenderInstruction, error)
	Retreat(ctx context.Context) (*RenderInstruction, error)
	Close() *RenderInstruction
	Snapshot() *RenderInstruction
}

// ProgressSync mirrors the reader's position against the remote service.
// Position never fails: no credential, no saved entry and unreachable
// service all mean "start at page 1". RecordPosition is fire-and-forget
// and must preserve the order pages were visited.
type ProgressSync interface {
	Position(ctx context.Context, bookID int) int
	RecordPosition(bookID, page int)
	Stop()
}

// AuthService owns the credential lifecycle and the cached profile.
type AuthService interface {
	Login(ctx context.Context, login, password string) (*User, error)
	Register(ctx context.Context, login, email, password string) (*User, error)
	Logout(ctx context.Context)
	Profile(ctx context.Context) (*User, error)
	CurrentUser() *User
	Token() (string, bool)
	ClearCredential()
}

// CatalogService lists the library's books.
type CatalogService interface {
	List(ctx context.Context) ([]*Book, error)
}

// PreferenceService manages reader display preferences.
type PreferenceService interface {
	Get() ReaderPreferences
	Update(prefs ReaderPreferences) error
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetGatewayPort() string
	GetServiceBaseURL() string
	GetStatePath() string
	GetLogLevel() string
	GetRequestTimeout() time.Duration
	GetUnrestrictedRoles() []string
	GetAllowedOrigins() []string
}
