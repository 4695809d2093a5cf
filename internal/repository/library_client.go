package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"book-reader/internal/domain"
	apperrors "book-reader/pkg/errors"
)

// LibraryClient implements domain.LibraryClient against the remote
// library service's JSON/HTTP contract. Each call is stateless; the
// bearer token travels per request.
type LibraryClient struct {
	baseURL    string
	httpClient *http.Client
	logger     domain.Logger
}

// NewLibraryClient creates a new library service client
func NewLibraryClient(config domain.Config, logger domain.Logger) domain.LibraryClient {
	return &LibraryClient{
		baseURL: config.GetServiceBaseURL(),
		httpClient: &http.Client{
			Timeout: config.GetRequestTimeout(),
		},
		logger: logger,
	}
}

// ListBooks fetches the public catalog
func (c *LibraryClient) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	body, err := c.do(ctx, http.MethodGet, "/book/list", "", nil)
	if err != nil {
		return nil, err
	}

	var books []*domain.Book
	if err := json.Unmarshal(body, &books); err != nil {
		return nil, apperrors.NewDataError("malformed book list", err)
	}
	return books, nil
}

// PageContent fetches the raw text of one page of a book
func (c *LibraryClient) PageContent(ctx context.Context, token string, bookID, page int) (string, error) {
	query := url.Values{}
	query.Set("id", strconv.Itoa(bookID))
	query.Set("page", strconv.Itoa(page))

	body, err := c.do(ctx, http.MethodGet, "/book/read?"+query.Encode(), token, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetProgress fetches the saved reading position for a book. A missing
// entry is reported through domain.ErrNoProgress, not as a failure.
func (c *LibraryClient) GetProgress(ctx context.Context, token string, bookID int) (*domain.Progress, error) {
	body, err := c.do(ctx, http.MethodGet, "/book/progress/get?id="+strconv.Itoa(bookID), token, nil)
	if err != nil {
		return nil, err
	}

	var progress domain.Progress
	if err := json.Unmarshal(body, &progress); err != nil {
		return nil, apperrors.NewDataError("malformed progress payload", err)
	}
	if progress.CurrentPage < 1 {
		return nil, domain.ErrNoProgress
	}
	return &progress, nil
}

// SaveProgress persists the reading position for a book
func (c *LibraryClient) SaveProgress(ctx context.Context, token string, bookID, page int) error {
	payload := map[string]int{
		"book_id": bookID,
		"page":    page,
	}
	_, err := c.do(ctx, http.MethodPost, "/book/progress/set", token, payload)
	return err
}

// Profile fetches the authenticated user's profile
func (c *LibraryClient) Profile(ctx context.Context, token string) (*domain.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/profile", token, nil)
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, apperrors.NewDataError("malformed profile payload", err)
	}
	if user.Login == "" {
		return nil, apperrors.NewDataError("profile payload missing login", domain.ErrProfileMalformed)
	}
	return &user, nil
}

// Login exchanges credentials for a token pair
func (c *LibraryClient) Login(ctx context.Context, login, password string) (*domain.Credential, error) {
	payload := map[string]string{
		"login":    login,
		"password": password,
	}
	body, err := c.do(ctx, http.MethodPost, "/login", "", payload)
	if err != nil {
		return nil, err
	}

	var credential domain.Credential
	if err := json.Unmarshal(body, &credential); err != nil {
		return nil, apperrors.NewDataError("malformed login payload", err)
	}
	if credential.Token == "" {
		return nil, apperrors.NewDataError("login payload missing token", nil)
	}
	return &credential, nil
}

// Register creates a new account
func (c *LibraryClient) Register(ctx context.Context, login, email, password string) error {
	payload := map[string]string{
		"login":    login,
		"email":    email,
		"password": password,
	}
	_, err := c.do(ctx, http.MethodPost, "/registration", "", payload)
	return err
}

// Logout invalidates the token server-side
func (c *LibraryClient) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", token, nil)
	return err
}

// do issues one request against the service and maps transport and
// status failures onto the error taxonomy.
func (c *LibraryClient) do(ctx context.Context, method, path, token string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.NewDataError("failed to encode request", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, apperrors.NewUnavailable("failed to build request", nil)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Library service request failed", "method", method, "path", path)
		return nil, apperrors.NewUnavailable("library service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUnavailable("failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperrors.NewUnauthenticated("credential rejected by library service")
	case resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.NewForbidden("library service refused the request")
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NewUnavailable(fmt.Sprintf("%s not found", path), domain.ErrBookNotFound)
	case resp.StatusCode >= 400:
		return nil, apperrors.NewUnavailable(fmt.Sprintf("library service returned %d", resp.StatusCode), nil)
	}

	return body, nil
}
