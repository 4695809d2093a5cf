package service

import (
	"context"

	"book-reader/internal/domain"
)

type catalogService struct {
	client domain.LibraryClient
	logger domain.Logger
}

// NewCatalogService creates the catalog listing service.
func NewCatalogService(client domain.LibraryClient, logger domain.Logger) domain.CatalogService {
	return &catalogService{
		client: client,
		logger: logger,
	}
}

// List fetches the library's books. Text fields are stripped of any
// embedded markup before a view ever sees them.
func (s *catalogService) List(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.client.ListBooks(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch book list", err)
		return nil, err
	}

	for _, book := range books {
		book.Title = StripMarkup(book.Title)
		book.Author = StripMarkup(book.Author)
		book.Annotation = StripMarkup(book.Annotation)
	}
	return books, nil
}
