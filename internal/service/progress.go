package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"book-reader/internal/domain"
)

const saveQueueDepth = 64

type saveRequest struct {
	bookID int
	page   int
}

type progressSync struct {
	client domain.LibraryClient
	auth   domain.AuthService
	logger domain.Logger

	timeout time.Duration
	saves   chan saveRequest
	done    chan struct{}
	once    sync.Once
}

// NewProgressSync creates the progress mirror and starts its save
// worker. Saves flow through a single FIFO worker carrying absolute page
// numbers, so the last persisted position always equals the last page
// the reader visited even when navigation outruns the network.
func NewProgressSync(
	client domain.LibraryClient,
	auth domain.AuthService,
	config domain.Config,
	logger domain.Logger,
) domain.ProgressSync {
	s := &progressSync{
		client:  client,
		auth:    auth,
		logger:  logger,
		timeout: config.GetRequestTimeout(),
		saves:   make(chan saveRequest, saveQueueDepth),
		done:    make(chan struct{}),
	}
	go s.saveWorker()
	return s
}

// Position returns the reader's saved page for a book, defaulting to 1.
// "No progress yet" is the normal first-open case, not an error.
func (s *progressSync) Position(ctx context.Context, bookID int) int {
	token, ok := s.auth.Token()
	if !ok {
		return 1
	}

	progress, err := s.client.GetProgress(ctx, token, bookID)
	if err != nil {
		if !errors.Is(err, domain.ErrNoProgress) {
			s.logger.Warn("Failed to load reading progress", "book_id", bookID)
		}
		return 1
	}
	return progress.CurrentPage
}

// RecordPosition queues a best-effort save of the current page. It never
// blocks navigation; when the queue is full the oldest pending save is
// dropped, which is safe because every entry carries the absolute page.
func (s *progressSync) RecordPosition(bookID, page int) {
	req := saveRequest{bookID: bookID, page: page}
	for {
		select {
		case s.saves <- req:
			return
		case <-s.done:
			return
		default:
		}
		select {
		case <-s.saves:
		default:
		}
	}
}

// Stop shuts the save worker down after draining queued saves.
func (s *progressSync) Stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *progressSync) saveWorker() {
	for {
		select {
		case req := <-s.saves:
			s.save(req)
		case <-s.done:
			// Drain whatever navigation already issued.
			for {
				select {
				case req := <-s.saves:
					s.save(req)
				default:
					return
				}
			}
		}
	}
}

func (s *progressSync) save(req saveRequest) {
	token, ok := s.auth.Token()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.SaveProgress(ctx, token, req.bookID, req.page); err != nil {
		// Progress loss is tolerated; the reader keeps navigating.
		s.logger.Warn("Failed to save reading progress", "book_id", req.bookID, "page", req.page)
	}
}
