package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shelfswap/shelfswap/internal/cache"
	"github.com/shelfswap/shelfswap/internal/events"
	"github.com/shelfswap/shelfswap/internal/logger"
	"github.com/shelfswap/shelfswap/internal/models"
	"github.com/shelfswap/shelfswap/internal/storage"
	"github.com/shelfswap/shelfswap/internal/validation"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrNotBookOwner = errors.New("only the listing's owner can change it")
)

const listCacheKey = "books:all"

// ViewMeta carries request metadata attached to a published view event.
type ViewMeta struct {
	IP        string
	UserAgent string
	Referer   string
}

// BookService handles listing, browsing, and status changes. The cache and
// view producer are optional; a nil value disables that concern (tests run
// without redis).
type BookService struct {
	books storage.BookStore
	cache *cache.Cache
	views *events.ViewProducer
	log   *logger.Logger
}

func NewBookService(books storage.BookStore, bookCache *cache.Cache, views *events.ViewProducer) *BookService {
	return &BookService{
		books: books,
		cache: bookCache,
		views: views,
		log:   logger.New("book-service"),
	}
}

func (s *BookService) AddBook(ctx context.Context, req *models.CreateBookRequest) (*models.Book, error) {
	if err := validation.ValidateBook(req); err != nil {
		return nil, err
	}

	book, err := s.books.CreateBook(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.invalidateList(ctx)

	return book, nil
}

// ListBooks returns listings newest-first. Only the unfiltered list is
// cached; filtered queries always hit storage.
func (s *BookService) ListBooks(ctx context.Context, filter *models.BookFilter) ([]*models.Book, error) {
	unfiltered := filter == nil || (filter.Genre == "" && filter.City == "" && filter.Query == "")

	if unfiltered && s.cache != nil {
		var cached []*models.Book
		if found, err := s.cache.GetJSON(ctx, listCacheKey, &cached); err == nil && found {
			return cached, nil
		}
	}

	books, err := s.books.ListBooks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	if unfiltered && s.cache != nil {
		if err := s.cache.SetJSON(ctx, listCacheKey, books); err != nil {
			s.log.Warn("Failed to cache book list: %v", err)
		}
	}

	return books, nil
}

// GetBook fetches one listing and publishes a view event for it. A failed
// publish is logged, never surfaced; the read must not depend on analytics.
func (s *BookService) GetBook(ctx context.Context, bookID string, meta *ViewMeta) (*models.Book, error) {
	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	if s.views != nil && meta != nil {
		event := &events.ViewEvent{
			BookID:    book.ID,
			Timestamp: time.Now().Unix(),
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
			Referer:   meta.Referer,
		}
		if err := s.views.Publish(ctx, event); err != nil {
			s.log.Warn("Failed to publish view event: %v", err)
		}
	}

	return book, nil
}

// UpdateStatus flips a listing between Available and Rented/Exchanged.
// Only the listing's owner may do this.
func (s *BookService) UpdateStatus(ctx context.Context, bookID, requesterID string, status models.BookStatus) (*models.Book, error) {
	if err := validation.ValidateStatus(status); err != nil {
		return nil, err
	}

	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	if book.OwnerID != requesterID {
		return nil, ErrNotBookOwner
	}

	updated, err := s.books.UpdateBookStatus(ctx, bookID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update book status: %w", err)
	}
	if updated == nil {
		return nil, ErrBookNotFound
	}

	s.invalidateList(ctx)

	return updated, nil
}

// GetOwnedBook fetches a listing and verifies the requester owns it. Used by
// the stats endpoint, which exposes data only to the owner.
func (s *BookService) GetOwnedBook(ctx context.Context, bookID, requesterID string) (*models.Book, error) {
	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	if book.OwnerID != requesterID {
		return nil, ErrNotBookOwner
	}
	return book, nil
}

func (s *BookService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.log.Warn("Failed to invalidate book list cache: %v", err)
	}
}
