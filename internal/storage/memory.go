package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shelfswap/shelfswap/internal/models"
	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
)

// MemoryUserStore is an in-memory UserStore used by tests.
type MemoryUserStore struct {
	mu      sync.RWMutex
	users   map[string]*usermodel.User // keyed by id
	byEmail map[string]string          // email -> id, enforces uniqueness
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:   make(map[string]*usermodel.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) CreateUser(ctx context.Context, req *usermodel.RegisterRequest, passwordHash string) (*usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		return nil, ErrDuplicateEmail
	}

	now := time.Now()
	user := &usermodel.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Mobile:       req.Mobile,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID

	copied := *user
	return &copied, nil
}

func (s *MemoryUserStore) GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[email]
	if !exists {
		return nil, nil
	}

	copied := *s.users[id]
	return &copied, nil
}

func (s *MemoryUserStore) GetUserByID(ctx context.Context, userID string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, nil
	}

	copied := *user
	return &copied, nil
}

// Count returns the number of stored users.
func (s *MemoryUserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// MemoryBookStore is an in-memory BookStore used by tests. It resolves owner
// name and email against the given user store, mirroring the join the
// postgres store performs.
type MemoryBookStore struct {
	mu    sync.RWMutex
	books map[string]*models.Book
	users *MemoryUserStore
}

func NewMemoryBookStore(users *MemoryUserStore) *MemoryBookStore {
	return &MemoryBookStore{
		books: make(map[string]*models.Book),
		users: users,
	}
}

func (s *MemoryBookStore) CreateBook(ctx context.Context, req *models.CreateBookRequest) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	book := &models.Book{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Author:    req.Author,
		Genre:     req.Genre,
		City:      req.City,
		Contact:   req.Contact,
		OwnerID:   req.OwnerID,
		Status:    models.StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.books[book.ID] = book

	return s.withOwner(ctx, book), nil
}

func (s *MemoryBookStore) GetBookByID(ctx context.Context, bookID string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, exists := s.books[bookID]
	if !exists {
		return nil, nil
	}

	return s.withOwner(ctx, book), nil
}

func (s *MemoryBookStore) ListBooks(ctx context.Context, filter *models.BookFilter) ([]*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if filter == nil {
		filter = &models.BookFilter{}
	}

	books := make([]*models.Book, 0, len(s.books))
	for _, book := range s.books {
		if filter.Genre != "" && book.Genre != filter.Genre {
			continue
		}
		if filter.City != "" && book.City != filter.City {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(book.Title), q) &&
				!strings.Contains(strings.ToLower(book.Author), q) {
				continue
			}
		}
		books = append(books, s.withOwner(ctx, book))
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})

	return books, nil
}

func (s *MemoryBookStore) UpdateBookStatus(ctx context.Context, bookID string, status models.BookStatus) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, exists := s.books[bookID]
	if !exists {
		return nil, nil
	}

	book.Status = status
	book.UpdatedAt = time.Now()

	return s.withOwner(ctx, book), nil
}

func (s *MemoryBookStore) withOwner(ctx context.Context, book *models.Book) *models.Book {
	copied := *book
	if s.users != nil {
		if owner, _ := s.users.GetUserByID(ctx, book.OwnerID); owner != nil {
			copied.OwnerName = owner.Name
			copied.OwnerEmail = owner.Email
		}
	}
	return &copied
}
