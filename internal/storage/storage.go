package storage

import (
	"context"
	"errors"

	"github.com/shelfswap/shelfswap/internal/models"
	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
)

// ErrDuplicateEmail is returned when an insert loses the race against another
// registration for the same email. The unique index on users(email) is the
// final arbiter; callers must not rely on a prior existence check alone.
var ErrDuplicateEmail = errors.New("email already registered")

// UserStore persists user credentials. Lookups return (nil, nil) when no row
// matches.
type UserStore interface {
	CreateUser(ctx context.Context, req *usermodel.RegisterRequest, passwordHash string) (*usermodel.User, error)
	GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error)
	GetUserByID(ctx context.Context, userID string) (*usermodel.User, error)
}

// BookStore persists book listings. Reads carry the owner's name and email so
// handlers never need a second lookup.
type BookStore interface {
	CreateBook(ctx context.Context, req *models.CreateBookRequest) (*models.Book, error)
	GetBookByID(ctx context.Context, bookID string) (*models.Book, error)
	ListBooks(ctx context.Context, filter *models.BookFilter) ([]*models.Book, error)
	UpdateBookStatus(ctx context.Context, bookID string, status models.BookStatus) (*models.Book, error)
}
