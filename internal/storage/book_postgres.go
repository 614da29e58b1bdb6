package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shelfswap/shelfswap/internal/database"
	"github.com/shelfswap/shelfswap/internal/models"
)

type PostgresBookStore struct {
	db *database.DBManager
}

func NewPostgresBookStore(db *database.DBManager) *PostgresBookStore {
	return &PostgresBookStore{db: db}
}

func (s *PostgresBookStore) CreateBook(ctx context.Context, req *models.CreateBookRequest) (*models.Book, error) {
	bookID := uuid.New().String()
	now := time.Now()

	query := `
		INSERT INTO books (id, title, author, genre, city, contact, owner_id, status, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10)
		RETURNING id, title, author, genre, city, contact, owner_id, status, views, created_at, updated_at
	`

	var book models.Book
	err := s.db.Write().QueryRow(ctx, query,
		bookID,
		req.Title,
		req.Author,
		req.Genre,
		req.City,
		req.Contact,
		req.OwnerID,
		models.StatusAvailable,
		now,
		now,
	).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.City,
		&book.Contact,
		&book.OwnerID,
		&book.Status,
		&book.Views,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return &book, nil
}

const bookColumns = `
	b.id, b.title, b.author, b.genre, b.city, b.contact,
	b.owner_id, u.name, u.email, b.status, b.views, b.created_at, b.updated_at
`

func scanBook(row pgx.Row) (*models.Book, error) {
	var book models.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.City,
		&book.Contact,
		&book.OwnerID,
		&book.OwnerName,
		&book.OwnerEmail,
		&book.Status,
		&book.Views,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *PostgresBookStore) GetBookByID(ctx context.Context, bookID string) (*models.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN users u ON u.id = b.owner_id
		WHERE b.id = $1
	`

	book, err := scanBook(s.db.Read().QueryRow(ctx, query, bookID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

func (s *PostgresBookStore) ListBooks(ctx context.Context, filter *models.BookFilter) ([]*models.Book, error) {
	if filter == nil {
		filter = &models.BookFilter{}
	}

	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN users u ON u.id = b.owner_id
		WHERE ($1 = '' OR b.genre = $1)
		  AND ($2 = '' OR b.city = $2)
		  AND ($3 = '' OR b.title ILIKE '%' || $3 || '%' OR b.author ILIKE '%' || $3 || '%')
		ORDER BY b.created_at DESC
	`

	rows, err := s.db.Read().Query(ctx, query, filter.Genre, filter.City, filter.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

func (s *PostgresBookStore) UpdateBookStatus(ctx context.Context, bookID string, status models.BookStatus) (*models.Book, error) {
	query := `
		UPDATE books
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, title, author, genre, city, contact, owner_id, status, views, created_at, updated_at
	`

	var book models.Book
	err := s.db.Write().QueryRow(ctx, query, status, bookID).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.City,
		&book.Contact,
		&book.OwnerID,
		&book.Status,
		&book.Views,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update book status: %w", err)
	}

	return &book, nil
}
