package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shelfswap/shelfswap/internal/clickhouse"
	"github.com/shelfswap/shelfswap/internal/logger"
	"github.com/shelfswap/shelfswap/internal/middleware"
	"github.com/shelfswap/shelfswap/internal/models"
	"github.com/shelfswap/shelfswap/internal/qrcode"
	"github.com/shelfswap/shelfswap/internal/service"
	"github.com/shelfswap/shelfswap/internal/validation"
)

type BookHandler struct {
	bookService *service.BookService
	analytics   *clickhouse.Client
	baseURL     string
	log         *logger.Logger
}

// NewBookHandler wires the listing endpoints. analytics may be nil when
// ClickHouse is not deployed; the stats endpoint then reports unavailable.
func NewBookHandler(bookService *service.BookService, analytics *clickhouse.Client, baseURL string) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		analytics:   analytics,
		baseURL:     baseURL,
		log:         logger.New("book-handler"),
	}
}

type CreateBookRequest struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Genre   string `json:"genre"`
	City    string `json:"city"`
	Contact string `json:"contact"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		errorJSON(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.bookService.AddBook(r.Context(), &models.CreateBookRequest{
		Title:   req.Title,
		Author:  req.Author,
		Genre:   req.Genre,
		City:    req.City,
		Contact: req.Contact,
		OwnerID: identity.UserID,
	})
	if err != nil {
		if validation.IsValidationError(err) {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("Failed to list book: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Error listing book")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Book listed successfully",
		"book":    book,
	})
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.BookFilter{
		Genre: q.Get("genre"),
		City:  q.Get("city"),
		Query: q.Get("q"),
	}

	books, err := h.bookService.ListBooks(r.Context(), filter)
	if err != nil {
		h.log.Error("Failed to fetch books: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Error fetching books")
		return
	}

	if books == nil {
		books = []*models.Book{}
	}

	respondJSON(w, http.StatusOK, books)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookID, _ := SplitBookPath(r.URL.Path)
	if bookID == "" {
		errorJSON(w, http.StatusBadRequest, "Book id required")
		return
	}

	meta := &service.ViewMeta{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	}

	book, err := h.bookService.GetBook(r.Context(), bookID, meta)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			errorJSON(w, http.StatusNotFound, "Book not found")
			return
		}
		h.log.Error("Failed to fetch book: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Error fetching book")
		return
	}

	respondJSON(w, http.StatusOK, book)
}

func (h *BookHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		errorJSON(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	bookID, _ := SplitBookPath(r.URL.Path)
	if bookID == "" {
		errorJSON(w, http.StatusBadRequest, "Book id required")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.bookService.UpdateStatus(r.Context(), bookID, identity.UserID, models.BookStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			errorJSON(w, http.StatusNotFound, "Book not found")
		case errors.Is(err, service.ErrNotBookOwner):
			errorJSON(w, http.StatusForbidden, "Only the owner can update this book")
		case validation.IsValidationError(err):
			errorJSON(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("Failed to update status: %v", err)
			errorJSON(w, http.StatusInternalServerError, "Error updating status")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Book status updated",
		"book":    book,
	})
}

// ShareQR returns a QR code for the listing's public URL.
func (h *BookHandler) ShareQR(w http.ResponseWriter, r *http.Request) {
	bookID, _ := SplitBookPath(r.URL.Path)
	if bookID == "" {
		errorJSON(w, http.StatusBadRequest, "Book id required")
		return
	}

	book, err := h.bookService.GetBook(r.Context(), bookID, nil)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			errorJSON(w, http.StatusNotFound, "Book not found")
			return
		}
		h.log.Error("Failed to fetch book: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Error fetching book")
		return
	}

	dataURL, err := qrcode.GenerateShareCode(h.baseURL + "/api/books/" + book.ID)
	if err != nil {
		h.log.Error("Failed to generate QR code: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Error generating QR code")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"qr_code": dataURL})
}

// Stats returns view analytics for a listing; owner only.
func (h *BookHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		errorJSON(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	bookID, _ := SplitBookPath(r.URL.Path)
	if bookID == "" {
		errorJSON(w, http.StatusBadRequest, "Book id required")
		return
	}

	if _, err := h.bookService.GetOwnedBook(r.Context(), bookID, identity.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			errorJSON(w, http.StatusNotFound, "Book not found")
		case errors.Is(err, service.ErrNotBookOwner):
			errorJSON(w, http.StatusForbidden, "Only the owner can view stats")
		default:
			h.log.Error("Failed to fetch book: %v", err)
			errorJSON(w, http.StatusInternalServerError, "Error fetching book")
		}
		return
	}

	if h.analytics == nil {
		errorJSON(w, http.StatusServiceUnavailable, "Analytics unavailable")
		return
	}

	stats, err := h.analytics.GetBookStats(r.Context(), bookID)
	if err != nil {
		h.log.Error("Failed to fetch stats: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Error fetching stats")
		return
	}

	recent, err := h.analytics.GetRecentViews(r.Context(), bookID, 20)
	if err != nil {
		h.log.Error("Failed to fetch recent views: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Error fetching stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats":        stats,
		"recent_views": recent,
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
