package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func errorJSON(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// SplitBookPath extracts the book id and optional subresource from paths like
// /api/books/{id} and /api/books/{id}/qr.
func SplitBookPath(path string) (bookID, sub string) {
	rest := strings.TrimPrefix(path, "/api/books/")
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", ""
	}
	parts := strings.SplitN(rest, "/", 2)
	bookID = parts[0]
	if len(parts) == 2 {
		sub = parts[1]
	}
	return bookID, sub
}
