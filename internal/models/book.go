package models

import "time"

type BookStatus string

const (
	StatusAvailable BookStatus = "Available"
	StatusRented    BookStatus = "Rented/Exchanged"
)

func (s BookStatus) Valid() bool {
	return s == StatusAvailable || s == StatusRented
}

type Book struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Genre      string     `json:"genre"`
	City       string     `json:"city"`
	Contact    string     `json:"contact"`
	OwnerID    string     `json:"owner_id"`
	OwnerName  string     `json:"owner_name,omitempty"`
	OwnerEmail string     `json:"owner_email,omitempty"`
	Status     BookStatus `json:"status"`
	Views      int64      `json:"views"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CreateBookRequest struct {
	Title   string
	Author  string
	Genre   string
	City    string
	Contact string
	OwnerID string
}

// BookFilter narrows List results. Zero values mean no filtering.
type BookFilter struct {
	Genre string
	City  string
	Query string
}
