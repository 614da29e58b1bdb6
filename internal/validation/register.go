package validation

import (
	"errors"
	"regexp"

	"github.com/shelfswap/shelfswap/internal/models"
	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is not a valid address")
	ErrPasswordRequired = errors.New("password is required")
	ErrRoleInvalid      = errors.New("role must be Owner or Seeker")
	ErrStatusInvalid    = errors.New("status must be Available or Rented/Exchanged")
	ErrTitleRequired    = errors.New("title is required")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var validationErrors = []error{
	ErrNameRequired,
	ErrEmailRequired,
	ErrEmailInvalid,
	ErrPasswordRequired,
	ErrRoleInvalid,
	ErrStatusInvalid,
	ErrTitleRequired,
}

// IsValidationError reports whether err is a bad-input error that should map
// to a 400 rather than a 500.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ValidateRegistration checks the registration payload before it reaches
// storage. Invalid roles are rejected here rather than left to the schema.
func ValidateRegistration(req *usermodel.RegisterRequest) error {
	if req.Name == "" {
		return ErrNameRequired
	}
	if req.Email == "" {
		return ErrEmailRequired
	}
	if !emailRegex.MatchString(req.Email) {
		return ErrEmailInvalid
	}
	if req.Password == "" {
		return ErrPasswordRequired
	}
	if !req.Role.Valid() {
		return ErrRoleInvalid
	}
	return nil
}

func ValidateLogin(req *usermodel.LoginRequest) error {
	if req.Email == "" {
		return ErrEmailRequired
	}
	if req.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

func ValidateBook(req *models.CreateBookRequest) error {
	if req.Title == "" {
		return ErrTitleRequired
	}
	return nil
}

func ValidateStatus(status models.BookStatus) error {
	if !status.Valid() {
		return ErrStatusInvalid
	}
	return nil
}
