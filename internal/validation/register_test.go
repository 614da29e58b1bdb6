package validation

import (
	"errors"
	"testing"

	"github.com/shelfswap/shelfswap/internal/models"
	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
)

func validRegistration() *usermodel.RegisterRequest {
	return &usermodel.RegisterRequest{
		Name:     "Asha",
		Mobile:   "555-0101",
		Email:    "asha@example.com",
		Password: "pw123",
		Role:     usermodel.RoleOwner,
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	if err := ValidateRegistration(validRegistration()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRegistration_MissingName(t *testing.T) {
	req := validRegistration()
	req.Name = ""

	if err := ValidateRegistration(req); !errors.Is(err, ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestValidateRegistration_BadEmail(t *testing.T) {
	req := validRegistration()
	req.Email = "not-an-email"

	if err := ValidateRegistration(req); !errors.Is(err, ErrEmailInvalid) {
		t.Errorf("expected ErrEmailInvalid, got %v", err)
	}
}

func TestValidateRegistration_MissingPassword(t *testing.T) {
	req := validRegistration()
	req.Password = ""

	if err := ValidateRegistration(req); !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestValidateRegistration_InvalidRole(t *testing.T) {
	req := validRegistration()
	req.Role = "Admin"

	if err := ValidateRegistration(req); !errors.Is(err, ErrRoleInvalid) {
		t.Errorf("expected ErrRoleInvalid, got %v", err)
	}
}

func TestValidateRegistration_SeekerRole(t *testing.T) {
	req := validRegistration()
	req.Role = usermodel.RoleSeeker

	if err := ValidateRegistration(req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateLogin_MissingEmail(t *testing.T) {
	err := ValidateLogin(&usermodel.LoginRequest{Password: "pw123"})
	if !errors.Is(err, ErrEmailRequired) {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
}

func TestValidateStatus(t *testing.T) {
	if err := ValidateStatus(models.StatusAvailable); err != nil {
		t.Errorf("unexpected error for Available: %v", err)
	}
	if err := ValidateStatus(models.StatusRented); err != nil {
		t.Errorf("unexpected error for Rented/Exchanged: %v", err)
	}
	if err := ValidateStatus("Lost"); !errors.Is(err, ErrStatusInvalid) {
		t.Errorf("expected ErrStatusInvalid, got %v", err)
	}
}
