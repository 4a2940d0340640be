package user

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/bookhaven/bookshop/internal/auth"
)

var (
	ErrBadCredentials = errors.New("invalid email or password")
	ErrDeactivated    = errors.New("account deactivated")
	ErrInvalidInput   = errors.New("invalid input")
)

var (
	emailRe = regexp.MustCompile(`^[\w.\-]+@[\w.\-]+\.\w+$`)
	phoneRe = regexp.MustCompile(`^[0-9+\- ]+$`)
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

// Validate returns per-field messages so the client can surface them
// next to the form inputs.
func (r RegisterRequest) Validate() map[string]string {
	errs := map[string]string{}
	if len(strings.TrimSpace(r.Name)) < 2 {
		errs["name"] = "Name must be at least 2 characters."
	}
	switch {
	case r.Email == "":
		errs["email"] = "Email is required."
	case !emailRe.MatchString(r.Email):
		errs["email"] = "Invalid email format."
	}
	switch {
	case r.Phone == "":
		errs["phone"] = "Phone number is required."
	case !phoneRe.MatchString(r.Phone):
		errs["phone"] = "Invalid phone number."
	}
	if strings.TrimSpace(r.Address) == "" {
		errs["address"] = "Address is required."
	}
	if len(r.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters."
	}
	return errs
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if len(req.Validate()) > 0 {
		return nil, ErrInvalidInput
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Role:         auth.RoleCustomer,
		Status:       StatusActive,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks email + password and returns the caller's identity.
// Deactivated accounts are rejected even with a correct password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (auth.Identity, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return auth.Identity{}, ErrBadCredentials
	}
	if u.Status != StatusActive {
		return auth.Identity{}, ErrDeactivated
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return auth.Identity{}, ErrBadCredentials
	}
	return auth.Identity{UserID: u.ID, Role: u.Role, Name: u.Name}, nil
}
