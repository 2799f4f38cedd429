package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/virtuebox/backoffice/internal/token"
	"github.com/virtuebox/backoffice/internal/user"
)

var (
	// ErrInvalidCredentials deliberately covers both unknown email and wrong
	// password so login failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDeactivated is returned for soft-deleted accounts before the
	// password is even checked.
	ErrAccountDeactivated = errors.New("your account has been deactivated, please contact the administrator")
)

// Service validates credentials and issues session tokens.
type Service struct {
	repo  user.Repository
	codec *token.Codec
}

// NewService builds the auth service.
func NewService(repo user.Repository, codec *token.Codec) *Service {
	return &Service{repo: repo, codec: codec}
}

// Login checks the credentials and, on success, returns the account together
// with a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (user.User, string, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return user.User{}, "", err
	}

	if !u.IsActive {
		return user.User{}, "", ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	// partnerId rides in the claims so /auth/me answers without a store read.
	signed, err := s.codec.Sign(token.Claims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		Name:      u.Name,
		PartnerID: u.PartnerID,
	})
	if err != nil {
		return user.User{}, "", err
	}

	return u, signed, nil
}
