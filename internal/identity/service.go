// Package identity implements user accounts and session issuance.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/olegsavin/taskboard/internal/domain"
	"github.com/olegsavin/taskboard/internal/identity/jwt"
)

// TokenIssuer creates and verifies session tokens.
type TokenIssuer interface {
	Issue(userID string, role domain.Role) (string, error)
	Verify(token string) (*jwt.Claims, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// Service implements account business logic.
type Service struct {
	repo   Repository
	tokens TokenIssuer
	hasher PasswordHasher
}

// NewService creates a new identity service.
func NewService(repo Repository, tokens TokenIssuer, hasher PasswordHasher) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
	}
}

// SignupInput holds data for creating an account.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// Signup hashes the password and inserts the user with the default role.
// A duplicate email surfaces as ErrEmailExists from the repository.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		PasswordHash: digest,
		Name:         input.Name,
		Role:         domain.RoleUser,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginResult is the identity summary returned on successful login.
type LoginResult struct {
	User  *domain.User
	Token string
}

// Login checks credentials and issues a session token.
// Unknown email and wrong password both return ErrInvalidCredentials
// so the two cases are indistinguishable to the caller. A store fault
// is not a credential failure and passes through as-is.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{User: user, Token: token}, nil
}

// ValidateToken verifies a session token and returns its subject and role.
// Used by the auth middleware.
func (s *Service) ValidateToken(_ context.Context, token string) (string, domain.Role, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Role, nil
}

// GetUserByID returns a user by id.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// ListUsers returns all users. Password hashes never leave the domain type.
func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateRole sets a user's role. The role set is open-ended; the handler
// only rejects a missing role, matching the API contract.
func (s *Service) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return s.repo.UpdateRole(ctx, id, role)
}

// DeleteUser removes a user by id.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}
