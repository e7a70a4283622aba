package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"mindpal/internal/domain"
	"mindpal/internal/logger"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores anything longer
	minUsernameLength = 2
	maxUsernameLength = 32
)

// validate checks fields for callers that do not come through gin binding.
var validate = validator.New()

type AuthService struct {
	users  UserStore
	tokens *TokenManager
}

func NewAuthService(users UserStore, tokens *TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// AuthResult is returned after a successful register or login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, email, username, password string) (*AuthResult, error) {
	const op = "service.AuthService.Register"

	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return nil, domain.NewValidationError("email", "must be a valid address")
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return nil, domain.NewValidationError("username", fmt.Sprintf("must be %d to %d characters", minUsernameLength, maxUsernameLength))
	}
	if n := len(password); n < minPasswordLength || n > maxPasswordLength {
		return nil, domain.NewValidationError("password", fmt.Sprintf("must be %d to %d bytes", minPasswordLength, maxPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: hash: %w", op, err)
	}

	u := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Level:        1,
		Pet: domain.Pet{
			Happiness: domain.InitialPetHappiness,
			Health:    domain.InitialPetHealth,
			Items:     []string{},
		},
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: token: %w", op, err)
	}

	logger.FromContext(ctx).Info("user registered", "user_id", u.ID)
	return &AuthResult{Token: token, User: u}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "service.AuthService.Login"

	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: token: %w", op, err)
	}
	return &AuthResult{Token: token, User: u}, nil
}
