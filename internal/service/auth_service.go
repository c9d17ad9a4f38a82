package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/Eursukkul/canchas-booking/internal/audit"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/Eursukkul/canchas-booking/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt refuses longer inputs.
	maxPasswordBytes = 72
)

// Authenticator resolves credentials to an active user or apperr.ErrUnauthorized.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type bcryptAuthenticator struct {
	users repository.UserRepository
}

func NewBcryptAuthenticator(users repository.UserRepository) Authenticator {
	return &bcryptAuthenticator{users: users}
}

func (a *bcryptAuthenticator) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := a.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	if !u.Active {
		return nil, fmt.Errorf("%w: user is inactive", apperr.ErrUnauthorized)
	}
	return u, nil
}

type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, actor session.Actor) error
	Register(ctx context.Context, actor session.Actor, in RegisterInput) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// EnsureAdmin creates the first admin when none exists.
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

type authService struct {
	users         repository.UserRepository
	authenticator Authenticator
	recorder      audit.Recorder
	tokens        TokenConfig
	now           func() time.Time
}

func NewAuthService(users repository.UserRepository, authenticator Authenticator, recorder audit.Recorder, tokens TokenConfig) AuthService {
	return &authService{
		users:         users,
		authenticator: authenticator,
		recorder:      recorder,
		tokens:        tokens,
		now:           time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.TouchLastAccess(ctx, u.ID, now); err != nil {
		log.Printf("[Auth] failed to update last access for %s: %v", u.Email, err)
	} else {
		u.LastAccessAt = &now
	}

	token, expires, err := auth.CreateAccessToken(s.tokens.Secret, u.ID, string(u.Role), u.Email, now, s.tokens.TTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	actor := session.Actor{UserID: u.ID, Email: u.Email, Role: u.Role}
	record(ctx, s.recorder, actor, models.EntityUsers, models.ActionLogin,
		fmt.Sprintf("%s logged in", u.Email), nil, nil)

	return &LoginResult{Token: token, ExpiresAt: expires, User: u}, nil
}

// Logout only records the event; tokens are stateless and expire on their own.
func (s *authService) Logout(ctx context.Context, actor session.Actor) error {
	if actor.UserID == 0 {
		return apperr.ErrUnauthorized
	}
	record(ctx, s.recorder, actor, models.EntityUsers, models.ActionLogout,
		fmt.Sprintf("%s logged out", actor.Email), nil, nil)
	return nil
}

func (s *authService) Register(ctx context.Context, actor session.Actor, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalidInput)
	}
	if err := validate.Var(in.Email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", apperr.ErrInvalidInput, in.Email)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", apperr.ErrInvalidInput, minPasswordLength)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", apperr.ErrInvalidInput, maxPasswordBytes)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidInput, in.Role)
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("%w: email %s", apperr.ErrDuplicate, in.Email)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Active:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	record(ctx, s.recorder, actor, models.EntityUsers, models.ActionInsert,
		fmt.Sprintf("user %s registered as %s", u.Email, u.Role), nil, u)
	return u, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}

func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" {
		return nil
	}
	admins, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}

	u, err := s.Register(ctx, session.System, RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Printf("[Auth] created default admin %s", u.Email)
	return nil
}
