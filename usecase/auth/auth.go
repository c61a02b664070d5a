package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/password"
	"github.com/fastygo/taskflow/pkg/token"
	"github.com/fastygo/taskflow/pkg/validation"
	"github.com/fastygo/taskflow/repository"
)

// Onboarder prepares starter content for a new account. It must not fail
// the signup.
type Onboarder interface {
	Onboard(ctx context.Context, userID string)
}

type SignupInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is what signup and login hand back to the client.
type Session struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

type UseCase struct {
	users       repository.UserRepository
	revocations repository.RevocationRepository
	tokens      *token.Service
	hasher      *password.Hasher
	onboarder   Onboarder
	logger      *zap.Logger
}

// New wires the auth use case. revocations and onboarder are optional.
func New(
	users repository.UserRepository,
	revocations repository.RevocationRepository,
	tokens *token.Service,
	hasher *password.Hasher,
	onboarder Onboarder,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = password.NewHasher(0)
	}
	return &UseCase{
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		hasher:      hasher,
		onboarder:   onboarder,
		logger:      logger,
	}
}

func (uc *UseCase) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, domain.ErrMissingSignupFields
	}

	if _, err := uc.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	user := &domain.User{Email: in.Email, Name: in.Name, PasswordHash: hash}
	// Create reports ErrUserExists when a concurrent signup won the race.
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	tok, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to issue token", err)
	}

	if uc.onboarder != nil {
		uc.onboarder.Onboard(ctx, user.ID)
	}

	uc.logger.Info("user signed up", zap.String("user_id", user.ID))
	return &Session{Token: tok, User: user.Public()}, nil
}

// Login answers ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (uc *UseCase) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, domain.ErrMissingCredentials
	}

	user, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := uc.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			uc.logger.Warn("stored password hash is unusable", zap.String("user_id", user.ID), zap.Error(err))
		}
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to issue token", err)
	}
	return &Session{Token: tok, User: user.Public()}, nil
}

// Authenticate resolves a bearer token to its user.
func (uc *UseCase) Authenticate(ctx context.Context, tokenString string) (*domain.User, *token.Claims, error) {
	if tokenString == "" {
		return nil, nil, domain.ErrNoToken
	}

	claims, err := uc.tokens.Verify(tokenString)
	if err != nil {
		return nil, nil, domain.ErrInvalidToken
	}

	if uc.revocations != nil {
		revoked, err := uc.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			uc.logger.Warn("revocation lookup failed", zap.Error(err))
			return nil, nil, domain.ErrInvalidToken
		}
		if revoked {
			return nil, nil, domain.ErrInvalidToken
		}
	}

	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (uc *UseCase) Logout(ctx context.Context, claims *token.Claims) error {
	if uc.revocations == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return uc.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
