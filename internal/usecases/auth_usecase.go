package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/domain/repositories"
	"dealhub.backend/pkg/crypto"
	"dealhub.backend/pkg/jwt"
	"dealhub.backend/pkg/logger"
	"dealhub.backend/pkg/redis"
	"dealhub.backend/pkg/utils"
)

// SessionStore keeps token pairs server side for session logins
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	jwtService   *jwt.JWTService
	sessionStore SessionStore
}

// NewAuthUsecase creates a new auth usecase. sessionStore may be nil, in
// which case session logins are refused.
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	jwtService *jwt.JWTService,
	sessionStore SessionStore,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		jwtService:   jwtService,
		sessionStore: sessionStore,
	}
}

// Register creates a CUSTOMER or RESTAURANT_OWNER account
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	role := input.Role
	if role == "" {
		role = entities.UserRoleCustomer
	}
	if role != entities.UserRoleCustomer && role != entities.UserRoleRestaurantOwner {
		return nil, domainerrors.BadRequest("role must be CUSTOMER or RESTAURANT_OWNER")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.ErrEmailAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := hashPassword(input.Password)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return nil, domainerrors.BadRequest("password must be at most 72 bytes")
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.ErrEmailAlreadyExists
		}
		return nil, err
	}

	logger.Info(ctx, "User registered", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

// Authenticate verifies credentials and returns the active user
func (u *AuthUsecase) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrBadCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, domainerrors.ErrBadCredentials
	}

	if !user.IsActive {
		return nil, domainerrors.ErrAccountInactive
	}

	return user, nil
}

// Login authenticates a user and returns tokens, or a session id when
// input.UseSession is set.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	if input.UseSession && u.sessionStore == nil {
		return nil, domainerrors.BadRequest("session login is not enabled")
	}

	user, err := u.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	if !input.UseSession {
		return &entities.AuthResponse{
			AccessToken:  tokenPair.AccessToken,
			RefreshToken: tokenPair.RefreshToken,
			ExpiresAt:    tokenPair.ExpiresAt,
			User:         user,
		}, nil
	}

	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	err = u.sessionStore.CreateSession(ctx, sessionID, &redis.SessionData{
		UserID:       user.ID.String(),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	}, u.jwtService.RefreshExpiry())
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		SessionID: sessionID,
		ExpiresAt: tokenPair.ExpiresAt,
		User:      user,
	}, nil
}

// VerifyAccessToken validates an access token. Expired and invalid tokens
// map to distinct errors.
func (u *AuthUsecase) VerifyAccessToken(token string) (*jwt.Claims, error) {
	claims, err := u.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, mapTokenError(err)
	}
	return claims, nil
}

// RefreshToken exchanges a refresh token for a new pair
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	user, pair, err := u.refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         user,
	}, nil
}

func (u *AuthUsecase) refresh(ctx context.Context, refreshToken string) (*entities.User, *jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, mapTokenError(err)
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil, domainerrors.ErrTokenIsInvalid
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domainerrors.ErrAccountInactive
	}

	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ResolveSession returns the access claims held by a session. An expired
// access token is renewed from the stored refresh token.
func (u *AuthUsecase) ResolveSession(ctx context.Context, sessionID string) (*jwt.Claims, error) {
	if u.sessionStore == nil || sessionID == "" {
		return nil, domainerrors.ErrTokenIsInvalid
	}

	session, err := u.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		if redis.IsNil(err) {
			return nil, domainerrors.ErrTokenIsInvalid
		}
		return nil, err
	}

	claims, err := u.VerifyAccessToken(session.AccessToken)
	if err == nil {
		return claims, nil
	}
	if !errors.Is(err, domainerrors.ErrTokenExpired) {
		return nil, err
	}

	_, pair, err := u.refresh(ctx, session.RefreshToken)
	if err != nil {
		return nil, err
	}

	session.AccessToken = pair.AccessToken
	session.RefreshToken = pair.RefreshToken
	if err := u.sessionStore.CreateSession(ctx, sessionID, session, u.jwtService.RefreshExpiry()); err != nil {
		return nil, err
	}

	return u.VerifyAccessToken(pair.AccessToken)
}

// Logout deletes a server side session
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if u.sessionStore == nil || sessionID == "" {
		return nil
	}
	return u.sessionStore.DeleteSession(ctx, sessionID)
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrUserNotFound)
	}
	return user, nil
}

// EnsureActive fails when the account behind a still-valid token has been
// removed or deactivated since the token was issued.
func (u *AuthUsecase) EnsureActive(ctx context.Context, id uuid.UUID) error {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, domainerrors.ErrTokenIsInvalid)
	}
	if !user.IsActive {
		return domainerrors.ErrAccountInactive
	}
	return nil
}

// DeactivateUser disables an account. Users are never hard-deleted.
func (u *AuthUsecase) DeactivateUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return domainerrors.BadRequest("cannot deactivate your own account")
	}
	if err := u.userRepo.SetActive(ctx, targetID, false); err != nil {
		return mapNotFound(err, domainerrors.ErrUserNotFound)
	}
	logger.Info(ctx, "User deactivated", zap.String("user_id", targetID.String()))
	return nil
}
