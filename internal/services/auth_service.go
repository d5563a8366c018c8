package services

import (
	"context"
	"errors"
	"time"

	"folio_backend/internal/auth"
	"folio_backend/internal/config"
	"folio_backend/internal/logger"
	"folio_backend/internal/models"
	"folio_backend/internal/repositories"
	"folio_backend/internal/services/dto"
	"folio_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	minUsernameBytes = 3
	minPasswordBytes = 10
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.SessionResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.SessionResponse, error)
	ResolveSession(ctx context.Context, db *gorm.DB, token string) (*models.Session, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Register creates the account and logs it in, returning a fresh session.
// The DB unique constraint stays authoritative for the username; the
// preflight check only catches the common case early.
func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.SessionResponse, error) {
	if len(req.Username) < minUsernameBytes {
		return nil, apperrors.UsernameTooShort()
	}
	if len(req.Password) < minPasswordBytes {
		return nil, apperrors.PasswordTooShort()
	}
	if req.Password != req.Password2 {
		return nil, apperrors.PasswordsDontMatch()
	}

	taken, err := s.userRepo.UsernameTaken(db, req.Username)
	if err != nil {
		return nil, apperrors.DbError(err)
	}
	if taken {
		return nil, apperrors.UsernameTaken()
	}

	logger.CtxDebug(ctx, "registering new user", "username", req.Username)
	derived, err := auth.HashPassword(req.Username, req.Password, config.GetConfig().Auth.PBKDF2Iterations)
	if err != nil {
		return nil, apperrors.DbError(err)
	}
	user := models.User{
		Username:          req.Username,
		PasswordKeyBase64: &derived.KeyBase64,
		PBKDF2Iterations:  derived.Iterations,
		SaltBase64:        derived.SaltBase64,
	}
	if err := s.userRepo.Create(db, &user); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return nil, apperrors.UsernameTaken()
		}
		return nil, apperrors.DbError(err)
	}

	return s.createSession(db, user.ID)
}

// Login verifies the credentials and mints a bearer session. An unknown
// username, a disabled account and a wrong password are indistinguishable
// to the caller.
func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	user, err := s.userRepo.FindByUsername(db, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.DbError(err)
	}
	if user.PasswordKeyBase64 == nil {
		// Account soft-disabled by clearing the key.
		return nil, apperrors.InvalidCredentials()
	}

	stored := auth.DerivedKey{
		KeyBase64:  *user.PasswordKeyBase64,
		SaltBase64: user.SaltBase64,
		Iterations: user.PBKDF2Iterations,
	}
	if !auth.VerifyPassword(req.Username, req.Password, stored) {
		return nil, apperrors.InvalidCredentials()
	}

	logger.CtxDebug(ctx, "user logged in", "username", req.Username)
	return s.createSession(db, user.ID)
}

// ResolveSession maps a bearer token to its session row. Rows older than
// the expiration window count as gone even before the sweeper removes them.
func (s *authService) ResolveSession(ctx context.Context, db *gorm.DB, token string) (*models.Session, error) {
	session, err := s.userRepo.FindSession(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.InvalidSession()
		}
		return nil, apperrors.DbError(err)
	}

	window := config.GetConfig().Auth.SessionExpirationSeconds
	if session.CreatedAt < time.Now().Unix()-window {
		return nil, apperrors.InvalidSession()
	}
	return session, nil
}

func (s *authService) createSession(db *gorm.DB, userID int32) (*dto.SessionResponse, error) {
	session := models.Session{
		UUID:      uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.userRepo.CreateSession(db, &session); err != nil {
		return nil, apperrors.DbError(err)
	}
	return &dto.SessionResponse{SessionID: session.UUID}, nil
}
