package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/auth"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/user"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/database"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/jwt"
	"github.com/opsgrid/opsgrid-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	db          *database.DB
	userRepo    user.UserRepository
	jwtService  jwt.Service
	refreshRepo postgresql.RefreshTokenRepository
}

func NewAuthService(
	db *database.DB,
	userRepo user.UserRepository,
	jwtService jwt.Service,
	refreshRepo postgresql.RefreshTokenRepository,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		db:          db,
		userRepo:    userRepo,
		jwtService:  jwtService,
		refreshRepo: refreshRepo,
	}
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, u user.User) (auth.TokenResponse, error) {
	accessToken, accessExp, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.DisplayName, u.IsAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExp, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.refreshRepo.Store(ctx, u.ID, refreshToken, time.Unix(refreshExp, 0)); err != nil {
		return auth.TokenResponse{}, err
	}

	return auth.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  accessExp,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExp,
	}, nil
}

// Register implements auth.AuthService.
func (s *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return auth.TokenResponse{}, user.ErrEmailExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return auth.TokenResponse{}, fmt.Errorf("failed to check existing email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashedStr := string(hashed)

	newUser, err := s.userRepo.Create(ctx, user.User{
		Email:        req.Email,
		PasswordHash: &hashedStr,
		DisplayName:  req.DisplayName,
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return s.issueTokens(ctx, newUser)
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if u.PasswordHash == nil {
		// Google-only account, no password set.
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, u)
}

// LoginWithGoogle implements auth.AuthService.
func (s *AuthServiceImpl) LoginWithGoogle(ctx context.Context, googleID, email, avatarURL string) (auth.TokenResponse, error) {
	u, err := s.userRepo.GetByGoogleID(ctx, googleID)
	if err == nil {
		return s.issueTokens(ctx, u)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by google id: %w", err)
	}

	// Link the Google identity to an existing account with the same email.
	u, err = s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		u.GoogleID = &googleID
		if u.AvatarURL == nil && avatarURL != "" {
			u.AvatarURL = &avatarURL
		}
		u.EmailVerified = true
		if err := s.userRepo.Update(ctx, u); err != nil {
			return auth.TokenResponse{}, err
		}
		return s.issueTokens(ctx, u)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	newUser := user.User{
		Email:         email,
		DisplayName:   email,
		GoogleID:      &googleID,
		EmailVerified: true,
	}
	if avatarURL != "" {
		newUser.AvatarURL = &avatarURL
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return s.issueTokens(ctx, created)
}

// Refresh implements auth.AuthService.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.TokenResponse, error) {
	userID, active, err := s.refreshRepo.IsActive(ctx, refreshToken)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	if !active {
		return auth.TokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenResponse{}, auth.ErrUserNotFound
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	// Rotate: the presented token is single-use. Revoking the old token
	// and storing the new one happen in one transaction so a crash in
	// between cannot leave the user without a valid refresh token.
	var tokens auth.TokenResponse
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.refreshRepo.Revoke(txCtx, refreshToken); err != nil {
			return err
		}

		tokens, err = s.issueTokens(txCtx, u)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokens, nil
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	s.jwtService.RevokeToken(refreshToken)
	return s.refreshRepo.Revoke(ctx, refreshToken)
}
