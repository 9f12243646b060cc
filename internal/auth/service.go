package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dexotix/internal/shared/config"
	"dexotix/internal/users"
	"dexotix/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionRevoked     = errors.New("session has been logged out")
)

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error
	GetProfile(ctx context.Context, userID string) (*UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *users.ProfileUpdateRequest) (*UserResponse, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type service struct {
	repo     Repository
	sessions SessionStore
	config   *config.Config
}

func NewService(repo Repository, sessions SessionStore, cfg *config.Config) Service {
	return &service{
		repo:     repo,
		sessions: sessions,
		config:   cfg,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Self-registration is always USER; admins are promoted out of band.
	user := &users.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(req.Email),
		Password:  string(hashedPassword),
		Role:      users.RoleUser,
		Phone:     req.Phone,
		City:      req.City,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.GetDefault().LogAuthSuccess(ctx, user.ID.String(), "register")
	return s.authResponse(ctx, user)
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	logger.GetDefault().LogAuthSuccess(ctx, user.ID.String(), "login")
	return s.authResponse(ctx, user)
}

func (s *service) authResponse(ctx context.Context, user *users.User) (*AuthResponse, error) {
	tokenPair, err := s.issueTokens(ctx, user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	intent, err := s.sessions.GetIntent(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session intent: %w", err)
	}
	if intent == IntentLoggedOut {
		return nil, ErrSessionRevoked
	}

	// Rotation: only the most recently issued refresh token is accepted.
	matches, err := s.sessions.RefreshTokenMatches(ctx, claims.UserID, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if !matches {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return s.issueTokens(ctx, user.ID.String(), user.Email, string(user.Role))
}

func (s *service) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.ClearSession(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := s.sessions.SetIntent(ctx, userID, IntentLoggedOut, s.config.Redis.IntentTTL); err != nil {
		return fmt.Errorf("failed to record logout intent: %w", err)
	}
	return nil
}

func (s *service) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateUserPassword(ctx, userID, string(hashedPassword)); err != nil {
		return err
	}

	// Changing the password invalidates the refresh session.
	return s.sessions.ClearSession(ctx, userID)
}

func (s *service) GetProfile(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req *users.ProfileUpdateRequest) (*UserResponse, error) {
	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.City != nil {
		updates["city"] = *req.City
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateUserProfile(ctx, userID, updates); err != nil {
			return nil, err
		}
	}

	return s.GetProfile(ctx, userID)
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.validateToken(tokenString)
}

func (s *service) issueTokens(ctx context.Context, userID, email, role string) (*TokenPair, error) {
	now := time.Now()

	accessClaims := JWTClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.JWTExpiresIn)),
			Issuer:    "dexotix",
			Subject:   userID,
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	refreshClaims := JWTClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.RefreshExpiresIn)),
			Issuer:    "dexotix",
			Subject:   userID,
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveRefreshToken(ctx, userID, refreshToken, s.config.JWT.RefreshExpiresIn); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}
	if err := s.sessions.SetIntent(ctx, userID, IntentActive, s.config.Redis.IntentTTL); err != nil {
		return nil, fmt.Errorf("failed to record session intent: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.JWTExpiresIn.Seconds()),
	}, nil
}

func (s *service) validateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
