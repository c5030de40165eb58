package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"obrafacil/internal/model"
	"obrafacil/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for request validation
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type RecoverPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdateProfileRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email" binding:"omitempty,email"`
	Avatar string `json:"avatar"`
}

// UserResponse is the session projection of a user. It never carries the
// password hash.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
}

type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService authenticates credentials against the user directory and
// manages the caller's session. Register promotes the first account to admin;
// everyone after that starts as collaborator.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	RecoverPassword(ctx context.Context, email string) error
}

type authService struct {
	users repository.UserRepository
	audit repository.AuditRepository
	delay time.Duration
}

// NewAuthService returns a new AuthService. delay models the artificial
// network latency of the legacy client; pass zero for deterministic tests.
func NewAuthService(users repository.UserRepository, audit repository.AuditRepository, delay time.Duration) AuthService {
	return &authService{users: users, audit: audit, delay: delay}
}

// JWTSecret returns the signing key shared by token issuance and the
// middleware verification path.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// wait blocks for the configured artificial latency, or until the caller
// gives up.
func (s *authService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func signAccessToken(user *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"name": user.Name,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(JWTSecret())
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (string, string, error) {
	access, err := signAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err := newRefreshToken()
	if err != nil {
		return "", "", err
	}
	rt := &model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.users.SaveRefreshToken(ctx, rt); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	}

	// First account in the directory becomes admin, everyone else collaborator.
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := model.RoleCollaborator
	if total == 0 {
		role = model.RoleAdmin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.auditLog(ctx, &user.ID, model.ActionRegisterUser, user.ID.String(), user.Name, map[string]interface{}{"role": role})

	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: toUserResponse(user), Token: access, RefreshToken: refresh}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: toUserResponse(user), Token: access, RefreshToken: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	rt, err := s.users.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Rotate: the presented token is spent.
	if err := s.users.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Token: access, RefreshToken: refresh}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.users.DeleteRefreshToken(ctx, refreshToken)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Email != "" && !strings.EqualFold(req.Email, user.Email) {
		if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
			return nil, ErrDuplicateEmail
		}
		user.Email = strings.TrimSpace(req.Email)
	}
	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.auditLog(ctx, &userID, model.ActionUpdateUser, user.ID.String(), user.Name, nil)

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	// Old sessions die with the old password.
	if err := s.users.DeleteRefreshTokensForUser(ctx, userID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	s.auditLog(ctx, &userID, model.ActionChangePassword, user.ID.String(), user.Name, nil)
	return nil
}

// RecoverPassword simulates sending a recovery email. It always reports
// success so the endpoint never reveals whether an account exists.
func (s *authService) RecoverPassword(ctx context.Context, email string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	_, _ = s.users.GetByEmail(ctx, strings.TrimSpace(email))
	return nil
}

func (s *authService) auditLog(ctx context.Context, userID *uuid.UUID, action, entityID, entityName string, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	payload := ""
	if details != nil {
		raw, _ := json.Marshal(details)
		payload = string(raw)
	}
	_ = s.audit.Log(ctx, &model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	})
}
