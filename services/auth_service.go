package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"band-backend/apperrors"
	"band-backend/models"
)

const tokenIssuer = "band-backend"

// AdminStore persists admin accounts.
type AdminStore interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, admin *models.Admin) error
	FindByID(ctx context.Context, id uint) (*models.Admin, error)
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

// Identity is the admin a bearer token was issued to.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Claims is the bearer-token payload.
type Claims struct {
	AdminID  uint   `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	admins     AdminStore
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
}

type AuthOption func(*AuthService)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.bcryptCost = cost }
}

func NewAuthService(admins AdminStore, secret string, ttl time.Duration, opts ...AuthOption) *AuthService {
	s := &AuthService{
		admins:     admins,
		secret:     []byte(secret),
		ttl:        ttl,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HashSecret bcrypt-hashes a password or reset secret.
func (s *AuthService) HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.Validation("Password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// Login checks the credentials and returns a signed bearer token. Unknown
// usernames and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", apperrors.InvalidCredentials()
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", apperrors.InvalidCredentials()
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", apperrors.InvalidCredentials()
	}

	return s.IssueToken(admin)
}

// IssueToken signs an HS256 token for admin valid for the configured ttl.
func (s *AuthService) IssueToken(admin *models.Admin) (string, error) {
	now := s.now()
	claims := &Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(admin.ID), 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Authenticate validates a bearer token. An empty token is Unauthenticated;
// a bad signature, wrong algorithm or expired token is Forbidden.
func (s *AuthService) Authenticate(tokenString string) (*Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, apperrors.Unauthenticated("Access token required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperrors.Forbidden("Invalid or expired token", err)
	}
	return &Identity{ID: claims.AdminID, Username: claims.Username}, nil
}

// EnsureDefaultAdmin creates the bootstrap admin when no admin exists yet.
// It reports whether an account was created.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, password, email string) (bool, error) {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := s.HashSecret(password)
	if err != nil {
		return false, err
	}
	admin := &models.Admin{Username: username, Password: hash, Email: email}
	if err := s.admins.Create(ctx, admin); err != nil {
		return false, err
	}
	slog.Info("default admin account created", "username", username)
	return true, nil
}
