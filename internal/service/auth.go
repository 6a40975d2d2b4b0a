package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Claims are the access token claims
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies access tokens
type AuthService struct {
	users  UserStore
	log    *logrus.Logger
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService initializes a new auth service
func NewAuthService(users UserStore, log *logrus.Logger, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		log:    log,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", classify(err)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.WithField("user_id", user.ID).Warn("Login with wrong password")
		return "", models.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", err
	}

	s.log.WithField("user_id", user.ID).Info("User logged in")
	return token, nil
}

// IssueToken signs an access token for user
func (s *AuthService) IssueToken(user models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", models.Internal(fmt.Errorf("failed to generate token: %w", err))
	}
	return tokenString, nil
}

// ParseToken validates a token and returns the caller it was issued to
func (s *AuthService) ParseToken(tokenString string) (int64, models.Role, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, "", fmt.Errorf("invalid token: %w", err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid token subject: %w", err)
	}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleUser {
		return 0, "", fmt.Errorf("invalid token role %q", claims.Role)
	}
	return userID, claims.Role, nil
}
