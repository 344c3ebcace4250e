package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken is returned when the email already has credentials.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned on unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type credentialRecord struct {
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	Principal    string    `json:"principal"`
	CreatedAt    time.Time `json:"created_at"`
}

// Service owns the credential store and issues bearer tokens. It sits at the
// transport boundary: the engine itself only ever sees the resolved
// principal string.
type Service struct {
	mu       sync.Mutex
	users    map[string]*credentialRecord
	secret   []byte
	tokenTTL time.Duration
}

// NewService creates the auth service with the HMAC signing secret and the
// lifetime of issued tokens.
func NewService(secret string, tokenTTL time.Duration) *Service {
	return &Service{
		users:    make(map[string]*credentialRecord),
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// SignUp creates credentials for the email and returns the new principal.
func (s *Service) SignUp(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return "", ErrEmailTaken
	}

	record := &credentialRecord{
		Email:        email,
		PasswordHash: hash,
		Principal:    uuid.NewString(),
		CreatedAt:    time.Now(),
	}
	s.users[email] = record
	return record.Principal, nil
}

// Login verifies the credentials and returns a signed bearer token.
func (s *Service) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	record, ok := s.users[email]
	s.mu.Unlock()
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(record.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(record.Principal)
}

// IssueToken signs a token whose subject is the principal.
func (s *Service) IssueToken(principal string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   principal,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// principalFromToken validates the token and returns its subject.
func (s *Service) principalFromToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}
