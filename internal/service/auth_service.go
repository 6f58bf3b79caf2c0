package service

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

	"productive-boards/internal/model"
	"productive-boards/internal/repository"
)

const minPasswordLength = 6

// RegisterInput represents data required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService registers accounts, issues bearer tokens and resolves them
// back into principals.
type AuthService struct {
	store  *repository.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger
}

func NewAuthService(store *repository.Store, secret string, ttl time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, invalidf("name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, invalidf("email is invalid")
	}
	if len(input.Password) < minPasswordLength {
		return nil, invalidf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{Name: name, Email: email, PasswordHash: string(hash)}
	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		taken, err := repos.Users.EmailTaken(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return invalidf("email already registered")
		}
		return repos.Users.Create(ctx, &user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID)
	return &user, nil
}

// Login checks credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user *model.User
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		user, err = repos.Users.FindByEmail(ctx, email)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return "", unauthenticatedf("invalid email or password")
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", unauthenticatedf("invalid email or password")
	}

	return s.IssueToken(user.ID)
}

// IssueToken signs a token naming userID as its subject.
func (s *AuthService) IssueToken(userID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate resolves a bearer token into a principal id. Any failure is
// ErrUnauthenticated; no resource is looked up.
func (s *AuthService) Authenticate(token string) (uint, error) {
	if token == "" {
		return 0, unauthenticatedf("missing credentials")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return 0, unauthenticatedf("invalid token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, unauthenticatedf("invalid token subject")
	}
	return uint(id), nil
}
