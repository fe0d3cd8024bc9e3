package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	intconfig "fieldbooking/internal/config"
	"fieldbooking/internal/domain"
	"fieldbooking/internal/domain/models"
	"fieldbooking/internal/repositories"
)

// AuthService handles registration, login, and token issuance. Tokens are
// HS256 with user_id and role claims.
type AuthService struct {
	UserRepo repositories.UserRepository
	DB       *sql.DB

	Secret []byte
	Expiry time.Duration
}

func (s AuthService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s AuthService) users() repositories.UserRepository {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepository{DB: s.db()}
}

func (s AuthService) expiry() time.Duration {
	if s.Expiry > 0 {
		return s.Expiry
	}
	return 24 * time.Hour
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return models.User{}, "", domain.ValidationError{Field: "name", Msg: "must not be empty"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, "", domain.ValidationError{Field: "email", Msg: "must be a valid email"}
	}
	if len(in.Password) < 8 {
		return models.User{}, "", domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	if _, err := s.users().GetByEmail(ctx, email); err == nil {
		return models.User{}, "", domain.ConflictError{Resource: "email", Msg: "already registered"}
	} else if !domain.IsNotFound(err) {
		return models.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", domain.InternalError{Msg: "hash password", Err: err}
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users().Create(ctx, user); err != nil {
		return models.User{}, "", err
	}

	token, err := s.IssueToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.users().GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, "", domain.AuthError{Msg: "invalid credentials"}
		}
		return models.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return models.User{}, "", domain.AuthError{Msg: "invalid credentials"}
	}

	token, err := s.IssueToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (s AuthService) Me(ctx context.Context, userID string) (models.User, error) {
	return s.users().GetByID(ctx, userID)
}

// IssueToken signs an HS256 token carrying the caller identity and role.
func (s AuthService) IssueToken(userID, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(s.expiry()).Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", domain.InternalError{Msg: "sign token", Err: err}
	}
	return signed, nil
}
