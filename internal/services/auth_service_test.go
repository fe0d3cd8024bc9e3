package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"fieldbooking/internal/domain"
	"fieldbooking/internal/domain/models"
)

var userCols = []string{"id", "name", "email", "password_hash", "role", "created_at"}

func newAuthService(t *testing.T) (AuthService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := AuthService{DB: db, Secret: []byte("test-secret")}
	return svc, mock, func() { db.Close() }
}

func TestRegisterCreatesUserWithToken(t *testing.T) {
	svc, mock, done := newAuthService(t)
	defer done()

	mock.ExpectQuery("FROM users").WithArgs("somchai@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Somchai",
		Email:    " Somchai@Example.com ",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if user.Email != "somchai@example.com" {
		t.Fatalf("email must be normalized, got %s", user.Email)
	}
	if user.Role != models.RoleUser {
		t.Fatalf("self-registration must yield USER role, got %s", user.Role)
	}
	if token == "" {
		t.Fatalf("expected a signed token")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	svc, mock, done := newAuthService(t)
	defer done()

	mock.ExpectQuery("FROM users").WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "Taken", "taken@example.com", "x", models.RoleUser, time.Now()))

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Somchai",
		Email:    "taken@example.com",
		Password: "secret-pass",
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no insert should run: %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _, done := newAuthService(t)
	defer done()

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Somchai",
		Email:    "somchai@example.com",
		Password: "short",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock, done := newAuthService(t)
	defer done()

	hash, err := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	mock.ExpectQuery("FROM users").WithArgs("somchai@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "Somchai", "somchai@example.com", string(hash), models.RoleUser, time.Now()))

	_, _, err = svc.Login(context.Background(), LoginInput{Email: "somchai@example.com", Password: "wrong-pass"})
	if !domain.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	svc, mock, done := newAuthService(t)
	defer done()

	mock.ExpectQuery("FROM users").WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, _, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"})
	if !domain.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestIssueTokenRoundTrip(t *testing.T) {
	svc := AuthService{Secret: []byte("test-secret"), Expiry: time.Hour}

	signed, err := svc.IssueToken("u1", models.RoleAdmin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims["user_id"] != "u1" || claims["role"] != models.RoleAdmin {
		t.Fatalf("claims mismatch: %v", claims)
	}
}
