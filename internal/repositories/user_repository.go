package repositories

import (
	"context"
	"database/sql"

	intconfig "fieldbooking/internal/config"
	"fieldbooking/internal/domain"
	"fieldbooking/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

func (r UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r UserRepository) getOne(ctx context.Context, where string, arg any) (models.User, error) {
	var u models.User
	err := r.db().QueryRowContext(ctx, `
        SELECT id, name, email, password_hash, role, created_at
        FROM users `+where, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "get user", Err: err}
	}
	return u, nil
}

func (r UserRepository) Create(ctx context.Context, u models.User) error {
	_, err := r.db().ExecContext(ctx, `
        INSERT INTO users (id, name, email, password_hash, role, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return domain.InternalError{Msg: "insert user", Err: err}
	}
	return nil
}
