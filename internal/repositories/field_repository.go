package repositories

import (
	"context"
	"database/sql"

	intconfig "fieldbooking/internal/config"
	"fieldbooking/internal/domain"
	"fieldbooking/internal/domain/models"
)

type FieldRepository struct {
	DB *sql.DB
}

func (r FieldRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// List returns every field with its branch, ordered by field name.
func (r FieldRepository) List(ctx context.Context) ([]models.Field, error) {
	rows, err := r.db().QueryContext(ctx, `
        SELECT f.id, f.branch_id, f.name, b.id, b.name, b.lat, b.lng
        FROM fields f
        JOIN branches b ON b.id = f.branch_id
        ORDER BY f.name ASC
    `)
	if err != nil {
		return nil, domain.InternalError{Msg: "list fields", Err: err}
	}
	defer rows.Close()

	var fields []models.Field
	for rows.Next() {
		var f models.Field
		var br models.Branch
		if err := rows.Scan(&f.ID, &f.BranchID, &f.Name, &br.ID, &br.Name, &br.Lat, &br.Lng); err != nil {
			return nil, domain.InternalError{Msg: "scan field", Err: err}
		}
		f.Branch = &br
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "list fields", Err: err}
	}
	return fields, nil
}

func (r FieldRepository) GetByID(ctx context.Context, id string) (models.Field, error) {
	var f models.Field
	var br models.Branch
	err := r.db().QueryRowContext(ctx, `
        SELECT f.id, f.branch_id, f.name, b.id, b.name, b.lat, b.lng
        FROM fields f
        JOIN branches b ON b.id = f.branch_id
        WHERE f.id = ?
    `, id).Scan(&f.ID, &f.BranchID, &f.Name, &br.ID, &br.Name, &br.Lat, &br.Lng)
	if err == sql.ErrNoRows {
		return models.Field{}, domain.NotFoundError{Resource: "field"}
	}
	if err != nil {
		return models.Field{}, domain.InternalError{Msg: "get field", Err: err}
	}
	f.Branch = &br
	return f, nil
}
