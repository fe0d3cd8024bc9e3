package services

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "fieldbooking/internal/config"
	"fieldbooking/internal/domain/models"
	"fieldbooking/internal/repositories"
	"fieldbooking/internal/utils"
)

// FieldCache is the optional read-through cache for the field catalog.
type FieldCache interface {
	GetFields(ctx context.Context) ([]models.Field, error)
	SetFields(ctx context.Context, fields []models.Field) error
}

type FieldService struct {
	FieldRepo repositories.FieldRepository
	DB        *sql.DB
	Cache     FieldCache
	RequestID string
}

func (s FieldService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s FieldService) fields() repositories.FieldRepository {
	if s.FieldRepo.DB != nil {
		return s.FieldRepo
	}
	return repositories.FieldRepository{DB: s.db()}
}

// List serves the field catalog cache-first. Cache errors fall through to
// the database; a browse must not fail because Redis is down.
func (s FieldService) List(ctx context.Context) ([]models.Field, error) {
	if s.Cache != nil {
		cached, err := s.Cache.GetFields(ctx)
		if err != nil {
			utils.LogEvent(s.RequestID, "field", "cache_get", fmt.Sprintf("fields cache read failed: %v", err))
		} else if cached != nil {
			return cached, nil
		}
	}

	fields, err := s.fields().List(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil && len(fields) > 0 {
		if err := s.Cache.SetFields(ctx, fields); err != nil {
			utils.LogEvent(s.RequestID, "field", "cache_set", fmt.Sprintf("fields cache write failed: %v", err))
		}
	}
	return fields, nil
}
