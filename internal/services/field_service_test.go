package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/mock"

	"fieldbooking/internal/domain/models"
)

type mockFieldCache struct {
	mock.Mock
}

func (m *mockFieldCache) GetFields(ctx context.Context) ([]models.Field, error) {
	args := m.Called(ctx)
	fields, _ := args.Get(0).([]models.Field)
	return fields, args.Error(1)
}

func (m *mockFieldCache) SetFields(ctx context.Context, fields []models.Field) error {
	return m.Called(ctx, fields).Error(0)
}

var fieldCols = []string{"id", "branch_id", "name", "b_id", "b_name", "lat", "lng"}

func TestFieldListServesFromCache(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	cache := new(mockFieldCache)
	cache.On("GetFields", mock.Anything).
		Return([]models.Field{{ID: "f1", Name: "Football Field"}}, nil).Once()

	fields, err := (FieldService{DB: db, Cache: cache}).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 1 || fields[0].ID != "f1" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	cache.AssertExpectations(t)
	if err := dbMock.ExpectationsWereMet(); err != nil {
		t.Fatalf("cache hit must not touch the database: %v", err)
	}
}

func TestFieldListFallsThroughOnCacheError(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	dbMock.ExpectQuery("JOIN branches b").
		WillReturnRows(sqlmock.NewRows(fieldCols).
			AddRow("f1", "br1", "Football Field", "br1", "Main Branch", 13.75, 100.5))

	cache := new(mockFieldCache)
	cache.On("GetFields", mock.Anything).Return(nil, errors.New("redis down")).Once()
	cache.On("SetFields", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	fields, err := (FieldService{DB: db, Cache: cache}).List(context.Background())
	if err != nil {
		t.Fatalf("a cache outage must not fail a browse: %v", err)
	}
	if len(fields) != 1 || fields[0].Branch == nil || fields[0].Branch.Name != "Main Branch" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	cache.AssertExpectations(t)
}

func TestFieldListPopulatesCacheOnMiss(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	dbMock.ExpectQuery("JOIN branches b").
		WillReturnRows(sqlmock.NewRows(fieldCols).
			AddRow("f1", "br1", "Football Field", "br1", "Main Branch", 13.75, 100.5))

	cache := new(mockFieldCache)
	cache.On("GetFields", mock.Anything).Return(nil, nil).Once()
	cache.On("SetFields", mock.Anything, mock.Anything).Return(nil).Once()

	if _, err := (FieldService{DB: db, Cache: cache}).List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache.AssertExpectations(t)
}
