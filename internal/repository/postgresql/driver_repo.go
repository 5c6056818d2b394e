package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkus/internal/domain"
	"parkus/internal/repository"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so the upsert
// statements run standalone or inside the reservation transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// upsertDriver creates or updates the driver on file. Conflict key is
// the identity document.
func upsertDriver(ctx context.Context, q querier, driver *domain.Driver) error {
	query := `INSERT INTO drivers (document, name, phone, email, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           ON CONFLICT (document) DO UPDATE
	           SET name = EXCLUDED.name, phone = EXCLUDED.phone, email = EXCLUDED.email, updated_at = CURRENT_TIMESTAMP
	           RETURNING created_at, updated_at`
	err := q.QueryRowContext(ctx, query, driver.Document, driver.Name, driver.Phone, driver.Email).
		Scan(&driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		return fmt.Errorf("DriverRepository.Upsert: %w", err)
	}
	driver.CreatedAt = driver.CreatedAt.In(time.UTC)
	driver.UpdatedAt = driver.UpdatedAt.In(time.UTC)
	return nil
}

type pgDriverRepository struct {
	db *sql.DB
}

func NewPgDriverRepository(db *sql.DB) repository.DriverRepository {
	return &pgDriverRepository{db: db}
}

func (r *pgDriverRepository) Upsert(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	if err := upsertDriver(ctx, r.db, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

func (r *pgDriverRepository) FindByDocument(ctx context.Context, document string) (*domain.Driver, error) {
	driver := &domain.Driver{}
	query := `SELECT document, name, phone, email, created_at, updated_at FROM drivers WHERE document = $1`
	err := r.db.QueryRowContext(ctx, query, document).Scan(
		&driver.Document, &driver.Name, &driver.Phone, &driver.Email, &driver.CreatedAt, &driver.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("DriverRepository.FindByDocument: %w", err)
	}
	driver.CreatedAt = driver.CreatedAt.In(time.UTC)
	driver.UpdatedAt = driver.UpdatedAt.In(time.UTC)
	return driver, nil
}
