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

// upsertVehicle creates or updates the vehicle on file. Conflict key is
// the normalized plate; the driver document is overwritten so the
// vehicle always points at its latest driver.
func upsertVehicle(ctx context.Context, q querier, vehicle *domain.Vehicle) error {
	query := `INSERT INTO vehicles (plate, make, model, driver_document, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           ON CONFLICT (plate) DO UPDATE
	           SET make = EXCLUDED.make, model = EXCLUDED.model, driver_document = EXCLUDED.driver_document, updated_at = CURRENT_TIMESTAMP
	           RETURNING created_at, updated_at`
	err := q.QueryRowContext(ctx, query, vehicle.Plate, vehicle.Make, vehicle.Model, vehicle.DriverDocument).
		Scan(&vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		return fmt.Errorf("VehicleRepository.Upsert: %w", err)
	}
	vehicle.CreatedAt = vehicle.CreatedAt.In(time.UTC)
	vehicle.UpdatedAt = vehicle.UpdatedAt.In(time.UTC)
	return nil
}

type pgVehicleRepository struct {
	db *sql.DB
}

func NewPgVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &pgVehicleRepository{db: db}
}

func (r *pgVehicleRepository) Upsert(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if err := upsertVehicle(ctx, r.db, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	query := `SELECT plate, make, model, driver_document, created_at, updated_at FROM vehicles WHERE plate = $1`
	err := r.db.QueryRowContext(ctx, query, plate).Scan(
		&vehicle.Plate, &vehicle.Make, &vehicle.Model, &vehicle.DriverDocument, &vehicle.CreatedAt, &vehicle.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("VehicleRepository.FindByPlate: %w", err)
	}
	vehicle.CreatedAt = vehicle.CreatedAt.In(time.UTC)
	vehicle.UpdatedAt = vehicle.UpdatedAt.In(time.UTC)
	return vehicle, nil
}
