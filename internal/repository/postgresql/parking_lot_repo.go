package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkus/internal/domain"
	"parkus/internal/repository"

	"github.com/lib/pq"
)

type pgParkingLotRepository struct {
	db *sql.DB
}

func NewPgParkingLotRepository(db *sql.DB) repository.ParkingLotRepository {
	return &pgParkingLotRepository{db: db}
}

func (r *pgParkingLotRepository) Create(ctx context.Context, lot *domain.Lot) (*domain.Lot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ParkingLotRepository.Create (begin tx): %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO parking_lots (name, address, total_spots, available_spots, occupied_spots, price_per_hour, created_at, updated_at)
	           VALUES ($1, $2, $3, $3, 0, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		lot.Name, lot.Address, lot.TotalSpots, lot.PricePerHour,
	).Scan(&lot.ID, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("%w: lot '%s' already exists", repository.ErrDuplicateEntry, lot.Name)
			}
		}
		return nil, fmt.Errorf("ParkingLotRepository.Create: %w", err)
	}

	// Provision spots 1..TotalSpots, all available, in the same tx as
	// the counters so the lot never appears without its spots.
	if lot.TotalSpots > 0 {
		spotsQuery := `INSERT INTO parking_spots (lot_id, number, state, created_at, updated_at)
		                SELECT $1, n, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP FROM generate_series(1, $3) AS n`
		if _, err := tx.ExecContext(ctx, spotsQuery, lot.ID, domain.SpotAvailable, lot.TotalSpots); err != nil {
			return nil, fmt.Errorf("ParkingLotRepository.Create (provisioning spots): %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ParkingLotRepository.Create (commit): %w", err)
	}
	lot.AvailableSpots = lot.TotalSpots
	lot.OccupiedSpots = 0
	lot.CreatedAt = lot.CreatedAt.In(time.UTC)
	lot.UpdatedAt = lot.UpdatedAt.In(time.UTC)
	return lot, nil
}

func scanLot(row *sql.Row) (*domain.Lot, error) {
	lot := &domain.Lot{}
	var address sql.NullString
	err := row.Scan(
		&lot.ID, &lot.Name, &address, &lot.TotalSpots, &lot.AvailableSpots,
		&lot.OccupiedSpots, &lot.PricePerHour, &lot.CreatedAt, &lot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if address.Valid {
		lot.Address = address.String
	}
	lot.CreatedAt = lot.CreatedAt.In(time.UTC)
	lot.UpdatedAt = lot.UpdatedAt.In(time.UTC)
	return lot, nil
}

const lotColumns = `id, name, address, total_spots, available_spots, occupied_spots, price_per_hour, created_at, updated_at`

func (r *pgParkingLotRepository) FindByID(ctx context.Context, id int) (*domain.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM parking_lots WHERE id = $1`
	lot, err := scanLot(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingLotRepository.FindByID: %w", err)
	}
	return lot, nil
}

func (r *pgParkingLotRepository) FindAll(ctx context.Context) ([]domain.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM parking_lots ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ParkingLotRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var lots []domain.Lot
	for rows.Next() {
		var lot domain.Lot
		var address sql.NullString
		if err := rows.Scan(
			&lot.ID, &lot.Name, &address, &lot.TotalSpots, &lot.AvailableSpots,
			&lot.OccupiedSpots, &lot.PricePerHour, &lot.CreatedAt, &lot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ParkingLotRepository.FindAll (scanning row): %w", err)
		}
		if address.Valid {
			lot.Address = address.String
		}
		lot.CreatedAt = lot.CreatedAt.In(time.UTC)
		lot.UpdatedAt = lot.UpdatedAt.In(time.UTC)
		lots = append(lots, lot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingLotRepository.FindAll (rows error): %w", err)
	}
	return lots, nil
}

func (r *pgParkingLotRepository) FindDetail(ctx context.Context, id int) (*domain.LotDetail, error) {
	lot, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	spots, err := r.findSpots(ctx, id, false)
	if err != nil {
		return nil, err
	}
	return &domain.LotDetail{Lot: *lot, Spots: spots}, nil
}

func (r *pgParkingLotRepository) FindAvailableSpots(ctx context.Context, lotID int) ([]domain.Spot, error) {
	if _, err := r.FindByID(ctx, lotID); err != nil {
		return nil, err
	}
	return r.findSpots(ctx, lotID, true)
}

func (r *pgParkingLotRepository) findSpots(ctx context.Context, lotID int, availableOnly bool) ([]domain.Spot, error) {
	query := `SELECT id, lot_id, number, state, assigned_plate, created_at, updated_at
	           FROM parking_spots WHERE lot_id = $1`
	args := []any{lotID}
	if availableOnly {
		query += ` AND state = $2`
		args = append(args, domain.SpotAvailable)
	}
	query += ` ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ParkingLotRepository (finding spots): %w", err)
	}
	defer rows.Close()

	spots := []domain.Spot{}
	for rows.Next() {
		var spot domain.Spot
		if err := rows.Scan(
			&spot.ID, &spot.LotID, &spot.Number, &spot.State, &spot.AssignedPlate,
			&spot.CreatedAt, &spot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ParkingLotRepository (scanning spot row): %w", err)
		}
		if !spot.State.Valid() {
			return nil, fmt.Errorf("ParkingLotRepository (scanning spot row): unknown spot state %q", spot.State)
		}
		spot.CreatedAt = spot.CreatedAt.In(time.UTC)
		spot.UpdatedAt = spot.UpdatedAt.In(time.UTC)
		spots = append(spots, spot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingLotRepository (spot rows error): %w", err)
	}
	return spots, nil
}

// Update touches name, address and price only. Spot counts are owned by
// the ledger and the provisioning path.
func (r *pgParkingLotRepository) Update(ctx context.Context, lot *domain.Lot) (*domain.Lot, error) {
	query := `UPDATE parking_lots
	           SET name = $1, address = $2, price_per_hour = $3, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $4
	           RETURNING total_spots, available_spots, occupied_spots, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		lot.Name, lot.Address, lot.PricePerHour, lot.ID,
	).Scan(&lot.TotalSpots, &lot.AvailableSpots, &lot.OccupiedSpots, &lot.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("%w: lot '%s' already exists", repository.ErrDuplicateEntry, lot.Name)
			}
		}
		return nil, fmt.Errorf("ParkingLotRepository.Update: %w", err)
	}
	lot.UpdatedAt = lot.UpdatedAt.In(time.UTC)
	return lot, nil
}
