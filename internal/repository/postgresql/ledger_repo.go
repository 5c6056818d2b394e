package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkus/internal/domain"
	"parkus/internal/repository"

	"gopkg.in/guregu/null.v4"
)

type pgReservationLedgerRepository struct {
	db *sql.DB
}

func NewPgReservationLedgerRepository(db *sql.DB) repository.ReservationLedgerRepository {
	return &pgReservationLedgerRepository{db: db}
}

// lockSpot reads the spot row under FOR UPDATE so the state check and
// the subsequent write see the same snapshot. Concurrent operations on
// the same spot serialize on this row lock; other spots are unaffected.
func lockSpot(ctx context.Context, tx *sql.Tx, lotID, spotNumber int) (*domain.Spot, error) {
	spot := &domain.Spot{}
	query := `SELECT id, lot_id, number, state, assigned_plate, created_at, updated_at
	           FROM parking_spots
	           WHERE lot_id = $1 AND number = $2
	           FOR UPDATE`
	err := tx.QueryRowContext(ctx, query, lotID, spotNumber).Scan(
		&spot.ID, &spot.LotID, &spot.Number, &spot.State, &spot.AssignedPlate,
		&spot.CreatedAt, &spot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: spot %d in lot %d does not exist", repository.ErrNotFound, spotNumber, lotID)
		}
		return nil, fmt.Errorf("ReservationLedgerRepository (locking spot): %w", err)
	}
	if !spot.State.Valid() {
		return nil, fmt.Errorf("ReservationLedgerRepository (locking spot): unknown spot state %q", spot.State)
	}
	spot.CreatedAt = spot.CreatedAt.In(time.UTC)
	spot.UpdatedAt = spot.UpdatedAt.In(time.UTC)
	return spot, nil
}

// adjustLotCounters applies a relative counter change inside the caller's
// transaction. Counters never go through read-modify-write, so reserves
// and releases on different spots of one lot cannot lose updates.
func adjustLotCounters(ctx context.Context, tx *sql.Tx, lotID, availableDelta, occupiedDelta int) error {
	query := `UPDATE parking_lots
	           SET available_spots = available_spots + $1, occupied_spots = occupied_spots + $2, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $3`
	result, err := tx.ExecContext(ctx, query, availableDelta, occupiedDelta, lotID)
	if err != nil {
		return fmt.Errorf("ReservationLedgerRepository (adjusting counters): %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ReservationLedgerRepository (checking counter update): %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: lot %d does not exist", repository.ErrNotFound, lotID)
	}
	return nil
}

func updateSpotState(ctx context.Context, tx *sql.Tx, spot *domain.Spot, state domain.SpotState, plate null.String) error {
	query := `UPDATE parking_spots
	           SET state = $1, assigned_plate = $2, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $3
	           RETURNING updated_at`
	if err := tx.QueryRowContext(ctx, query, state, plate, spot.ID).Scan(&spot.UpdatedAt); err != nil {
		return fmt.Errorf("ReservationLedgerRepository (updating spot): %w", err)
	}
	spot.State = state
	spot.AssignedPlate = plate
	spot.UpdatedAt = spot.UpdatedAt.In(time.UTC)
	return nil
}

func (r *pgReservationLedgerRepository) Reserve(ctx context.Context, cmd repository.ReserveCommand) (*domain.Spot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ReservationLedgerRepository.Reserve (begin tx): %w", err)
	}
	defer tx.Rollback()

	spot, err := lockSpot(ctx, tx, cmd.LotID, cmd.SpotNumber)
	if err != nil {
		return nil, err
	}
	if !spot.State.CanTransitionTo(domain.SpotReserved) {
		return nil, fmt.Errorf("%w: spot %d in lot %d is %s, reserve requires %s",
			repository.ErrInvalidState, cmd.SpotNumber, cmd.LotID, spot.State, domain.SpotAvailable)
	}

	if err := upsertDriver(ctx, tx, &cmd.Driver); err != nil {
		return nil, err
	}
	if err := upsertVehicle(ctx, tx, &cmd.Vehicle); err != nil {
		return nil, err
	}

	if err := updateSpotState(ctx, tx, spot, domain.SpotReserved, null.StringFrom(cmd.Plate)); err != nil {
		return nil, err
	}
	// A reservation already counts the spot as occupied; occupy() later
	// does not touch the counters again.
	if err := adjustLotCounters(ctx, tx, cmd.LotID, -1, +1); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ReservationLedgerRepository.Reserve (commit): %w", err)
	}
	return spot, nil
}

func (r *pgReservationLedgerRepository) Occupy(ctx context.Context, lotID, spotNumber int) (*domain.Spot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ReservationLedgerRepository.Occupy (begin tx): %w", err)
	}
	defer tx.Rollback()

	spot, err := lockSpot(ctx, tx, lotID, spotNumber)
	if err != nil {
		return nil, err
	}
	if !spot.State.CanTransitionTo(domain.SpotOccupied) {
		return nil, fmt.Errorf("%w: spot %d in lot %d is %s, occupy requires %s",
			repository.ErrInvalidState, spotNumber, lotID, spot.State, domain.SpotReserved)
	}

	if err := updateSpotState(ctx, tx, spot, domain.SpotOccupied, spot.AssignedPlate); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ReservationLedgerRepository.Occupy (commit): %w", err)
	}
	return spot, nil
}

func (r *pgReservationLedgerRepository) Release(ctx context.Context, lotID, spotNumber int) (*domain.Spot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ReservationLedgerRepository.Release (begin tx): %w", err)
	}
	defer tx.Rollback()

	spot, err := lockSpot(ctx, tx, lotID, spotNumber)
	if err != nil {
		return nil, err
	}
	if !spot.State.CanTransitionTo(domain.SpotAvailable) {
		return nil, fmt.Errorf("%w: spot %d in lot %d is already %s",
			repository.ErrInvalidState, spotNumber, lotID, spot.State)
	}

	if err := updateSpotState(ctx, tx, spot, domain.SpotAvailable, null.String{}); err != nil {
		return nil, err
	}
	if err := adjustLotCounters(ctx, tx, lotID, +1, -1); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ReservationLedgerRepository.Release (commit): %w", err)
	}
	return spot, nil
}

func (r *pgReservationLedgerRepository) FindActiveByPlate(ctx context.Context, plate string) ([]domain.ActiveReservation, error) {
	query := `SELECT l.id, l.name, l.address, s.number, s.state, s.assigned_plate
	           FROM parking_spots s
	           JOIN parking_lots l ON l.id = s.lot_id
	           WHERE s.assigned_plate = $1 AND s.state <> $2
	           ORDER BY l.id, s.number`
	rows, err := r.db.QueryContext(ctx, query, plate, domain.SpotAvailable)
	if err != nil {
		return nil, fmt.Errorf("ReservationLedgerRepository.FindActiveByPlate: %w", err)
	}
	defer rows.Close()

	reservations := []domain.ActiveReservation{}
	for rows.Next() {
		var res domain.ActiveReservation
		var address sql.NullString
		var assignedPlate null.String
		if err := rows.Scan(&res.LotID, &res.LotName, &address, &res.SpotNumber, &res.State, &assignedPlate); err != nil {
			return nil, fmt.Errorf("ReservationLedgerRepository.FindActiveByPlate (scanning row): %w", err)
		}
		if address.Valid {
			res.LotAddress = address.String
		}
		res.Plate = assignedPlate.String
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ReservationLedgerRepository.FindActiveByPlate (rows error): %w", err)
	}
	return reservations, nil
}
