package repository

import (
	"context"
	"errors"

	"parkus/internal/domain"
)

var ErrNotFound = errors.New("record not found")
var ErrDuplicateEntry = errors.New("record already exists")
var ErrInvalidState = errors.New("spot is not in the required state")

// ReserveCommand carries everything one reservation writes: the spot
// transition plus the driver and vehicle profiles upserted alongside it.
type ReserveCommand struct {
	LotID      int
	SpotNumber int
	Plate      string
	Driver     domain.Driver
	Vehicle    domain.Vehicle
}

// ReservationLedgerRepository applies spot-state transitions. Each
// mutating method is a single atomic unit: the state precondition is
// checked against the same snapshot the write is applied to, and the
// lot counters move in the same transaction as the spot row. Two
// concurrent reserves of one spot leave exactly one winner; the loser
// gets ErrInvalidState.
type ReservationLedgerRepository interface {
	Reserve(ctx context.Context, cmd ReserveCommand) (*domain.Spot, error)
	Occupy(ctx context.Context, lotID, spotNumber int) (*domain.Spot, error)
	Release(ctx context.Context, lotID, spotNumber int) (*domain.Spot, error)
	// FindActiveByPlate returns every spot assigned to the plate whose
	// state is not available. An empty slice is a valid result.
	FindActiveByPlate(ctx context.Context, plate string) ([]domain.ActiveReservation, error)
}

type ParkingLotRepository interface {
	// Create provisions the lot plus spots 1..TotalSpots, all available,
	// with counters initialized to match.
	Create(ctx context.Context, lot *domain.Lot) (*domain.Lot, error)
	FindByID(ctx context.Context, id int) (*domain.Lot, error)
	FindAll(ctx context.Context) ([]domain.Lot, error)
	FindDetail(ctx context.Context, id int) (*domain.LotDetail, error)
	FindAvailableSpots(ctx context.Context, lotID int) ([]domain.Spot, error)
	Update(ctx context.Context, lot *domain.Lot) (*domain.Lot, error)
}

// DriverRepository upserts are idempotent; the conflict key is the
// identity document.
type DriverRepository interface {
	Upsert(ctx context.Context, driver *domain.Driver) (*domain.Driver, error)
	FindByDocument(ctx context.Context, document string) (*domain.Driver, error)
}

// VehicleRepository upserts are idempotent; the conflict key is the
// normalized plate.
type VehicleRepository interface {
	Upsert(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
}
