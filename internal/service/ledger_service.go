package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"parkus/internal/domain"
	"parkus/internal/observability"
	"parkus/internal/repository"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

var ErrValidation = errors.New("validation failed")

// SpotNotifier receives spot-state changes for live fan-out. The
// WebSocket manager implements it; a nil notifier disables broadcasts.
type SpotNotifier interface {
	NotifySpotState(n domain.SpotStateNotification)
}

// ReservationLedger owns the spot lifecycle: reserving, occupying and
// releasing spots while the per-lot counters stay consistent.
type ReservationLedger struct {
	ledgerRepo  repository.ReservationLedgerRepository
	lotRepo     repository.ParkingLotRepository
	driverRepo  repository.DriverRepository
	vehicleRepo repository.VehicleRepository
	notifier    SpotNotifier
}

func NewReservationLedger(
	ledgerRepo repository.ReservationLedgerRepository,
	lotRepo repository.ParkingLotRepository,
	driverRepo repository.DriverRepository,
	vehicleRepo repository.VehicleRepository,
	notifier SpotNotifier,
) *ReservationLedger {
	return &ReservationLedger{
		ledgerRepo:  ledgerRepo,
		lotRepo:     lotRepo,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		notifier:    notifier,
	}
}

func nullFrom(s string) null.String {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

// validateReservation runs before any store access, so a rejected
// request leaves no trace.
func validateReservation(dto domain.ReservationDTO) (plate string, err error) {
	var missing []string
	if dto.LotID <= 0 {
		missing = append(missing, "lot_id")
	}
	if dto.SpotNumber <= 0 {
		missing = append(missing, "spot_number")
	}
	plate = domain.NormalizePlate(dto.Plate)
	if plate == "" {
		missing = append(missing, "plate")
	}
	if strings.TrimSpace(dto.DriverDocument) == "" {
		missing = append(missing, "driver_document")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return plate, nil
}

func (s *ReservationLedger) Reserve(ctx context.Context, dto domain.ReservationDTO) (*domain.ReservationRecord, error) {
	plate, err := validateReservation(dto)
	if err != nil {
		observability.ReservationsTotal.WithLabelValues("reserve", "rejected").Inc()
		return nil, err
	}

	cmd := repository.ReserveCommand{
		LotID:      dto.LotID,
		SpotNumber: dto.SpotNumber,
		Plate:      plate,
		Driver: domain.Driver{
			Document: strings.TrimSpace(dto.DriverDocument),
			Name:     strings.TrimSpace(dto.DriverName),
			Phone:    nullFrom(dto.DriverPhone),
			Email:    nullFrom(dto.DriverEmail),
		},
		Vehicle: domain.Vehicle{
			Plate:          plate,
			Make:           nullFrom(dto.VehicleMake),
			Model:          nullFrom(dto.VehicleModel),
			DriverDocument: strings.TrimSpace(dto.DriverDocument),
		},
	}

	spot, err := s.ledgerRepo.Reserve(ctx, cmd)
	if err != nil {
		observability.ReservationsTotal.WithLabelValues("reserve", "failed").Inc()
		return nil, err
	}
	observability.ReservationsTotal.WithLabelValues("reserve", "ok").Inc()
	log.Printf("reserved spot %d in lot %d for plate %s", spot.Number, spot.LotID, plate)
	s.notify(spot)

	return &domain.ReservationRecord{
		Reference:  uuid.NewString(),
		LotID:      spot.LotID,
		SpotNumber: spot.Number,
		Plate:      plate,
		State:      spot.State,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (s *ReservationLedger) Occupy(ctx context.Context, lotID, spotNumber int) (*domain.Spot, error) {
	if lotID <= 0 || spotNumber <= 0 {
		return nil, fmt.Errorf("%w: lot_id and spot_number are required", ErrValidation)
	}
	spot, err := s.ledgerRepo.Occupy(ctx, lotID, spotNumber)
	if err != nil {
		observability.ReservationsTotal.WithLabelValues("occupy", "failed").Inc()
		return nil, err
	}
	observability.ReservationsTotal.WithLabelValues("occupy", "ok").Inc()
	log.Printf("spot %d in lot %d is now occupied", spot.Number, spot.LotID)
	s.notify(spot)
	return spot, nil
}

func (s *ReservationLedger) Release(ctx context.Context, lotID, spotNumber int) (*domain.Spot, error) {
	if lotID <= 0 || spotNumber <= 0 {
		return nil, fmt.Errorf("%w: lot_id and spot_number are required", ErrValidation)
	}
	spot, err := s.ledgerRepo.Release(ctx, lotID, spotNumber)
	if err != nil {
		observability.ReservationsTotal.WithLabelValues("release", "failed").Inc()
		return nil, err
	}
	observability.ReservationsTotal.WithLabelValues("release", "ok").Inc()
	log.Printf("spot %d in lot %d released", spot.Number, spot.LotID)
	s.notify(spot)
	return spot, nil
}

// FindActiveByPlate returns the active (reserved or occupied) spots for
// a plate. The empty result is not an error; the HTTP layer decides how
// to present it.
func (s *ReservationLedger) FindActiveByPlate(ctx context.Context, plate string) ([]domain.ActiveReservation, error) {
	normalized := domain.NormalizePlate(plate)
	if normalized == "" {
		return nil, fmt.Errorf("%w: plate is required", ErrValidation)
	}
	return s.ledgerRepo.FindActiveByPlate(ctx, normalized)
}

func (s *ReservationLedger) GetLotDetail(ctx context.Context, lotID int) (*domain.LotDetail, error) {
	return s.lotRepo.FindDetail(ctx, lotID)
}

func (s *ReservationLedger) GetVehicle(ctx context.Context, plate string) (*domain.Vehicle, error) {
	normalized := domain.NormalizePlate(plate)
	if normalized == "" {
		return nil, fmt.Errorf("%w: plate is required", ErrValidation)
	}
	return s.vehicleRepo.FindByPlate(ctx, normalized)
}

func (s *ReservationLedger) GetDriver(ctx context.Context, document string) (*domain.Driver, error) {
	document = strings.TrimSpace(document)
	if document == "" {
		return nil, fmt.Errorf("%w: driver document is required", ErrValidation)
	}
	return s.driverRepo.FindByDocument(ctx, document)
}

func (s *ReservationLedger) notify(spot *domain.Spot) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifySpotState(domain.SpotStateNotification{
		LotID:      spot.LotID,
		SpotNumber: spot.Number,
		State:      spot.State,
		Plate:      spot.AssignedPlate.String,
	})
}
