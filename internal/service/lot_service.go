package service

import (
	"context"
	"fmt"

	"parkus/internal/domain"
	"parkus/internal/repository"
)

type LotService struct {
	lotRepo repository.ParkingLotRepository
}

func NewLotService(lotRepo repository.ParkingLotRepository) *LotService {
	return &LotService{lotRepo: lotRepo}
}

// CreateLot provisions a lot together with its spots. Spots are
// numbered 1..TotalSpots and start available.
func (s *LotService) CreateLot(ctx context.Context, dto domain.LotDTO) (*domain.Lot, error) {
	if dto.TotalSpots < 0 {
		return nil, fmt.Errorf("%w: total_spots must not be negative", ErrValidation)
	}
	if dto.PricePerHour < 0 {
		return nil, fmt.Errorf("%w: price_per_hour must not be negative", ErrValidation)
	}
	lot := &domain.Lot{
		Name:         dto.Name,
		Address:      dto.Address,
		TotalSpots:   dto.TotalSpots,
		PricePerHour: dto.PricePerHour,
	}
	return s.lotRepo.Create(ctx, lot)
}

func (s *LotService) GetAllLots(ctx context.Context) ([]domain.Lot, error) {
	return s.lotRepo.FindAll(ctx)
}

func (s *LotService) GetLotByID(ctx context.Context, id int) (*domain.Lot, error) {
	return s.lotRepo.FindByID(ctx, id)
}

func (s *LotService) GetAvailableSpots(ctx context.Context, lotID int) ([]domain.Spot, error) {
	return s.lotRepo.FindAvailableSpots(ctx, lotID)
}

// UpdateLot changes name, address and price. Spot counts are owned by
// the reservation ledger.
func (s *LotService) UpdateLot(ctx context.Context, id int, dto domain.LotDTO) (*domain.Lot, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.PricePerHour < 0 {
		return nil, fmt.Errorf("%w: price_per_hour must not be negative", ErrValidation)
	}
	lot.Name = dto.Name
	if dto.Address != "" {
		lot.Address = dto.Address
	}
	lot.PricePerHour = dto.PricePerHour
	return s.lotRepo.Update(ctx, lot)
}
