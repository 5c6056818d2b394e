package service

import (
	"context"
	"testing"

	"parkus/internal/domain"
	"parkus/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLotProvisionsSpots(t *testing.T) {
	store := newMemoryStore()
	lots := NewLotService(&fakeLotRepo{store: store})

	lot, err := lots.CreateLot(context.Background(), domain.LotDTO{
		Name:         "Central",
		Address:      "Cra 7 # 12-34",
		TotalSpots:   4,
		PricePerHour: 3.5,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, lot.TotalSpots)
	assert.Equal(t, 4, lot.AvailableSpots, "every spot starts available")
	assert.Equal(t, 0, lot.OccupiedSpots)

	for n := 1; n <= 4; n++ {
		spot, ok := store.spots[spotKey(lot.ID, n)]
		require.True(t, ok, "spot %d must be provisioned", n)
		assert.Equal(t, domain.SpotAvailable, spot.State)
	}
}

func TestCreateLotWithoutAddress(t *testing.T) {
	lots := NewLotService(&fakeLotRepo{store: newMemoryStore()})

	lot, err := lots.CreateLot(context.Background(), domain.LotDTO{Name: "Side Street", TotalSpots: 2})
	require.NoError(t, err)
	assert.Empty(t, lot.Address)
	assert.Equal(t, 2, lot.AvailableSpots)
}

func TestCreateLotRejectsNegatives(t *testing.T) {
	lots := NewLotService(&fakeLotRepo{store: newMemoryStore()})

	_, err := lots.CreateLot(context.Background(), domain.LotDTO{Name: "Bad", TotalSpots: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = lots.CreateLot(context.Background(), domain.LotDTO{Name: "Bad", PricePerHour: -2})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetAvailableSpotsShrinksAfterReserve(t *testing.T) {
	store := newMemoryStore()
	store.addLot(1, 3)
	lots := NewLotService(&fakeLotRepo{store: store})
	ledger := newTestLedger(store, nil)
	ctx := context.Background()

	available, err := lots.GetAvailableSpots(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, available, 3)

	_, err = ledger.Reserve(ctx, validReservation())
	require.NoError(t, err)

	available, err = lots.GetAvailableSpots(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, available, 2)
}

func TestUpdateLotKeepsCounters(t *testing.T) {
	store := newMemoryStore()
	store.addLot(1, 5)
	lots := NewLotService(&fakeLotRepo{store: store})

	updated, err := lots.UpdateLot(context.Background(), 1, domain.LotDTO{Name: "Renamed", PricePerHour: 9})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 9.0, updated.PricePerHour)
	assert.Equal(t, 5, store.lots[1].AvailableSpots)

	_, err = lots.UpdateLot(context.Background(), 99, domain.LotDTO{Name: "Ghost"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
