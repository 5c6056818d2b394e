package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"parkus/internal/domain"
	"parkus/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubLotService struct {
	createFn    func(ctx context.Context, dto domain.LotDTO) (*domain.Lot, error)
	allFn       func(ctx context.Context) ([]domain.Lot, error)
	availableFn func(ctx context.Context, lotID int) ([]domain.Spot, error)
	updateFn    func(ctx context.Context, id int, dto domain.LotDTO) (*domain.Lot, error)
}

func (s *stubLotService) CreateLot(ctx context.Context, dto domain.LotDTO) (*domain.Lot, error) {
	return s.createFn(ctx, dto)
}

func (s *stubLotService) GetAllLots(ctx context.Context) ([]domain.Lot, error) {
	return s.allFn(ctx)
}

func (s *stubLotService) GetAvailableSpots(ctx context.Context, lotID int) ([]domain.Spot, error) {
	return s.availableFn(ctx, lotID)
}

func (s *stubLotService) UpdateLot(ctx context.Context, id int, dto domain.LotDTO) (*domain.Lot, error) {
	return s.updateFn(ctx, id, dto)
}

type stubDetailReader struct {
	detailFn func(ctx context.Context, lotID int) (*domain.LotDetail, error)
}

func (s *stubDetailReader) GetLotDetail(ctx context.Context, lotID int) (*domain.LotDetail, error) {
	return s.detailFn(ctx, lotID)
}

func lotRouter(lots LotService, detail LotDetailReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewLotHandler(lots, detail, false)
	r.POST("/parking-lots", h.CreateLot)
	r.GET("/parking-lots", h.GetAllLots)
	r.GET("/parking-lots/:id", h.GetLotDetail)
	r.GET("/parking-lots/:id/available-spots", h.GetAvailableSpots)
	r.PUT("/parking-lots/:id", h.UpdateLot)
	return r
}

func TestCreateLotHTTP(t *testing.T) {
	lots := &stubLotService{
		createFn: func(ctx context.Context, dto domain.LotDTO) (*domain.Lot, error) {
			assert.Equal(t, "Central", dto.Name)
			assert.Equal(t, 10, dto.TotalSpots)
			return &domain.Lot{ID: 1, Name: dto.Name, TotalSpots: 10, AvailableSpots: 10}, nil
		},
	}
	r := lotRouter(lots, nil)

	w := doJSON(t, r, http.MethodPost, "/parking-lots", gin.H{"name": "Central", "total_spots": 10})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(10), data["available_spots"])
}

func TestCreateLotWithoutAddress(t *testing.T) {
	lots := &stubLotService{
		createFn: func(ctx context.Context, dto domain.LotDTO) (*domain.Lot, error) {
			assert.Empty(t, dto.Address, "address is optional and defaults to empty")
			return &domain.Lot{ID: 1, Name: dto.Name, TotalSpots: dto.TotalSpots}, nil
		},
	}
	r := lotRouter(lots, nil)

	w := doJSON(t, r, http.MethodPost, "/parking-lots", gin.H{"name": "No Address", "total_spots": 2})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateLotDuplicateName(t *testing.T) {
	lots := &stubLotService{
		createFn: func(ctx context.Context, dto domain.LotDTO) (*domain.Lot, error) {
			return nil, fmt.Errorf("%w: lot '%s' already exists", repository.ErrDuplicateEntry, dto.Name)
		},
	}
	r := lotRouter(lots, nil)

	w := doJSON(t, r, http.MethodPost, "/parking-lots", gin.H{"name": "Central", "total_spots": 2})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, KindConflict, decodeEnvelope(t, w)["error_kind"])
}

func TestCreateLotRequiresName(t *testing.T) {
	lots := &stubLotService{
		createFn: func(ctx context.Context, dto domain.LotDTO) (*domain.Lot, error) {
			t.Fatal("service must not be called when binding fails")
			return nil, nil
		},
	}
	r := lotRouter(lots, nil)

	w := doJSON(t, r, http.MethodPost, "/parking-lots", gin.H{"total_spots": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllLotsHTTP(t *testing.T) {
	lots := &stubLotService{
		allFn: func(ctx context.Context) ([]domain.Lot, error) {
			return []domain.Lot{{ID: 1, Name: "Central"}, {ID: 2, Name: "North"}}, nil
		},
	}
	r := lotRouter(lots, nil)

	w := doJSON(t, r, http.MethodGet, "/parking-lots", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].([]any)
	assert.Len(t, data, 2)
}

func TestGetLotDetailHTTP(t *testing.T) {
	detail := &stubDetailReader{
		detailFn: func(ctx context.Context, lotID int) (*domain.LotDetail, error) {
			if lotID != 1 {
				return nil, repository.ErrNotFound
			}
			return &domain.LotDetail{
				Lot:   domain.Lot{ID: 1, Name: "Central", TotalSpots: 2},
				Spots: []domain.Spot{{Number: 1, State: domain.SpotAvailable}, {Number: 2, State: domain.SpotReserved}},
			}, nil
		},
	}
	r := lotRouter(nil, detail)

	w := doJSON(t, r, http.MethodGet, "/parking-lots/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Len(t, data["spots"].([]any), 2)

	w = doJSON(t, r, http.MethodGet, "/parking-lots/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/parking-lots/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAvailableSpotsHTTP(t *testing.T) {
	lots := &stubLotService{
		availableFn: func(ctx context.Context, lotID int) ([]domain.Spot, error) {
			return []domain.Spot{{Number: 1, State: domain.SpotAvailable}}, nil
		},
	}
	r := lotRouter(lots, nil)

	w := doJSON(t, r, http.MethodGet, "/parking-lots/1/available-spots", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].([]any)
	assert.Len(t, data, 1)
}

func TestUpdateLotHTTP(t *testing.T) {
	lots := &stubLotService{
		updateFn: func(ctx context.Context, id int, dto domain.LotDTO) (*domain.Lot, error) {
			assert.Equal(t, 1, id)
			return &domain.Lot{ID: 1, Name: dto.Name, PricePerHour: dto.PricePerHour}, nil
		},
	}
	r := lotRouter(lots, nil)

	w := doJSON(t, r, http.MethodPut, "/parking-lots/1", gin.H{"name": "Central Renamed", "price_per_hour": 2.5})
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, "Central Renamed", data["name"])
}
