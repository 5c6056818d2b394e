package handler

import (
	"context"
	"net/http"
	"strconv"

	"parkus/internal/domain"

	"github.com/gin-gonic/gin"
)

type LotService interface {
	CreateLot(ctx context.Context, dto domain.LotDTO) (*domain.Lot, error)
	GetAllLots(ctx context.Context) ([]domain.Lot, error)
	GetAvailableSpots(ctx context.Context, lotID int) ([]domain.Spot, error)
	UpdateLot(ctx context.Context, id int, dto domain.LotDTO) (*domain.Lot, error)
}

// LotDetailReader is implemented by the reservation ledger, which owns
// the lot-plus-spots projection.
type LotDetailReader interface {
	GetLotDetail(ctx context.Context, lotID int) (*domain.LotDetail, error)
}

type LotHandler struct {
	lots       LotService
	detail     LotDetailReader
	production bool
}

func NewLotHandler(lots LotService, detail LotDetailReader, production bool) *LotHandler {
	return &LotHandler{lots: lots, detail: detail, production: production}
}

func lotIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, KindValidation, "invalid lot id")
		return 0, false
	}
	return id, true
}

// POST /parking-lots (admin)
func (h *LotHandler) CreateLot(c *gin.Context) {
	var dto domain.LotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	lot, err := h.lots.CreateLot(c.Request.Context(), dto)
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusCreated, "parking lot created", lot)
}

// GET /parking-lots
func (h *LotHandler) GetAllLots(c *gin.Context) {
	lots, err := h.lots.GetAllLots(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusOK, "", lots)
}

// GET /parking-lots/:id
func (h *LotHandler) GetLotDetail(c *gin.Context) {
	id, ok := lotIDParam(c)
	if !ok {
		return
	}

	detail, err := h.detail.GetLotDetail(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusOK, "", detail)
}

// GET /parking-lots/:id/available-spots
func (h *LotHandler) GetAvailableSpots(c *gin.Context) {
	id, ok := lotIDParam(c)
	if !ok {
		return
	}

	spots, err := h.lots.GetAvailableSpots(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusOK, "", spots)
}

// PUT /parking-lots/:id (admin)
func (h *LotHandler) UpdateLot(c *gin.Context) {
	id, ok := lotIDParam(c)
	if !ok {
		return
	}

	var dto domain.LotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	lot, err := h.lots.UpdateLot(c.Request.Context(), id, dto)
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusOK, "parking lot updated", lot)
}
