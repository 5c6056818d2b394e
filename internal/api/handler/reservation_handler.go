package handler

import (
	"context"
	"net/http"

	"parkus/internal/domain"

	"github.com/gin-gonic/gin"
)

// ReservationService is the slice of the reservation ledger the HTTP
// layer needs.
type ReservationService interface {
	Reserve(ctx context.Context, dto domain.ReservationDTO) (*domain.ReservationRecord, error)
	Occupy(ctx context.Context, lotID, spotNumber int) (*domain.Spot, error)
	Release(ctx context.Context, lotID, spotNumber int) (*domain.Spot, error)
	FindActiveByPlate(ctx context.Context, plate string) ([]domain.ActiveReservation, error)
	GetVehicle(ctx context.Context, plate string) (*domain.Vehicle, error)
	GetDriver(ctx context.Context, document string) (*domain.Driver, error)
}

type ReservationHandler struct {
	ledger     ReservationService
	production bool
}

func NewReservationHandler(ledger ReservationService, production bool) *ReservationHandler {
	return &ReservationHandler{ledger: ledger, production: production}
}

// POST /reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var dto domain.ReservationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	record, err := h.ledger.Reserve(c.Request.Context(), dto)
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusCreated, "reservation created", record)
}

// POST /reservations/occupy
func (h *ReservationHandler) OccupySpot(c *gin.Context) {
	var dto domain.SpotActionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	spot, err := h.ledger.Occupy(c.Request.Context(), dto.LotID, dto.SpotNumber)
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusOK, "spot marked as occupied", spot)
}

// POST /reservations/release
func (h *ReservationHandler) ReleaseSpot(c *gin.Context) {
	var dto domain.SpotActionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	spot, err := h.ledger.Release(c.Request.Context(), dto.LotID, dto.SpotNumber)
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusOK, "spot released", spot)
}

// GET /reservations/plate/:plate
//
// An empty result is not a ledger error, but this boundary presents it
// as 404 so the frontend can show "no active reservations".
func (h *ReservationHandler) FindByPlate(c *gin.Context) {
	reservations, err := h.ledger.FindActiveByPlate(c.Request.Context(), c.Param("plate"))
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	if len(reservations) == 0 {
		respondError(c, http.StatusNotFound, KindNotFound, "no active reservations for this plate")
		return
	}
	respondData(c, http.StatusOK, "", reservations)
}

// GET /vehicles/:plate
func (h *ReservationHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.ledger.GetVehicle(c.Request.Context(), c.Param("plate"))
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusOK, "", vehicle)
}

// GET /drivers/:document
func (h *ReservationHandler) GetDriver(c *gin.Context) {
	driver, err := h.ledger.GetDriver(c.Request.Context(), c.Param("document"))
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusOK, "", driver)
}
