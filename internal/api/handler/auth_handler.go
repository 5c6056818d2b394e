package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"parkus/internal/api/middleware"
	"parkus/internal/domain"
	"parkus/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthProvider interface {
	Register(ctx context.Context, dto domain.RegisterUserDTO) (*domain.User, error)
	Login(ctx context.Context, dto domain.LoginUserDTO) (*domain.AuthResponseDTO, error)
	GetProfile(ctx context.Context, userID int) (*domain.User, error)
}

type AuthHandler struct {
	auth       AuthProvider
	production bool
}

func NewAuthHandler(auth AuthProvider, production bool) *AuthHandler {
	return &AuthHandler{auth: auth, production: production}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var dto domain.RegisterUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			respondError(c, http.StatusConflict, KindConflict, err.Error())
			return
		}
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusCreated, "user registered, you can now log in", user)
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var dto domain.LoginUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	authResponse, err := h.auth.Login(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, KindUnauthorized, err.Error())
			return
		}
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusOK, "welcome back", authResponse)
}

// GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userIDStr := c.GetString(middleware.UserIDKey)
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		respondError(c, http.StatusUnauthorized, KindUnauthorized, "invalid user identity in token")
		return
	}

	user, err := h.auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err, h.production)
		return
	}
	respondData(c, http.StatusOK, "", user)
}
