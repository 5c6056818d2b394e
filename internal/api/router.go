package api

import (
	"net/http"
	"time"

	"parkus/internal/api/handler"
	"parkus/internal/api/middleware"
	"parkus/internal/config"
	"parkus/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(
	cfg *config.Config,
	authService *service.AuthService,
	ledger *service.ReservationLedger,
	lotService *service.LotService,
	authMw *middleware.AuthMiddleware,
	wsManager *handler.WebSocketManager,
) *gin.Engine {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "ParkUS API is up", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	wsHandler := handler.NewWebSocketHandler(wsManager)
	r.GET("/ws", wsHandler.HandleWebSocket)

	authHandler := handler.NewAuthHandler(authService, cfg.Production())
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	lotHandler := handler.NewLotHandler(lotService, ledger, cfg.Production())
	reservationHandler := handler.NewReservationHandler(ledger, cfg.Production())

	v1 := r.Group("/api/v1")
	{
		// Public read-only projections.
		v1.GET("/parking-lots", lotHandler.GetAllLots)
		v1.GET("/parking-lots/:id", lotHandler.GetLotDetail)
		v1.GET("/parking-lots/:id/available-spots", lotHandler.GetAvailableSpots)
		v1.GET("/reservations/plate/:plate", reservationHandler.FindByPlate)
		v1.GET("/vehicles/:plate", reservationHandler.GetVehicle)

		authed := v1.Group("")
		authed.Use(authMw.Authenticate())
		{
			authed.GET("/auth/profile", authHandler.Profile)

			authed.POST("/reservations", reservationHandler.CreateReservation)
			authed.POST("/reservations/occupy", reservationHandler.OccupySpot)
			authed.POST("/reservations/release", reservationHandler.ReleaseSpot)

			authed.GET("/drivers/:document", reservationHandler.GetDriver)

			authed.POST("/parking-lots", authMw.AuthorizeRole("admin"), lotHandler.CreateLot)
			authed.PUT("/parking-lots/:id", authMw.AuthorizeRole("admin"), lotHandler.UpdateLot)
		}
	}
	return r
}
