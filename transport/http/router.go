package http

import (
	"github.com/gin-gonic/gin"

	"github.com/sweatbook/sweatbook/service"
)

// SetupRouter wires the handlers into a gin router. The access gate runs
// before routing so unmatched protected paths still redirect.
func SetupRouter(h *Handlers, auth *service.AuthService, gate GateConfig) *gin.Engine {
	router := gin.Default()

	router.Use(AccessGate(auth, gate))

	api := router.Group("/api")
	{
		api.POST("/session/login", h.SessionLogin)
		api.POST("/session/logout", h.SessionLogout)
		api.GET("/me", h.Me)
		api.GET("/events", h.Events)
		api.GET("/bookings", h.ListBookings)
		api.POST("/bookings", h.CreateBooking)
	}

	if h.federated != nil {
		fed := router.Group("/auth/federated")
		{
			fed.GET("/start", h.FederatedStart)
			fed.GET("/callback", h.FederatedCallback)
		}
	}

	// Everything under /protected sits behind the access gate.
	protected := router.Group("/protected")
	{
		protected.GET("/profile", h.Profile)
	}

	return router
}
