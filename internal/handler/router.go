package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs-lzh/concert-booking/internal/app"
)

func RegisterRoutes(r *gin.Engine, app *app.App) {
	concerts := NewConcertHandler(app)
	bookings := NewBookingHandler(app)

	r.POST("/concerts", concerts.HandleCreateConcert)
	r.GET("/concerts", concerts.HandleListConcerts)
	r.GET("/concerts/with-status", concerts.HandleListConcertsWithStatus)
	r.GET("/concerts/:id", concerts.HandleGetConcert)
	r.DELETE("/concerts/:id", concerts.HandleDeleteConcert)

	r.POST("/reservations", bookings.HandleReserve)
	r.GET("/reservations", bookings.HandleListReservations)
	r.GET("/reservations/history", bookings.HandleHistory)
	r.GET("/reservations/my-history", bookings.HandleMyHistory)
	r.GET("/reservations/stats", bookings.HandleStats)
	r.DELETE("/reservations/:id", bookings.HandleCancel)
}
