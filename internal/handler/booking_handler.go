package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs-lzh/concert-booking/internal/app"
)

type BookingHandler struct {
	app *app.App
}

func NewBookingHandler(app *app.App) *BookingHandler {
	return &BookingHandler{
		app: app,
	}
}

type ReserveRequest struct {
	ConcertID uint `json:"concert_id" binding:"required"`
}

func (h *BookingHandler) HandleReserve(ctx *gin.Context) {
	requesterID, ok := requester(ctx)
	if !ok {
		return
	}

	var req ReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid request format",
			"detail": err.Error(),
		})
		return
	}

	reservation, err := h.app.BookingWorkflow.Reserve(req.ConcertID, requesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(201, reservation)
}

func (h *BookingHandler) HandleCancel(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := h.app.BookingWorkflow.Cancel(id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{"message": "Reservation cancelled"})
}

func (h *BookingHandler) HandleListReservations(ctx *gin.Context) {
	reservations, err := h.app.BookingWorkflow.ListReservations()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(200, reservations)
}

func (h *BookingHandler) HandleHistory(ctx *gin.Context) {
	records, err := h.app.HistoryService.GetHistory()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(200, records)
}

func (h *BookingHandler) HandleMyHistory(ctx *gin.Context) {
	requesterID, ok := requester(ctx)
	if !ok {
		return
	}

	records, err := h.app.HistoryService.GetHistoryFor(requesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(200, records)
}

func (h *BookingHandler) HandleStats(ctx *gin.Context) {
	stats, err := h.app.HistoryService.GetStats()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(200, stats)
}
