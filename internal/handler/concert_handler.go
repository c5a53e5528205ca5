package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs-lzh/concert-booking/internal/app"
)

type ConcertHandler struct {
	app *app.App
}

func NewConcertHandler(app *app.App) *ConcertHandler {
	return &ConcertHandler{
		app: app,
	}
}

type CreateConcertRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Seat        int    `json:"seat" binding:"required,min=1"`
}

func (h *ConcertHandler) HandleCreateConcert(ctx *gin.Context) {
	var req CreateConcertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid request format",
			"detail": err.Error(),
		})
		return
	}

	concert, err := h.app.ConcertService.CreateConcert(req.Name, req.Description, req.Seat)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(201, concert)
}

func (h *ConcertHandler) HandleListConcerts(ctx *gin.Context) {
	concerts, err := h.app.ConcertService.GetAllConcerts()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(200, concerts)
}

func (h *ConcertHandler) HandleListConcertsWithStatus(ctx *gin.Context) {
	requesterID, ok := requester(ctx)
	if !ok {
		return
	}

	concerts, err := h.app.ConcertService.GetAllConcertsWithStatus(requesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(200, concerts)
}

func (h *ConcertHandler) HandleGetConcert(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	concert, err := h.app.ConcertService.GetConcertByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(200, concert)
}

func (h *ConcertHandler) HandleDeleteConcert(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := h.app.ConcertService.DeleteConcert(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"message": "Concert deleted"})
}

func pathID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(400, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
