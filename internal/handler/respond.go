package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs-lzh/concert-booking/internal/service"
)

// respondError maps the service error taxonomy to client-facing status codes
// so the UI can tell "not found" from "already booked" from "sold out".
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConcertExists), errors.Is(err, service.ErrAlreadyReserved):
		ctx.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSoldOut), errors.Is(err, service.ErrInvalidInput):
		ctx.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLockTimeout):
		ctx.JSON(503, gin.H{
			"error":   err.Error(),
			"message": "The concert is busy, please retry",
		})
	default:
		ctx.JSON(500, gin.H{
			"error":   "Internal server error",
			"message": "Failed to process request, please try again later",
		})
	}
}

// requester pulls the caller's identity from the request. Authentication is
// handled upstream; an empty identity is rejected here.
func requester(ctx *gin.Context) (string, bool) {
	requesterID := ctx.GetHeader("X-Username")
	if requesterID == "" {
		ctx.JSON(400, gin.H{"error": "Missing X-Username header"})
		return "", false
	}
	return requesterID, true
}
