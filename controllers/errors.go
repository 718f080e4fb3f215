package controllers

import (
	"errors"
	"net/http"

	"detailstudio-backend/services"
	"detailstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognised is logged and answered with a generic 500.
func respondServiceError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrSlotTaken):
		utils.RespondWithError(c, http.StatusConflict, "Time slot is already booked")
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		utils.RespondInternal(c, msg, err)
	}
}

// idParam parses the :id path parameter, answering 400 when it is not a uuid.
func idParam(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}
