package services

import (
	"errors"

	"detailstudio-backend/scheduling"
)

// Error taxonomy shared by services and controllers.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	// ErrSlotTaken is the booking overlap condition.
	ErrSlotTaken = scheduling.ErrSlotTaken
)
