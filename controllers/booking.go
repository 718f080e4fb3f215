package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"detailstudio-backend/config"
	"detailstudio-backend/models"
	"detailstudio-backend/services"
	"detailstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// BookingController exposes availability and the booking lifecycle.
type BookingController struct {
	Bookings *services.BookingService
}

type CreateBookingInput struct {
	ServiceID    uuid.UUID `json:"serviceId" binding:"required"`
	BookingDate  string    `json:"bookingDate" binding:"required,isodate"`
	StartTime    string    `json:"startTime" binding:"required,hhmm"`
	VehicleMake  *string   `json:"vehicleMake" binding:"omitempty,max=100"`
	VehicleModel *string   `json:"vehicleModel" binding:"omitempty,max=100"`
	ClientName   *string   `json:"clientName" binding:"omitempty,max=200"`
	ClientEmail  *string   `json:"clientEmail" binding:"omitempty,email"`
	ClientPhone  *string   `json:"clientPhone" binding:"omitempty,phone"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// AvailableSlots answers GET /api/bookings/available-slots?date=&serviceId=.
func (ctl *BookingController) AvailableSlots(c *gin.Context) {
	date := c.Query("date")
	rawID := c.Query("serviceId")
	if date == "" || rawID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "date and serviceId are required")
		return
	}
	serviceID, err := uuid.Parse(rawID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	slots, err := ctl.Bookings.AvailableSlots(c.Request.Context(), date, serviceID)
	if err != nil {
		respondServiceError(c, err, "Failed to compute available slots")
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// CreateBooking books a slot for the current client or a guest.
func (ctl *BookingController) CreateBooking(c *gin.Context) {
	var input CreateBookingInput
	if err := bindStrictJSON(c, &input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}

	in := services.CreateBookingInput{
		ServiceID:    input.ServiceID,
		Date:         input.BookingDate,
		StartTime:    input.StartTime,
		VehicleMake:  utils.NilIfBlank(input.VehicleMake),
		VehicleModel: utils.NilIfBlank(input.VehicleModel),
		ClientName:   utils.NilIfBlank(input.ClientName),
		ClientEmail:  utils.NilIfBlank(input.ClientEmail),
		ClientPhone:  utils.NilIfBlank(input.ClientPhone),
	}
	if p, ok := utils.CurrentPrincipal(c); ok && !p.IsAdmin() && clientExists(c, p.ID) {
		id := p.ID
		in.ClientID = &id
		if in.ClientEmail == nil && p.Email != "" {
			email := p.Email
			in.ClientEmail = &email
		}
	}

	booking, err := ctl.Bookings.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBookings lists every booking for admins and the caller's own otherwise.
func (ctl *BookingController) GetBookings(c *gin.Context) {
	p, ok := utils.CurrentPrincipal(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var (
		bookings interface{}
		err      error
	)
	if p.IsAdmin() {
		bookings, err = ctl.Bookings.ListAll(c.Request.Context())
	} else {
		bookings, err = ctl.Bookings.ListForClient(c.Request.Context(), p.ID)
	}
	if err != nil {
		utils.RespondInternal(c, "Failed to retrieve bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (ctl *BookingController) UpdateBookingStatus(c *gin.Context) {
	id, ok := idParam(c, "booking")
	if !ok {
		return
	}
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}

	booking, err := ctl.Bookings.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update booking status")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ExportBookings streams all bookings as an xlsx workbook.
func (ctl *BookingController) ExportBookings(c *gin.Context) {
	bookings, err := ctl.Bookings.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondInternal(c, "Failed to retrieve bookings", err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteBookingsWorkbook(&buf, bookings); err != nil {
		utils.RespondInternal(c, "Failed to build bookings export", err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// clientExists lets a token whose client was removed book as a guest.
func clientExists(c *gin.Context, id uuid.UUID) bool {
	var count int64
	config.DB.WithContext(c.Request.Context()).Model(&models.Client{}).Where("id = ?", id).Count(&count)
	return count > 0
}

// bindStrictJSON decodes the body rejecting unknown fields, then runs the
// binding validators.
func bindStrictJSON(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil {
		return fmt.Errorf("empty request body")
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}
