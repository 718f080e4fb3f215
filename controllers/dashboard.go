package controllers

import (
	"net/http"
	"time"

	"detailstudio-backend/config"
	"detailstudio-backend/models"
	"detailstudio-backend/scheduling"
	"detailstudio-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalBookings        int64             `json:"totalBookings"`
	BookingsByStatus     map[string]int64  `json:"bookingsByStatus"`
	TodayBookings        int64             `json:"todayBookings"`
	MonthlyRevenue       float64           `json:"monthlyRevenue"`
	TotalClients         int64             `json:"totalClients"`
	NewConsultations     int64             `json:"newConsultations"`
	PendingTestimonials  int64             `json:"pendingTestimonials"`
	UpcomingAppointments []UpcomingBooking `json:"upcomingAppointments"`
}

type UpcomingBooking struct {
	BookingID   string `json:"bookingId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	ServiceName string `json:"serviceName"`
	Status      string `json:"status"`
}

// GetDashboardOverview summarises bookings, clients and moderation queues.
func GetDashboardOverview(c *gin.Context) {
	db := config.DB.WithContext(c.Request.Context())
	var overview DashboardOverview

	if err := db.Model(&models.Booking{}).Count(&overview.TotalBookings).Error; err != nil {
		utils.RespondInternal(c, "Failed to count bookings", err)
		return
	}

	type statusRow struct {
		Status string
		Count  int64
	}
	var rows []statusRow
	db.Model(&models.Booking{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows)
	overview.BookingsByStatus = make(map[string]int64, len(scheduling.BookingStatuses))
	for _, s := range scheduling.BookingStatuses {
		overview.BookingsByStatus[string(s)] = 0
	}
	for _, r := range rows {
		overview.BookingsByStatus[r.Status] = r.Count
	}

	now := time.Now()
	today := utils.DateString(now)
	db.Model(&models.Booking{}).
		Where("booking_date = ? AND status <> ?", today, scheduling.StatusCancelled).
		Count(&overview.TodayBookings)

	// This month's revenue from completed work
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(scheduling.DateLayout)
	db.Model(&models.Booking{}).
		Where("booking_date >= ? AND status = ?", firstOfMonth, scheduling.StatusCompleted).
		Select("COALESCE(SUM(service_price), 0)").Scan(&overview.MonthlyRevenue)

	db.Model(&models.Client{}).Count(&overview.TotalClients)
	db.Model(&models.Consultation{}).Where("status = ?", scheduling.ConsultationNew).Count(&overview.NewConsultations)
	db.Model(&models.Testimonial{}).Where("approved = ?", false).Count(&overview.PendingTestimonials)

	// Next appointments from today on
	var upcoming []models.Booking
	db.Where("booking_date >= ? AND status IN ?", today,
		[]string{string(scheduling.StatusPending), string(scheduling.StatusConfirmed)}).
		Order("booking_date ASC, start_time ASC").
		Limit(5).
		Find(&upcoming)
	overview.UpcomingAppointments = make([]UpcomingBooking, 0, len(upcoming))
	for _, b := range upcoming {
		overview.UpcomingAppointments = append(overview.UpcomingAppointments, UpcomingBooking{
			BookingID:   b.ID.String(),
			Date:        b.BookingDate,
			StartTime:   b.StartTime,
			ServiceName: b.ServiceName,
			Status:      string(b.Status),
		})
	}

	c.JSON(http.StatusOK, overview)
}
