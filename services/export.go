package services

import (
	"fmt"
	"io"
	"strings"

	"detailstudio-backend/models"

	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

var bookingColumns = []string{
	"Booking ID", "Date", "Start", "End", "Service", "Price", "Status",
	"Client", "Email", "Phone", "Vehicle", "Created",
}

// WriteBookingsWorkbook renders bookings as a single-sheet xlsx workbook.
func WriteBookingsWorkbook(w io.Writer, bookings []models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return err
	}

	for i, col := range bookingColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(bookingsSheet, cell, col); err != nil {
			return err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(bookingColumns), 1)
		_ = f.SetCellStyle(bookingsSheet, "A1", last, style)
	}

	for r, b := range bookings {
		row := []interface{}{
			b.ID.String(), b.BookingDate, b.StartTime, b.EndTime,
			b.ServiceName, b.ServicePrice, string(b.Status),
			contactName(&b), contactEmail(&b), contactPhone(&b),
			vehicle(&b), b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(bookingsSheet, cell, v); err != nil {
				return fmt.Errorf("row %d: %w", r+2, err)
			}
		}
	}

	return f.Write(w)
}

func contactName(b *models.Booking) string {
	if b.ClientName != nil {
		return *b.ClientName
	}
	if b.Client != nil {
		return b.Client.Name
	}
	return ""
}

func contactEmail(b *models.Booking) string {
	if b.ClientEmail != nil {
		return *b.ClientEmail
	}
	if b.Client != nil {
		return b.Client.Email
	}
	return ""
}

func vehicle(b *models.Booking) string {
	var parts []string
	if b.VehicleMake != nil {
		parts = append(parts, *b.VehicleMake)
	}
	if b.VehicleModel != nil {
		parts = append(parts, *b.VehicleModel)
	}
	return strings.Join(parts, " ")
}
