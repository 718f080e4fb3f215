// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"detailstudio-backend/metrics"
	"detailstudio-backend/models"
	"detailstudio-backend/scheduling"
	"detailstudio-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const ChannelSMS = "sms"

// SMSSender delivers one text message and returns the provider's message id.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioSender sends SMS through the Twilio Messages API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSid, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (s *TwilioSender) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// ReminderService texts clients the evening before their appointment.
type ReminderService struct {
	db       *gorm.DB
	sender   SMSSender
	template string
	now      func() time.Time
}

func NewReminderService(db *gorm.DB, sender SMSSender, template string) *ReminderService {
	return &ReminderService{db: db, sender: sender, template: template, now: time.Now}
}

// StartScheduler runs SendDailyReminders on the given cron spec. The caller
// stops the returned cron on shutdown.
func (s *ReminderService) StartScheduler(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := s.SendDailyReminders(context.Background()); err != nil {
			zap.L().Error("Daily reminders failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("reminder schedule %q: %w", spec, err)
	}
	c.Start()
	zap.L().Info("Reminder scheduler started", zap.String("schedule", spec))
	return c, nil
}

// SendDailyReminders texts every active booking for tomorrow that has a phone
// number and has not been reminded yet. It returns the number of messages sent.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (int, error) {
	date := utils.Tomorrow(s.now())
	zap.L().Info("Starting daily reminder processing", zap.String("date", date))

	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Client").
		Where("booking_date = ? AND status IN ?", date,
			[]string{string(scheduling.StatusPending), string(scheduling.StatusConfirmed)}).
		Order("start_time ASC").
		Find(&bookings).Error
	if err != nil {
		return 0, fmt.Errorf("bookings for %s: %w", date, err)
	}

	sent := 0
	for i := range bookings {
		ok, err := s.remind(ctx, &bookings[i])
		if err != nil {
			zap.L().Error("Failed to record reminder",
				zap.String("bookingId", bookings[i].ID.String()), zap.Error(err))
			continue
		}
		if ok {
			sent++
		}
	}

	zap.L().Info("Daily reminder processing completed", zap.String("date", date), zap.Int("sent", sent))
	return sent, nil
}

func (s *ReminderService) remind(ctx context.Context, b *models.Booking) (bool, error) {
	phone := contactPhone(b)
	if phone == "" {
		return false, nil
	}

	var existing models.ReminderLog
	err := s.db.WithContext(ctx).
		Where("booking_id = ? AND channel = ?", b.ID, ChannelSMS).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	message := RenderReminder(s.template, b)
	entry := models.ReminderLog{
		BookingID: b.ID,
		Channel:   ChannelSMS,
		Phone:     phone,
		Message:   message,
		Status:    "sent",
		SentAt:    s.now(),
	}

	sid, sendErr := s.sender.Send(ctx, phone, message)
	if sendErr != nil {
		zap.L().Warn("Failed to send reminder", zap.String("bookingId", b.ID.String()), zap.Error(sendErr))
		entry.Status = "failed"
		entry.ErrorMessage = sendErr.Error()
		metrics.IncReminder("failed")
	} else {
		zap.L().Info("Reminder sent", zap.String("bookingId", b.ID.String()), zap.String("sid", sid))
		metrics.IncReminder("sent")
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return false, err
	}
	return sendErr == nil, nil
}

// RenderReminder fills the [ClientName], [ServiceName], [StartTime] and [Date]
// placeholders.
func RenderReminder(template string, b *models.Booking) string {
	name := "there"
	if b.ClientName != nil && *b.ClientName != "" {
		name = *b.ClientName
	} else if b.Client != nil && b.Client.Name != "" {
		name = b.Client.Name
	}
	return strings.NewReplacer(
		"[ClientName]", name,
		"[ServiceName]", b.ServiceName,
		"[StartTime]", b.StartTime,
		"[Date]", b.BookingDate,
	).Replace(template)
}

func contactPhone(b *models.Booking) string {
	if b.ClientPhone != nil && strings.TrimSpace(*b.ClientPhone) != "" {
		return strings.TrimSpace(*b.ClientPhone)
	}
	if b.Client != nil && b.Client.Phone != nil {
		return strings.TrimSpace(*b.Client.Phone)
	}
	return ""
}
