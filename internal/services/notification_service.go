package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"afcm-ticketing/internal/store"
	"afcm-ticketing/models"
	"afcm-ticketing/monitoring"

	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"
)

// NotificationQueueKey is the Redis list the external mail worker drains.
const NotificationQueueKey = "notifications:pending"

// NotificationService records and enqueues outbound messages. It is
// deliberately decoupled from ticket issuance: a failure here is logged and
// the ticket stands.
type NotificationService struct {
	store   store.Store
	redis   *redis.Client
	pubnub  *pubnub.PubNub
	monitor *monitoring.Monitor

	// from is the sender identity the mail worker puts on outbound mail.
	from string
}

func NewNotificationService(st store.Store, redisClient *redis.Client, pn *pubnub.PubNub, monitor *monitoring.Monitor, from string) *NotificationService {
	return &NotificationService{
		store:   st,
		redis:   redisClient,
		pubnub:  pn,
		monitor: monitor,
		from:    from,
	}
}

type queuedNotification struct {
	NotificationID string `json:"notification_id"`
	From           string `json:"from"`
	Recipient      string `json:"recipient"`
	Subject        string `json:"subject"`
	EnqueuedAt     int64  `json:"enqueued_at"`
}

// DispatchTicketIssued records the issuance notification, pushes it to the
// outbound queue and publishes a realtime event to the attendee's channel.
func (s *NotificationService) DispatchTicketIssued(ctx context.Context, attendee *models.Attendee, pass *models.PassProduct, t *models.Ticket, settings *models.EventSettings) error {
	meta, _ := json.Marshal(models.NotificationMeta{
		Type:       "ticket_issued",
		OrderID:    t.OrderID,
		AttendeeID: attendee.ID,
		TicketID:   t.ID,
	})

	n := &models.Notification{
		RecipientEmail: attendee.Email,
		Subject:        fmt.Sprintf("Your AFCM ticket – %s", pass.Name),
		BodyText:       buildTicketText(attendee, pass, t, settings),
		Status:         models.NotificationStatusPending,
		Metadata:       meta,
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("dispatchTicketIssued: %w", err)
	}

	queued, _ := json.Marshal(queuedNotification{
		NotificationID: n.ID,
		From:           s.from,
		Recipient:      n.RecipientEmail,
		Subject:        n.Subject,
		EnqueuedAt:     time.Now().Unix(),
	})
	if err := s.redis.LPush(ctx, NotificationQueueKey, string(queued)).Err(); err != nil {
		if s.monitor != nil {
			s.monitor.TrackNotificationEnqueue("failed")
		}
		return fmt.Errorf("dispatchTicketIssued: redis.LPush: %w", err)
	}
	if s.monitor != nil {
		s.monitor.TrackNotificationEnqueue("ok")
	}

	s.publishTicketIssued(attendee.ID, t)

	return nil
}

func (s *NotificationService) publishTicketIssued(attendeeID string, t *models.Ticket) {
	if s.pubnub == nil {
		return
	}

	channel := fmt.Sprintf("attendee-%s", attendeeID)
	_, _, err := s.pubnub.Publish().
		Channel(channel).
		Message(map[string]any{
			"type":      "ticket_issued",
			"ticket_id": t.ID,
			"serial":    t.SerialNumber,
		}).
		Execute()
	if err != nil {
		slog.Error("pubnub publish failed", "channel", channel, "error", err)
	}
}

func buildTicketText(attendee *models.Attendee, pass *models.PassProduct, t *models.Ticket, settings *models.EventSettings) string {
	siteURL := ""
	if settings != nil {
		siteURL = settings.SiteURL
	}
	return fmt.Sprintf(
		"Hi %s,\n\n%s confirmed. Show the QR in the AFCM app.\nSerial: %s\nValid: %s – %s\nView ticket: %s/me/ticket",
		firstName(attendee.FullName), pass.Name, t.SerialNumber,
		t.ValidFrom.Format(time.RFC1123), t.ValidTo.Format(time.RFC1123), siteURL,
	)
}

func firstName(full string) string {
	for i, r := range full {
		if r == ' ' {
			return full[:i]
		}
	}
	return full
}
