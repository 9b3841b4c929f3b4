package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"afcm-ticketing/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dispatchFixtures() (*models.Attendee, *models.PassProduct, *models.Ticket, *models.EventSettings) {
	return unpaidAttendee(), investorPass(), &models.Ticket{
		ID:           "tkt_0001",
		OrderID:      "ord_0001",
		SerialNumber: "AFCM-1PZX4K9QH2M81",
		ValidFrom:    time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		ValidTo:      time.Date(2026, 3, 4, 22, 0, 0, 0, time.UTC),
	}, testSettings()
}

func TestDispatchTicketIssued(t *testing.T) {
	st := &mockStore{}
	db, redisMock := redismock.NewClientMock()
	svc := NewNotificationService(st, db, nil, nil, testEmailFrom)
	ctx := context.Background()

	attendee, pass, tkt, settings := dispatchFixtures()

	var recorded *models.Notification
	st.On("CreateNotification", ctx, mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(1).(*models.Notification)
		recorded.ID = "not_0001"
	}).Return(nil)

	redisMock.Regexp().ExpectLPush(NotificationQueueKey, `.*"notification_id":"not_0001".*"from":"AFCM Tickets.*`).SetVal(1)

	require.NoError(t, svc.DispatchTicketIssued(ctx, attendee, pass, tkt, settings))
	assert.NoError(t, redisMock.ExpectationsWereMet())

	require.NotNil(t, recorded)
	assert.Equal(t, "ada@example.com", recorded.RecipientEmail)
	assert.Equal(t, models.NotificationStatusPending, recorded.Status)
	assert.Contains(t, recorded.Subject, "Investor Pass")
	assert.Contains(t, recorded.BodyText, "Hi Ada,")
	assert.Contains(t, recorded.BodyText, "AFCM-1PZX4K9QH2M81")
	assert.Contains(t, recorded.BodyText, "https://afcm.example/me/ticket")

	var meta models.NotificationMeta
	require.NoError(t, json.Unmarshal(recorded.Metadata, &meta))
	assert.Equal(t, "ticket_issued", meta.Type)
	assert.Equal(t, "tkt_0001", meta.TicketID)
	assert.Equal(t, "ord_0001", meta.OrderID)
}

func TestDispatchTicketIssued_StoreFailure(t *testing.T) {
	st := &mockStore{}
	db, redisMock := redismock.NewClientMock()
	svc := NewNotificationService(st, db, nil, nil, testEmailFrom)
	ctx := context.Background()

	attendee, pass, tkt, settings := dispatchFixtures()

	st.On("CreateNotification", ctx, mock.Anything).Return(assert.AnError)

	err := svc.DispatchTicketIssued(ctx, attendee, pass, tkt, settings)
	assert.Error(t, err)
	// nothing enqueued without a stored row
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestDispatchTicketIssued_QueueFailure(t *testing.T) {
	st := &mockStore{}
	db, redisMock := redismock.NewClientMock()
	svc := NewNotificationService(st, db, nil, nil, testEmailFrom)
	ctx := context.Background()

	attendee, pass, tkt, settings := dispatchFixtures()

	st.On("CreateNotification", ctx, mock.Anything).Return(nil)
	redisMock.Regexp().ExpectLPush(NotificationQueueKey, `.*`).SetErr(assert.AnError)

	assert.Error(t, svc.DispatchTicketIssued(ctx, attendee, pass, tkt, settings))
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Ada", firstName("Ada Obi"))
	assert.Equal(t, "Ada", firstName("Ada"))
	assert.Equal(t, "", firstName(""))
}
