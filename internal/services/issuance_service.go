package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"afcm-ticketing/internal/status"
	"afcm-ticketing/internal/store"
	"afcm-ticketing/internal/ticket"
	"afcm-ticketing/models"
	"afcm-ticketing/monitoring"

	"github.com/google/uuid"
)

// IssuanceService owns ticket creation. MarkOrderPaid commits before any
// ticket work so a crash leaves "paid order, no ticket yet" — a state the
// next redelivery recovers by re-driving Issue, which is replay-safe end to
// end.
type IssuanceService struct {
	store    store.Store
	serials  *ticket.SerialGenerator
	notifier *NotificationService
	monitor  *monitoring.Monitor
	qrSecret string
}

func NewIssuanceService(st store.Store, serials *ticket.SerialGenerator, notifier *NotificationService, monitor *monitoring.Monitor, qrSecret string) *IssuanceService {
	return &IssuanceService{
		store:    st,
		serials:  serials,
		notifier: notifier,
		monitor:  monitor,
		qrSecret: qrSecret,
	}
}

// ProcessConfirmation drives one authoritative "invoice paid" fact through
// the order state machine and the issuance engine.
//
// Returns status.ErrOrderNotFound when no order matches the request code
// and status.ErrAlreadyProcessed when the order reached a terminal state
// other than paid; both are acknowledge-no-op outcomes for the webhook.
func (s *IssuanceService) ProcessConfirmation(ctx context.Context, requestCode string, verification GatewayVerification) (*models.Ticket, error) {
	order, err := s.store.OrderByRequestCode(ctx, requestCode)
	if err != nil {
		return nil, err
	}

	paidAt := time.Now()
	if verification.PaidAt != nil {
		paidAt = *verification.PaidAt
	}

	updated, err := s.store.MarkOrderPaid(ctx, order.ID, paidAt, verification.Raw)
	if err != nil {
		return nil, fmt.Errorf("processConfirmation: %w: %v", status.ErrUpstreamUnavailable, err)
	}

	if !updated {
		// Another delivery won the conditional update, or the order was
		// expired/cancelled. Re-read to tell the two apart.
		order, err = s.store.OrderByID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if order.Status != models.OrderStatusPaid {
			return nil, status.ErrAlreadyProcessed
		}
		// Paid but possibly ticketless after a crash: fall through and let
		// Issue recover.
	} else {
		order.Status = models.OrderStatusPaid
		order.PaidAt = &paidAt
	}

	return s.Issue(ctx, order)
}

// Issue mints the ticket for a paid order. Every step tolerates replay:
// the existing-ticket check short-circuits redeliveries, the unique
// order index catches concurrent races, and attendee promotion is
// re-applied when a prior attempt crashed before it.
func (s *IssuanceService) Issue(ctx context.Context, order *models.Order) (*models.Ticket, error) {
	attendee, err := s.store.Attendee(ctx, order.AttendeeID)
	if err != nil {
		return nil, fmt.Errorf("issue: %w: %v", status.ErrDataIntegrity, err)
	}
	pass, err := s.store.PassProduct(ctx, order.PassProductID)
	if err != nil {
		return nil, fmt.Errorf("issue: %w: %v", status.ErrDataIntegrity, err)
	}

	days, err := s.store.EventDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("issue: %w: %v", status.ErrUpstreamUnavailable, err)
	}
	validFrom, validTo, err := ticket.ResolveWindow(days, pass.ValidStartDay, pass.ValidEndDay)
	if err != nil {
		return nil, err
	}

	if existing, err := s.store.TicketByOrder(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("issue: %w: %v", status.ErrUpstreamUnavailable, err)
	} else if existing != nil {
		return existing, s.ensurePromoted(ctx, attendee, pass)
	}

	settings, err := s.store.EventSettings(ctx)
	if err != nil {
		return nil, err
	}

	ticketID := uuid.NewString()
	token, err := ticket.EncodeToken(ticket.Claims{
		TicketID:   ticketID,
		AttendeeID: attendee.ID,
		OrderID:    order.ID,
		NotBefore:  validFrom.Unix(),
		Expiry:     validTo.Unix(),
	}, s.qrSecret)
	if err != nil {
		return nil, fmt.Errorf("issue: %w", err)
	}

	_, icsB64 := ticket.BuildICS(ticket.ICSInput{
		AttendeeName:  attendee.FullName,
		AttendeeEmail: attendee.Email,
		PassName:      pass.Name,
		ValidFrom:     validFrom,
		ValidTo:       validTo,
		SiteURL:       settings.SiteURL,
		Timezone:      settings.Timezone,
	})

	t := &models.Ticket{
		ID:            ticketID,
		AttendeeID:    attendee.ID,
		OrderID:       order.ID,
		PassProductID: pass.ID,
		SerialNumber:  s.serials.Next(),
		ValidFrom:     validFrom,
		ValidTo:       validTo,
		QRPayload:     token,
		Checksum:      ticket.Checksum(token),
		ICSBase64:     icsB64,
	}

	if err := s.store.CreateTicket(ctx, t); err != nil {
		// The unique order index may have rejected us because a concurrent
		// delivery inserted first; that ticket is the one that counts.
		existing, qerr := s.store.TicketByOrder(ctx, order.ID)
		if qerr != nil || existing == nil {
			return nil, fmt.Errorf("issue: %w: %v", status.ErrUpstreamUnavailable, err)
		}
		t = existing
	} else if s.monitor != nil {
		s.monitor.TrackTicketIssued()
	}

	if err := s.notifier.DispatchTicketIssued(ctx, attendee, pass, t, settings); err != nil {
		// never rolls back issuance
		slog.Error("notification dispatch failed", "order", order.ID, "ticket", t.ID, "error", err)
	}

	if err := s.store.PromoteAttendee(ctx, attendee.ID, pass.ID); err != nil {
		return nil, fmt.Errorf("issue: %w: %v", status.ErrUpstreamUnavailable, err)
	}

	return t, nil
}

// ensurePromoted re-applies the attendee transition when a previous attempt
// crashed after the ticket insert.
func (s *IssuanceService) ensurePromoted(ctx context.Context, attendee *models.Attendee, pass *models.PassProduct) error {
	if attendee.Status == models.AttendeeStatusPaid {
		return nil
	}
	if err := s.store.PromoteAttendee(ctx, attendee.ID, pass.ID); err != nil {
		return fmt.Errorf("issue: %w: %v", status.ErrUpstreamUnavailable, err)
	}
	return nil
}
