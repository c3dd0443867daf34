package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// Payment statuses as stored on payment rows.
const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusFailed   = "failed"
	StatusExpired  = "expired"
	StatusRefunded = "refunded"
)

// ErrAlreadyPaid reports an intent attempt against a settled booking.
var ErrAlreadyPaid = errors.New("payment: booking already paid")

// Service opens payment intents for bookings. CreateIntent takes the querier
// as an argument so booking creation can run it inside its own transaction.
type Service struct {
	Provider        Provider
	IntentTTL       time.Duration
	CallbackBaseURL string
}

// CreateIntent creates, or reuses, the payment intent for a booking. The
// payments table holds one row per booking, so a retried create returns the
// pending row instead of opening a second intent.
func (s *Service) CreateIntent(ctx context.Context, q *dbgen.Queries, booking dbgen.Booking) (dbgen.Payment, error) {
	var zero dbgen.Payment
	if s == nil || s.Provider == nil || q == nil {
		return zero, errors.New("payment service not configured")
	}
	existing, err := q.GetPaymentByBooking(ctx, booking.ID)
	if err == nil {
		switch existing.Status {
		case StatusPaid:
			return zero, ErrAlreadyPaid
		case StatusPending:
			return existing, nil
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return zero, fmt.Errorf("payment: load intent: %w", err)
	}

	ttl := s.IntentTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	bookingID := uuidString(booking.ID)
	resp, err := s.Provider.CreateIntent(ctx, IntentRequest{
		BookingID:       bookingID,
		Amount:          common.DecimalFromNumeric(booking.TotalAmount),
		Currency:        booking.Currency,
		ExpiresIn:       ttl,
		CallbackBaseURL: s.CallbackBaseURL,
	})
	if err != nil {
		return zero, fmt.Errorf("payment: open intent: %w", err)
	}
	gateway := resp.Gateway
	if gateway == "" {
		gateway = s.Provider.Name()
	}
	payment, err := q.CreatePayment(ctx, dbgen.CreatePaymentParams{
		BookingID:   booking.ID,
		Gateway:     gateway,
		IntentToken: toNullableText(resp.Token),
		Amount:      booking.TotalAmount,
		Currency:    booking.Currency,
	})
	if err != nil {
		return zero, fmt.Errorf("payment: persist intent: %w", err)
	}
	return payment, nil
}

// Status returns the current payment status for a booking, falling back to
// the booking status when no intent exists yet.
func (s *Service) Status(ctx context.Context, q *dbgen.Queries, bookingID pgtype.UUID) (string, error) {
	if q == nil {
		return "", errors.New("payment service not configured")
	}
	payment, err := q.GetPaymentByBooking(ctx, bookingID)
	if err == nil {
		return payment.Status, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	booking, err := q.GetBookingByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	switch booking.Status {
	case "confirmed", "completed":
		return StatusPaid, nil
	case "cancelled":
		return StatusFailed, nil
	case "expired":
		return StatusExpired, nil
	default:
		return StatusPending, nil
	}
}

func uuidString(id pgtype.UUID) string {
	return uuid.UUID(id.Bytes).String()
}

func toNullableText(v string) pgtype.Text {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}
