package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
	"github.com/noah-isme/backend-glam/internal/events"
	"github.com/noah-isme/backend-glam/internal/obs"
	"github.com/noah-isme/backend-glam/internal/pricing"
)

// Booking statuses.
const (
	StatusPendingPayment = "pending_payment"
	StatusConfirmed      = "confirmed"
	StatusCompleted      = "completed"
	StatusCancelled      = "cancelled"
	StatusExpired        = "expired"
)

// PricingEngine computes the payable breakdown for a booking attempt.
type PricingEngine interface {
	Compute(ctx context.Context, in pricing.Input) (pricing.Result, error)
}

// IntentOpener opens the payment intent for a freshly created booking. It
// runs with the transaction-bound querier so booking and intent commit
// together.
type IntentOpener interface {
	CreateIntent(ctx context.Context, q *dbgen.Queries, booking dbgen.Booking) (dbgen.Payment, error)
}

// ExpiryScheduler defers the payment-hold expiry check.
type ExpiryScheduler interface {
	ScheduleBookingExpiry(ctx context.Context, bookingID string, in time.Duration) error
}

// CreateInput is the customer-facing booking request.
type CreateInput struct {
	ServiceID     string           `json:"serviceId" validate:"required,uuid"`
	LocationType  string           `json:"locationType" validate:"required,oneof=at_salon at_home"`
	LocationID    *string          `json:"locationId" validate:"omitempty,uuid"`
	Address       *string          `json:"address"`
	ScheduledAt   time.Time        `json:"scheduledAt" validate:"required"`
	TipAmount     *decimal.Decimal `json:"tipAmount"`
	PromotionCode *string          `json:"promotionCode"`
}

// Output bundles the created booking with its payment intent.
type Output struct {
	Booking dbgen.Booking `json:"booking"`
	Payment dbgen.Payment `json:"payment"`
}

// Service creates and transitions bookings. Creation loads the offering,
// prices it through the engine, and persists booking plus payment intent in
// one transaction.
type Service struct {
	Q        *dbgen.Queries
	Pool     *pgxpool.Pool
	Engine   PricingEngine
	Payments IntentOpener
	Events   *events.Bus
	Expiry   ExpiryScheduler
	Validate *validator.Validate
	Currency string
	HoldTTL  time.Duration
	Log      zerolog.Logger
	Now      func() time.Time
}

// Create prices and persists a booking for the given customer. The returned
// booking is in pending_payment and carries the full pricing breakdown.
func (s *Service) Create(ctx context.Context, customerID uuid.UUID, in CreateInput) (Output, error) {
	if s == nil || s.Q == nil || s.Pool == nil || s.Engine == nil || s.Payments == nil {
		return Output{}, errors.New("booking service not configured")
	}
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return Output{}, common.NewAppError("BAD_REQUEST", validationMessage(err), http.StatusBadRequest, err)
		}
	}
	locType := pricing.LocationType(strings.TrimSpace(in.LocationType))

	serviceID, err := uuid.Parse(in.ServiceID)
	if err != nil {
		return Output{}, common.NewAppError("BAD_REQUEST", "invalid serviceId", http.StatusBadRequest, err)
	}
	offering, err := s.Q.GetServiceByID(ctx, pgtype.UUID{Bytes: serviceID, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Output{}, common.NewAppError("NOT_FOUND", "service not found", http.StatusNotFound, err)
		}
		return Output{}, fmt.Errorf("booking: load service: %w", err)
	}
	if !offering.IsActive {
		return Output{}, common.NewAppError("NOT_FOUND", "service not found", http.StatusNotFound, nil)
	}

	travelFee := decimal.Zero
	var locationID *uuid.UUID
	var address pgtype.Text
	switch locType {
	case pricing.AtHome:
		if !offering.AtHomeAvailable {
			return Output{}, common.NewAppError("BAD_REQUEST", "service is not available at home", http.StatusBadRequest, nil)
		}
		if in.Address == nil || strings.TrimSpace(*in.Address) == "" {
			return Output{}, common.NewAppError("BAD_REQUEST", "address is required for at-home bookings", http.StatusBadRequest, nil)
		}
		address = pgtype.Text{String: strings.TrimSpace(*in.Address), Valid: true}
		travelFee = common.DecimalFromNumeric(offering.TravelFee)
	case pricing.AtSalon:
		if in.LocationID == nil {
			return Output{}, common.NewAppError("BAD_REQUEST", "locationId is required for at-salon bookings", http.StatusBadRequest, nil)
		}
		parsed, err := uuid.Parse(*in.LocationID)
		if err != nil {
			return Output{}, common.NewAppError("BAD_REQUEST", "invalid locationId", http.StatusBadRequest, err)
		}
		location, err := s.Q.GetLocationByID(ctx, pgtype.UUID{Bytes: parsed, Valid: true})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Output{}, common.NewAppError("NOT_FOUND", "location not found", http.StatusNotFound, err)
			}
			return Output{}, fmt.Errorf("booking: load location: %w", err)
		}
		if !location.IsActive || location.ProviderID != offering.ProviderID {
			return Output{}, common.NewAppError("BAD_REQUEST", "location does not belong to this provider", http.StatusBadRequest, nil)
		}
		locationID = &parsed
	default:
		return Output{}, common.NewAppError("BAD_REQUEST", "locationType must be at_salon or at_home", http.StatusBadRequest, nil)
	}

	if !in.ScheduledAt.After(s.now()) {
		return Output{}, common.NewAppError("BAD_REQUEST", "scheduledAt must be in the future", http.StatusBadRequest, nil)
	}

	result, err := s.compute(ctx, pricing.Input{
		BasePrice:     common.DecimalFromNumeric(offering.BasePrice),
		TravelFee:     travelFee,
		Currency:      s.Currency,
		ProviderID:    uuid.UUID(offering.ProviderID.Bytes),
		CustomerID:    customerID,
		TipAmount:     in.TipAmount,
		PromotionCode: in.PromotionCode,
		LocationType:  locType,
		LocationID:    locationID,
	})
	if err != nil {
		s.countCreate(locType, "pricing_error")
		if errors.Is(err, pricing.ErrProviderNotFound) {
			return Output{}, common.NewAppError("NOT_FOUND", "provider not found", http.StatusNotFound, err)
		}
		return Output{}, fmt.Errorf("booking: price booking: %w", err)
	}

	params := buildCreateParams(customerID, offering, in, locType, locationID, address, s.Currency, result)

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		s.countCreate(locType, "error")
		return Output{}, fmt.Errorf("booking: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.Q.WithTx(tx)

	created, err := qtx.CreateBooking(ctx, params)
	if err != nil {
		s.countCreate(locType, "error")
		return Output{}, fmt.Errorf("booking: persist booking: %w", err)
	}
	payment, err := s.Payments.CreateIntent(ctx, qtx, created)
	if err != nil {
		s.countCreate(locType, "error")
		return Output{}, fmt.Errorf("booking: open payment intent: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		s.countCreate(locType, "error")
		return Output{}, fmt.Errorf("booking: commit: %w", err)
	}

	s.countCreate(locType, "created")
	s.afterCreate(ctx, created, offering)

	return Output{Booking: created, Payment: payment}, nil
}

// Cancel transitions a customer's pending booking to cancelled.
func (s *Service) Cancel(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID) (dbgen.Booking, error) {
	if s == nil || s.Q == nil {
		return dbgen.Booking{}, errors.New("booking service not configured")
	}
	id := pgtype.UUID{Bytes: bookingID, Valid: true}
	current, err := s.Q.GetBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Booking{}, common.NewAppError("NOT_FOUND", "booking not found", http.StatusNotFound, err)
		}
		return dbgen.Booking{}, fmt.Errorf("booking: load booking: %w", err)
	}
	if uuid.UUID(current.CustomerID.Bytes) != customerID {
		return dbgen.Booking{}, common.NewAppError("FORBIDDEN", "not your booking", http.StatusForbidden, nil)
	}
	updated, err := s.Q.TransitionBookingStatus(ctx, dbgen.TransitionBookingStatusParams{
		ID:         id,
		PrevStatus: StatusPendingPayment,
		NextStatus: StatusCancelled,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Booking{}, common.NewAppError("INVALID_STATE", "only pending bookings can be cancelled", http.StatusConflict, nil)
		}
		return dbgen.Booking{}, fmt.Errorf("booking: cancel booking: %w", err)
	}
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicBookingCancelled, updated.ID, map[string]any{
			"bookingId":  uuidString(updated.ID),
			"customerId": uuidString(updated.CustomerID),
			"providerId": uuidString(updated.ProviderID),
			"status":     updated.Status,
		})
	}
	return updated, nil
}

// Expire lapses a booking whose payment hold ran out. Bookings that left
// pending_payment in the meantime are untouched.
func (s *Service) Expire(ctx context.Context, bookingID uuid.UUID) error {
	if s == nil || s.Q == nil || s.Pool == nil {
		return errors.New("booking service not configured")
	}
	id := pgtype.UUID{Bytes: bookingID, Valid: true}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("booking: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.Q.WithTx(tx)

	updated, err := qtx.TransitionBookingStatus(ctx, dbgen.TransitionBookingStatusParams{
		ID:         id,
		PrevStatus: StatusPendingPayment,
		NextStatus: StatusExpired,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("booking: expire booking: %w", err)
	}
	if _, err := qtx.UpdatePaymentStatus(ctx, dbgen.UpdatePaymentStatusParams{
		BookingID: id,
		Status:    "expired",
	}); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("booking: expire payment: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("booking: commit expiry: %w", err)
	}
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicBookingCancelled, updated.ID, map[string]any{
			"bookingId":  uuidString(updated.ID),
			"customerId": uuidString(updated.CustomerID),
			"providerId": uuidString(updated.ProviderID),
			"status":     updated.Status,
		})
	}
	return nil
}

// compute runs the pricing engine under the latency histogram.
func (s *Service) compute(ctx context.Context, in pricing.Input) (pricing.Result, error) {
	start := time.Now()
	result, err := s.Engine.Compute(ctx, in)
	if obs.PricingComputeSeconds != nil {
		obs.PricingComputeSeconds.Observe(time.Since(start).Seconds())
	}
	return result, err
}

func (s *Service) afterCreate(ctx context.Context, created dbgen.Booking, offering dbgen.Service) {
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicBookingCreated, created.ID, map[string]any{
			"bookingId":   uuidString(created.ID),
			"customerId":  uuidString(created.CustomerID),
			"providerId":  uuidString(created.ProviderID),
			"serviceName": offering.Name,
			"totalAmount": common.DecimalFromNumeric(created.TotalAmount).StringFixed(2),
			"currency":    created.Currency,
		})
	}
	if s.Expiry != nil && s.HoldTTL > 0 {
		if err := s.Expiry.ScheduleBookingExpiry(ctx, uuidString(created.ID), s.HoldTTL); err != nil {
			s.Log.Error().Err(err).Str("booking_id", uuidString(created.ID)).Msg("schedule booking expiry")
		}
	}
}

func (s *Service) countCreate(locType pricing.LocationType, result string) {
	if obs.BookingsCreatedTotal != nil {
		obs.BookingsCreatedTotal.WithLabelValues(string(locType), result).Inc()
	}
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// buildCreateParams maps the priced booking onto the insert parameters.
func buildCreateParams(customerID uuid.UUID, offering dbgen.Service, in CreateInput, locType pricing.LocationType, locationID *uuid.UUID, address pgtype.Text, currency string, result pricing.Result) dbgen.CreateBookingParams {
	params := dbgen.CreateBookingParams{
		CustomerID:              pgtype.UUID{Bytes: customerID, Valid: true},
		ProviderID:              offering.ProviderID,
		ServiceID:               offering.ID,
		LocationType:            string(locType),
		Address:                 address,
		ScheduledAt:             pgtype.Timestamptz{Time: in.ScheduledAt, Valid: true},
		Currency:                currency,
		Subtotal:                common.NumericFromDecimal(result.Subtotal),
		TravelFee:               common.NumericFromDecimal(result.TravelFee),
		PromotionDiscountAmount: common.NumericFromDecimal(result.PromotionDiscountAmount),
		DiscountAmount:          common.NumericFromDecimal(result.DiscountAmount),
		TaxRate:                 common.NumericFromDecimal(result.TaxRate),
		TaxAmount:               common.NumericFromDecimal(result.TaxAmount),
		ServiceFeePercentage:    common.NumericFromDecimal(result.ServiceFeePercentage),
		ServiceFeeAmount:        common.NumericFromDecimal(result.ServiceFeeAmount),
		TipAmount:               common.NumericFromDecimal(result.TipAmount),
		TotalAmount:             common.NumericFromDecimal(result.TotalAmount),
		CommissionBase:          common.NumericFromDecimal(result.CommissionBase),
	}
	if locationID != nil {
		params.LocationID = pgtype.UUID{Bytes: *locationID, Valid: true}
	}
	if result.PromotionID != nil {
		params.PromotionID = pgtype.UUID{Bytes: *result.PromotionID, Valid: true}
	}
	return params
}

func validationMessage(err error) string {
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return "invalid payload"
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return fmt.Sprintf("invalid field %s", fields[0].Field())
	}
	return "invalid payload"
}

func uuidString(id pgtype.UUID) string {
	return uuid.UUID(id.Bytes).String()
}
