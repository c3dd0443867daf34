package offer

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
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-glam/internal/booking"
	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
	"github.com/noah-isme/backend-glam/internal/events"
	"github.com/noah-isme/backend-glam/internal/pricing"
)

// Offer statuses.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"
	StatusWithdrawn = "withdrawn"
	StatusExpired   = "expired"
)

// CreateInput is the provider-side custom offer.
type CreateInput struct {
	CustomerID   string           `json:"customerId" validate:"required,uuid"`
	Title        string           `json:"title" validate:"required,min=3,max=160"`
	Description  *string          `json:"description"`
	BasePrice    decimal.Decimal  `json:"basePrice" validate:"required"`
	TravelFee    *decimal.Decimal `json:"travelFee"`
	LocationType string           `json:"locationType" validate:"required,oneof=at_salon at_home"`
	LocationID   *string          `json:"locationId" validate:"omitempty,uuid"`
	ExpiresAt    *time.Time       `json:"expiresAt"`
}

// AcceptInput carries the customer's scheduling and pricing extras when
// accepting an offer.
type AcceptInput struct {
	ScheduledAt   time.Time        `json:"scheduledAt" validate:"required"`
	Address       *string          `json:"address"`
	TipAmount     *decimal.Decimal `json:"tipAmount"`
	PromotionCode *string          `json:"promotionCode"`
}

// Service manages the custom-offer negotiation between provider and
// customer. Acceptance prices the offer through the same engine as direct
// bookings and converts it into a pending booking atomically.
type Service struct {
	Q          *dbgen.Queries
	Pool       *pgxpool.Pool
	Engine     booking.PricingEngine
	Payments   booking.IntentOpener
	Events     *events.Bus
	Expiry     booking.ExpiryScheduler
	Validate   *validator.Validate
	Currency   string
	DefaultTTL time.Duration
	HoldTTL    time.Duration
	Log        zerolog.Logger
	Now        func() time.Time

	titlePolicy *bluemonday.Policy
	descPolicy  *bluemonday.Policy
}

// Create records a provider's custom offer for a customer.
func (s *Service) Create(ctx context.Context, providerID pgtype.UUID, in CreateInput) (dbgen.Offer, error) {
	if s == nil || s.Q == nil {
		return dbgen.Offer{}, errors.New("offer service not configured")
	}
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return dbgen.Offer{}, common.NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err)
		}
	}
	if !in.BasePrice.IsPositive() {
		return dbgen.Offer{}, common.NewAppError("BAD_REQUEST", "basePrice must be positive", http.StatusBadRequest, nil)
	}
	travelFee := decimal.Zero
	if in.TravelFee != nil {
		if in.TravelFee.IsNegative() {
			return dbgen.Offer{}, common.NewAppError("BAD_REQUEST", "travelFee must not be negative", http.StatusBadRequest, nil)
		}
		travelFee = *in.TravelFee
	}
	var locationID pgtype.UUID
	switch pricing.LocationType(in.LocationType) {
	case pricing.AtSalon:
		if in.LocationID == nil {
			return dbgen.Offer{}, common.NewAppError("BAD_REQUEST", "locationId is required for at-salon offers", http.StatusBadRequest, nil)
		}
		parsed, err := uuid.Parse(*in.LocationID)
		if err != nil {
			return dbgen.Offer{}, common.NewAppError("BAD_REQUEST", "invalid locationId", http.StatusBadRequest, err)
		}
		location, err := s.Q.GetLocationByID(ctx, pgtype.UUID{Bytes: parsed, Valid: true})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return dbgen.Offer{}, common.NewAppError("NOT_FOUND", "location not found", http.StatusNotFound, err)
			}
			return dbgen.Offer{}, fmt.Errorf("offer: load location: %w", err)
		}
		if !location.IsActive || location.ProviderID != providerID {
			return dbgen.Offer{}, common.NewAppError("BAD_REQUEST", "location does not belong to this provider", http.StatusBadRequest, nil)
		}
		locationID = location.ID
	case pricing.AtHome:
		// travel fee optional, location stays null
	default:
		return dbgen.Offer{}, common.NewAppError("BAD_REQUEST", "locationType must be at_salon or at_home", http.StatusBadRequest, nil)
	}

	customerID, err := uuid.Parse(in.CustomerID)
	if err != nil {
		return dbgen.Offer{}, common.NewAppError("BAD_REQUEST", "invalid customerId", http.StatusBadRequest, err)
	}

	expiresAt := s.now().Add(s.DefaultTTL)
	if in.ExpiresAt != nil {
		if !in.ExpiresAt.After(s.now()) {
			return dbgen.Offer{}, common.NewAppError("BAD_REQUEST", "expiresAt must be in the future", http.StatusBadRequest, nil)
		}
		expiresAt = *in.ExpiresAt
	}

	params := dbgen.CreateOfferParams{
		ProviderID:   providerID,
		CustomerID:   pgtype.UUID{Bytes: customerID, Valid: true},
		Title:        s.sanitizeTitle(in.Title),
		BasePrice:    common.NumericFromDecimal(in.BasePrice),
		TravelFee:    common.NumericFromDecimal(travelFee),
		LocationType: in.LocationType,
		LocationID:   locationID,
		ExpiresAt:    pgtype.Timestamptz{Time: expiresAt, Valid: true},
	}
	if in.Description != nil {
		if desc := strings.TrimSpace(s.sanitizeDescription(*in.Description)); desc != "" {
			params.Description = pgtype.Text{String: desc, Valid: true}
		}
	}
	created, err := s.Q.CreateOffer(ctx, params)
	if err != nil {
		return dbgen.Offer{}, fmt.Errorf("offer: persist offer: %w", err)
	}
	return created, nil
}

// Accept converts a pending offer into a priced booking with a payment
// intent. Offer and booking commit in one transaction so the offer can never
// be accepted twice.
func (s *Service) Accept(ctx context.Context, customerID uuid.UUID, offerID uuid.UUID, in AcceptInput) (booking.Output, error) {
	if s == nil || s.Q == nil || s.Pool == nil || s.Engine == nil || s.Payments == nil {
		return booking.Output{}, errors.New("offer service not configured")
	}
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return booking.Output{}, common.NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err)
		}
	}
	id := pgtype.UUID{Bytes: offerID, Valid: true}
	current, err := s.Q.GetOfferByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Output{}, common.NewAppError("NOT_FOUND", "offer not found", http.StatusNotFound, err)
		}
		return booking.Output{}, fmt.Errorf("offer: load offer: %w", err)
	}
	if uuid.UUID(current.CustomerID.Bytes) != customerID {
		return booking.Output{}, common.NewAppError("FORBIDDEN", "offer is not addressed to you", http.StatusForbidden, nil)
	}
	if current.Status != StatusPending {
		return booking.Output{}, common.NewAppError("INVALID_STATE", "offer is no longer open", http.StatusConflict, nil)
	}
	now := s.now()
	if current.ExpiresAt.Valid && !current.ExpiresAt.Time.After(now) {
		return booking.Output{}, common.NewAppError("INVALID_STATE", "offer has expired", http.StatusConflict, nil)
	}
	if !in.ScheduledAt.After(now) {
		return booking.Output{}, common.NewAppError("BAD_REQUEST", "scheduledAt must be in the future", http.StatusBadRequest, nil)
	}
	locType := pricing.LocationType(current.LocationType)
	var address pgtype.Text
	if locType == pricing.AtHome {
		if in.Address == nil || strings.TrimSpace(*in.Address) == "" {
			return booking.Output{}, common.NewAppError("BAD_REQUEST", "address is required for at-home offers", http.StatusBadRequest, nil)
		}
		address = pgtype.Text{String: strings.TrimSpace(*in.Address), Valid: true}
	}
	var locationID *uuid.UUID
	if current.LocationID.Valid {
		parsed := uuid.UUID(current.LocationID.Bytes)
		locationID = &parsed
	}

	result, err := s.Engine.Compute(ctx, pricing.Input{
		BasePrice:     common.DecimalFromNumeric(current.BasePrice),
		TravelFee:     common.DecimalFromNumeric(current.TravelFee),
		Currency:      s.Currency,
		ProviderID:    uuid.UUID(current.ProviderID.Bytes),
		CustomerID:    customerID,
		TipAmount:     in.TipAmount,
		PromotionCode: in.PromotionCode,
		LocationType:  locType,
		LocationID:    locationID,
	})
	if err != nil {
		if errors.Is(err, pricing.ErrProviderNotFound) {
			return booking.Output{}, common.NewAppError("NOT_FOUND", "provider not found", http.StatusNotFound, err)
		}
		return booking.Output{}, fmt.Errorf("offer: price offer: %w", err)
	}

	params := dbgen.CreateBookingParams{
		CustomerID:              current.CustomerID,
		ProviderID:              current.ProviderID,
		OfferID:                 current.ID,
		LocationType:            current.LocationType,
		LocationID:              current.LocationID,
		Address:                 address,
		ScheduledAt:             pgtype.Timestamptz{Time: in.ScheduledAt, Valid: true},
		Currency:                s.Currency,
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
	if result.PromotionID != nil {
		params.PromotionID = pgtype.UUID{Bytes: *result.PromotionID, Valid: true}
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return booking.Output{}, fmt.Errorf("offer: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.Q.WithTx(tx)

	created, err := qtx.CreateBooking(ctx, params)
	if err != nil {
		return booking.Output{}, fmt.Errorf("offer: persist booking: %w", err)
	}
	if _, err := qtx.AcceptOffer(ctx, dbgen.AcceptOfferParams{ID: current.ID, BookingID: created.ID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Output{}, common.NewAppError("INVALID_STATE", "offer is no longer open", http.StatusConflict, nil)
		}
		return booking.Output{}, fmt.Errorf("offer: accept offer: %w", err)
	}
	payment, err := s.Payments.CreateIntent(ctx, qtx, created)
	if err != nil {
		return booking.Output{}, fmt.Errorf("offer: open payment intent: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return booking.Output{}, fmt.Errorf("offer: commit: %w", err)
	}

	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicBookingCreated, created.ID, map[string]any{
			"bookingId":   uuidString(created.ID),
			"offerId":     uuidString(current.ID),
			"customerId":  uuidString(created.CustomerID),
			"providerId":  uuidString(created.ProviderID),
			"serviceName": current.Title,
			"totalAmount": common.DecimalFromNumeric(created.TotalAmount).StringFixed(2),
			"currency":    created.Currency,
		})
	}
	if s.Expiry != nil && s.HoldTTL > 0 {
		if err := s.Expiry.ScheduleBookingExpiry(ctx, uuidString(created.ID), s.HoldTTL); err != nil {
			s.Log.Error().Err(err).Str("booking_id", uuidString(created.ID)).Msg("schedule booking expiry")
		}
	}
	return booking.Output{Booking: created, Payment: payment}, nil
}

// Decline marks a pending offer declined by its customer.
func (s *Service) Decline(ctx context.Context, customerID uuid.UUID, offerID uuid.UUID) (dbgen.Offer, error) {
	return s.transition(ctx, offerID, StatusDeclined, func(o dbgen.Offer) error {
		if uuid.UUID(o.CustomerID.Bytes) != customerID {
			return common.NewAppError("FORBIDDEN", "offer is not addressed to you", http.StatusForbidden, nil)
		}
		return nil
	})
}

// Withdraw retracts a pending offer by its provider.
func (s *Service) Withdraw(ctx context.Context, providerID pgtype.UUID, offerID uuid.UUID) (dbgen.Offer, error) {
	return s.transition(ctx, offerID, StatusWithdrawn, func(o dbgen.Offer) error {
		if o.ProviderID != providerID {
			return common.NewAppError("FORBIDDEN", "not your offer", http.StatusForbidden, nil)
		}
		return nil
	})
}

func (s *Service) transition(ctx context.Context, offerID uuid.UUID, next string, authorize func(dbgen.Offer) error) (dbgen.Offer, error) {
	if s == nil || s.Q == nil {
		return dbgen.Offer{}, errors.New("offer service not configured")
	}
	id := pgtype.UUID{Bytes: offerID, Valid: true}
	current, err := s.Q.GetOfferByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Offer{}, common.NewAppError("NOT_FOUND", "offer not found", http.StatusNotFound, err)
		}
		return dbgen.Offer{}, fmt.Errorf("offer: load offer: %w", err)
	}
	if err := authorize(current); err != nil {
		return dbgen.Offer{}, err
	}
	updated, err := s.Q.UpdateOfferStatus(ctx, dbgen.UpdateOfferStatusParams{
		ID:         id,
		PrevStatus: StatusPending,
		NextStatus: next,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Offer{}, common.NewAppError("INVALID_STATE", "offer is no longer open", http.StatusConflict, nil)
		}
		return dbgen.Offer{}, fmt.Errorf("offer: update offer: %w", err)
	}
	return updated, nil
}

func (s *Service) sanitizeTitle(raw string) string {
	if s.titlePolicy == nil {
		s.titlePolicy = bluemonday.StrictPolicy()
	}
	return strings.TrimSpace(s.titlePolicy.Sanitize(raw))
}

func (s *Service) sanitizeDescription(raw string) string {
	if s.descPolicy == nil {
		s.descPolicy = bluemonday.UGCPolicy()
	}
	return s.descPolicy.Sanitize(raw)
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func uuidString(id pgtype.UUID) string {
	return uuid.UUID(id.Bytes).String()
}
