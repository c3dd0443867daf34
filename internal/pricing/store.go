package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// Querier captures the database reads the pricing engine depends on.
type Querier interface {
	GetProviderProfile(ctx context.Context, id pgtype.UUID) (dbgen.GetProviderProfileRow, error)
	GetPromotionByCode(ctx context.Context, code string) (dbgen.Promotion, error)
	GetFeeConfigByID(ctx context.Context, id pgtype.UUID) (dbgen.FeeConfig, error)
	GetPlatformSettings(ctx context.Context) (dbgen.PlatformSetting, error)
}

// ErrProviderNotFound marks pricing attempts against unknown or inactive providers.
var ErrProviderNotFound = errors.New("provider not found")

// Store adapts the generated queries to the engine's lookup interfaces.
type Store struct {
	Q Querier
}

func (s *Store) ProviderProfile(ctx context.Context, providerID uuid.UUID) (ProviderProfile, error) {
	row, err := s.Q.GetProviderProfile(ctx, pgtype.UUID{Bytes: providerID, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProviderProfile{}, ErrProviderNotFound
		}
		return ProviderProfile{}, fmt.Errorf("get provider profile: %w", err)
	}
	return ProviderProfile{
		TaxRatePercent: common.DecimalPtrFromNumeric(row.TaxRatePercent),
		TipsEnabled:    row.TipsEnabled,
		FeeConfigID:    uuidPtr(row.FeeConfigID),
	}, nil
}

func (s *Store) PromotionByCode(ctx context.Context, code string) (Promotion, error) {
	row, err := s.Q.GetPromotionByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Promotion{}, ErrPromotionNotFound
		}
		return Promotion{}, fmt.Errorf("get promotion by code: %w", err)
	}
	return PromotionFromModel(row), nil
}

func (s *Store) FeeConfigByID(ctx context.Context, id uuid.UUID) (FeeConfig, error) {
	row, err := s.Q.GetFeeConfigByID(ctx, pgtype.UUID{Bytes: id, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FeeConfig{}, ErrFeeConfigNotFound
		}
		return FeeConfig{}, fmt.Errorf("get fee config: %w", err)
	}
	return FeeConfigFromModel(row), nil
}

// PlatformDefaults treats a missing settings row as an empty configuration
// so a fresh install prices with zero tax and zero fee instead of failing.
func (s *Store) PlatformDefaults(ctx context.Context) (PlatformDefaults, error) {
	row, err := s.Q.GetPlatformSettings(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PlatformDefaults{}, nil
		}
		return PlatformDefaults{}, fmt.Errorf("get platform settings: %w", err)
	}
	return PlatformDefaults{
		TaxRatePercent: common.DecimalPtrFromNumeric(row.DefaultTaxRatePercent),
		FeeType:        textPtr(row.DefaultFeeType),
		FeePercentage:  common.DecimalPtrFromNumeric(row.DefaultFeePercentage),
		FeeFixedAmount: common.DecimalPtrFromNumeric(row.DefaultFeeFixedAmount),
	}, nil
}

// PromotionFromModel converts a stored promotion row into its evaluation snapshot.
func PromotionFromModel(row dbgen.Promotion) Promotion {
	return Promotion{
		ID:                uuid.UUID(row.ID.Bytes),
		Code:              row.Code,
		Type:              row.PromoType,
		Value:             common.DecimalFromNumeric(row.Value),
		MinPurchaseAmount: common.DecimalPtrFromNumeric(row.MinPurchaseAmount),
		MaxDiscountAmount: common.DecimalPtrFromNumeric(row.MaxDiscountAmount),
		ValidFrom:         timePtr(row.ValidFrom),
		ValidUntil:        timePtr(row.ValidUntil),
		UsageLimit:        int32Ptr(row.UsageLimit),
		UsageCount:        row.UsageCount,
		IsActive:          row.IsActive,
		LocationID:        uuidPtr(row.LocationID),
	}
}

// FeeConfigFromModel converts a stored fee config row into its evaluation snapshot.
func FeeConfigFromModel(row dbgen.FeeConfig) FeeConfig {
	return FeeConfig{
		ID:               uuid.UUID(row.ID.Bytes),
		FeeType:          row.FeeType,
		FeePercentage:    common.DecimalPtrFromNumeric(row.FeePercentage),
		FeeFixedAmount:   common.DecimalPtrFromNumeric(row.FeeFixedAmount),
		MinBookingAmount: common.DecimalPtrFromNumeric(row.MinBookingAmount),
		MaxFeeAmount:     common.DecimalPtrFromNumeric(row.MaxFeeAmount),
		IsActive:         row.IsActive,
	}
}

func uuidPtr(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}

func textPtr(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func int32Ptr(v pgtype.Int4) *int32 {
	if !v.Valid {
		return nil
	}
	n := v.Int32
	return &n
}

func timePtr(v pgtype.Timestamptz) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
