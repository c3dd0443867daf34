package analytics

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// Querier defines the database access required for analytics operations.
type Querier interface {
	GetProviderRevenueStats(ctx context.Context, arg dbgen.GetProviderRevenueStatsParams) (dbgen.GetProviderRevenueStatsRow, error)
	ListProviderRevenueByDay(ctx context.Context, arg dbgen.ListProviderRevenueByDayParams) ([]dbgen.ListProviderRevenueByDayRow, error)
	ListPromotionUsage(ctx context.Context) ([]dbgen.ListPromotionUsageRow, error)
	ListBookingsForExport(ctx context.Context, arg dbgen.ListBookingsForExportParams) ([]dbgen.Booking, error)
	ListProviders(ctx context.Context, arg dbgen.ListProvidersParams) ([]dbgen.Provider, error)
}

// ProviderStats is the completed-bookings rollup for one provider window.
type ProviderStats struct {
	ProviderID     string          `json:"providerId"`
	Since          time.Time       `json:"since"`
	Until          time.Time       `json:"until"`
	BookingCount   int64           `json:"bookingCount"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	CommissionBase decimal.Decimal `json:"commissionBase"`
	ServiceFees    decimal.Decimal `json:"serviceFees"`
	Tips           decimal.Decimal `json:"tips"`
}

// DailyRevenue is one day of the provider revenue series.
type DailyRevenue struct {
	Day            time.Time       `json:"day"`
	BookingCount   int64           `json:"bookingCount"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	CommissionBase decimal.Decimal `json:"commissionBase"`
}

// PromotionUsage summarises redemption volume per promotion.
type PromotionUsage struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	UsageCount      int32           `json:"usageCount"`
	UsageLimit      *int32          `json:"usageLimit"`
	RedemptionCount int64           `json:"redemptionCount"`
	TotalDiscount   decimal.Decimal `json:"totalDiscount"`
}

// Service provides cached access to booking revenue rollups.
type Service struct {
	Q            Querier
	R            *redis.Client
	TTL          time.Duration
	DefaultRange int
	Log          zerolog.Logger
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

// Window clamps the requested range, falling back to the default range (in
// days) ending now.
func (s *Service) Window(since, until *time.Time) (time.Time, time.Time) {
	end := s.now()
	if until != nil {
		end = *until
	}
	days := s.DefaultRange
	if days <= 0 {
		days = 30
	}
	start := end.AddDate(0, 0, -days)
	if since != nil {
		start = *since
	}
	if start.After(end) {
		start, end = end, start
	}
	return start, end
}

// Stats returns the completed-bookings rollup for one provider.
func (s *Service) Stats(ctx context.Context, providerID uuid.UUID, since, until time.Time) (ProviderStats, error) {
	if s == nil || s.Q == nil {
		return ProviderStats{}, fmt.Errorf("analytics service not configured")
	}
	key := cacheKey("an", "stats", providerID, since.Format("2006-01-02"), until.Format("2006-01-02"))
	if s.R != nil && s.TTL > 0 {
		if data, err := s.R.Get(ctx, key).Bytes(); err == nil {
			var cached ProviderStats
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}
	row, err := s.Q.GetProviderRevenueStats(ctx, dbgen.GetProviderRevenueStatsParams{
		ProviderID: pgtype.UUID{Bytes: providerID, Valid: true},
		Since:      pgtype.Timestamptz{Time: since, Valid: true},
		Until:      pgtype.Timestamptz{Time: until, Valid: true},
	})
	if err != nil {
		return ProviderStats{}, err
	}
	stats := ProviderStats{
		ProviderID:     providerID.String(),
		Since:          since,
		Until:          until,
		BookingCount:   row.BookingCount,
		TotalRevenue:   common.DecimalFromNumeric(row.TotalRevenue),
		CommissionBase: common.DecimalFromNumeric(row.CommissionBase),
		ServiceFees:    common.DecimalFromNumeric(row.ServiceFees),
		Tips:           common.DecimalFromNumeric(row.Tips),
	}
	s.store(ctx, key, stats)
	return stats, nil
}

// RevenueByDay returns the provider's per-day revenue series.
func (s *Service) RevenueByDay(ctx context.Context, providerID uuid.UUID, since, until time.Time) ([]DailyRevenue, error) {
	if s == nil || s.Q == nil {
		return nil, fmt.Errorf("analytics service not configured")
	}
	key := cacheKey("an", "daily", providerID, since.Format("2006-01-02"), until.Format("2006-01-02"))
	if s.R != nil && s.TTL > 0 {
		if data, err := s.R.Get(ctx, key).Bytes(); err == nil {
			var cached []DailyRevenue
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}
	rows, err := s.Q.ListProviderRevenueByDay(ctx, dbgen.ListProviderRevenueByDayParams{
		ProviderID: pgtype.UUID{Bytes: providerID, Valid: true},
		Since:      pgtype.Timestamptz{Time: since, Valid: true},
		Until:      pgtype.Timestamptz{Time: until, Valid: true},
	})
	if err != nil {
		return nil, err
	}
	series := make([]DailyRevenue, 0, len(rows))
	for _, row := range rows {
		series = append(series, DailyRevenue{
			Day:            row.Day.Time,
			BookingCount:   row.BookingCount,
			TotalRevenue:   common.DecimalFromNumeric(row.TotalRevenue),
			CommissionBase: common.DecimalFromNumeric(row.CommissionBase),
		})
	}
	s.store(ctx, key, series)
	return series, nil
}

// PromotionUsage returns the platform-wide redemption rollup per promotion.
func (s *Service) PromotionUsage(ctx context.Context) ([]PromotionUsage, error) {
	if s == nil || s.Q == nil {
		return nil, fmt.Errorf("analytics service not configured")
	}
	key := cacheKey("an", "promos")
	if s.R != nil && s.TTL > 0 {
		if data, err := s.R.Get(ctx, key).Bytes(); err == nil {
			var cached []PromotionUsage
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}
	rows, err := s.Q.ListPromotionUsage(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PromotionUsage, 0, len(rows))
	for _, row := range rows {
		usage := PromotionUsage{
			ID:              uuid.UUID(row.ID.Bytes).String(),
			Code:            row.Code,
			UsageCount:      row.UsageCount,
			RedemptionCount: row.RedemptionCount,
			TotalDiscount:   common.DecimalFromNumeric(row.TotalDiscount),
		}
		if row.UsageLimit.Valid {
			limit := row.UsageLimit.Int32
			usage.UsageLimit = &limit
		}
		out = append(out, usage)
	}
	s.store(ctx, key, out)
	return out, nil
}

var exportHeader = []string{
	"booking_id", "status", "location_type", "scheduled_at", "currency",
	"subtotal", "travel_fee", "discount", "tax", "service_fee", "tip",
	"total", "commission_base",
}

// ExportCSV streams the provider's bookings for the window as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, providerID uuid.UUID, since, until time.Time) error {
	if s == nil || s.Q == nil {
		return fmt.Errorf("analytics service not configured")
	}
	rows, err := s.Q.ListBookingsForExport(ctx, dbgen.ListBookingsForExportParams{
		ProviderID: pgtype.UUID{Bytes: providerID, Valid: true},
		Since:      pgtype.Timestamptz{Time: since, Valid: true},
		Until:      pgtype.Timestamptz{Time: until, Valid: true},
	})
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, b := range rows {
		record := []string{
			uuid.UUID(b.ID.Bytes).String(),
			b.Status,
			b.LocationType,
			b.ScheduledAt.Time.Format(time.RFC3339),
			b.Currency,
			common.DecimalFromNumeric(b.Subtotal).StringFixed(2),
			common.DecimalFromNumeric(b.TravelFee).StringFixed(2),
			common.DecimalFromNumeric(b.DiscountAmount).StringFixed(2),
			common.DecimalFromNumeric(b.TaxAmount).StringFixed(2),
			common.DecimalFromNumeric(b.ServiceFeeAmount).StringFixed(2),
			common.DecimalFromNumeric(b.TipAmount).StringFixed(2),
			common.DecimalFromNumeric(b.TotalAmount).StringFixed(2),
			common.DecimalFromNumeric(b.CommissionBase).StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Refresh re-warms the rollup caches for recently active providers. The
// worker runs it on a schedule so dashboards stay hot between requests.
func (s *Service) Refresh(ctx context.Context) error {
	if s == nil || s.Q == nil {
		return fmt.Errorf("analytics service not configured")
	}
	since, until := s.Window(nil, nil)

	if _, err := s.PromotionUsage(ctx); err != nil {
		return fmt.Errorf("analytics: refresh promotion usage: %w", err)
	}

	const batch = 100
	var offset int32
	for {
		providers, err := s.Q.ListProviders(ctx, dbgen.ListProvidersParams{Limit: batch, Offset: offset})
		if err != nil {
			return fmt.Errorf("analytics: list providers: %w", err)
		}
		for _, p := range providers {
			id := uuid.UUID(p.ID.Bytes)
			if _, err := s.Stats(ctx, id, since, until); err != nil {
				s.Log.Warn().Err(err).Str("provider_id", id.String()).Msg("refresh provider stats")
			}
			if _, err := s.RevenueByDay(ctx, id, since, until); err != nil {
				s.Log.Warn().Err(err).Str("provider_id", id.String()).Msg("refresh provider revenue series")
			}
		}
		if len(providers) < batch {
			return nil
		}
		offset += batch
	}
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}
