package analytics_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-glam/internal/analytics"
	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

type stubQueries struct {
	statsCalls int
	dailyCalls int
	bookings   []dbgen.Booking
	providers  []dbgen.Provider
}

func (s *stubQueries) GetProviderRevenueStats(ctx context.Context, arg dbgen.GetProviderRevenueStatsParams) (dbgen.GetProviderRevenueStatsRow, error) {
	s.statsCalls++
	return dbgen.GetProviderRevenueStatsRow{
		BookingCount:   3,
		TotalRevenue:   common.NumericFromDecimal(decimal.RequireFromString("450.00")),
		CommissionBase: common.NumericFromDecimal(decimal.RequireFromString("400.00")),
		ServiceFees:    common.NumericFromDecimal(decimal.RequireFromString("20.00")),
		Tips:           common.NumericFromDecimal(decimal.RequireFromString("30.00")),
	}, nil
}

func (s *stubQueries) ListProviderRevenueByDay(ctx context.Context, arg dbgen.ListProviderRevenueByDayParams) ([]dbgen.ListProviderRevenueByDayRow, error) {
	s.dailyCalls++
	return []dbgen.ListProviderRevenueByDayRow{{
		Day:            pgtype.Timestamptz{Time: arg.Since.Time, Valid: true},
		BookingCount:   1,
		TotalRevenue:   common.NumericFromDecimal(decimal.RequireFromString("150.00")),
		CommissionBase: common.NumericFromDecimal(decimal.RequireFromString("130.00")),
	}}, nil
}

func (s *stubQueries) ListPromotionUsage(ctx context.Context) ([]dbgen.ListPromotionUsageRow, error) {
	limit := int32(100)
	return []dbgen.ListPromotionUsageRow{{
		ID:              pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Code:            "GLOW10",
		UsageCount:      7,
		UsageLimit:      pgtype.Int4{Int32: limit, Valid: true},
		RedemptionCount: 7,
		TotalDiscount:   common.NumericFromDecimal(decimal.RequireFromString("70.00")),
	}}, nil
}

func (s *stubQueries) ListBookingsForExport(ctx context.Context, arg dbgen.ListBookingsForExportParams) ([]dbgen.Booking, error) {
	return s.bookings, nil
}

func (s *stubQueries) ListProviders(ctx context.Context, arg dbgen.ListProvidersParams) ([]dbgen.Provider, error) {
	if arg.Offset > 0 {
		return nil, nil
	}
	return s.providers, nil
}

func newService(t *testing.T, q analytics.Querier) (*analytics.Service, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &analytics.Service{Q: q, R: rdb, TTL: time.Minute, DefaultRange: 30}, mr
}

func TestStatsCached(t *testing.T) {
	queries := &stubQueries{}
	svc, _ := newService(t, queries)
	providerID := uuid.New()
	since := time.Now().AddDate(0, 0, -7)
	until := time.Now()

	first, err := svc.Stats(context.Background(), providerID, since, until)
	require.NoError(t, err)
	require.Equal(t, int64(3), first.BookingCount)
	require.True(t, first.TotalRevenue.Equal(decimal.RequireFromString("450.00")))

	second, err := svc.Stats(context.Background(), providerID, since, until)
	require.NoError(t, err)
	require.True(t, second.TotalRevenue.Equal(first.TotalRevenue))
	require.Equal(t, 1, queries.statsCalls)
}

func TestRevenueByDayCached(t *testing.T) {
	queries := &stubQueries{}
	svc, _ := newService(t, queries)
	providerID := uuid.New()
	since := time.Now().AddDate(0, 0, -7)
	until := time.Now()

	series, err := svc.RevenueByDay(context.Background(), providerID, since, until)
	require.NoError(t, err)
	require.Len(t, series, 1)

	_, err = svc.RevenueByDay(context.Background(), providerID, since, until)
	require.NoError(t, err)
	require.Equal(t, 1, queries.dailyCalls)
}

func TestPromotionUsage(t *testing.T) {
	svc, _ := newService(t, &stubQueries{})
	rows, err := svc.PromotionUsage(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "GLOW10", rows[0].Code)
	require.NotNil(t, rows[0].UsageLimit)
	require.Equal(t, int32(100), *rows[0].UsageLimit)
}

func TestExportCSV(t *testing.T) {
	bookingID := uuid.New()
	queries := &stubQueries{bookings: []dbgen.Booking{{
		ID:           pgtype.UUID{Bytes: bookingID, Valid: true},
		Status:       "completed",
		LocationType: "at_home",
		ScheduledAt:  pgtype.Timestamptz{Time: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC), Valid: true},
		Currency:     "IDR",
		Subtotal:     common.NumericFromDecimal(decimal.RequireFromString("120.00")),
		TotalAmount:  common.NumericFromDecimal(decimal.RequireFromString("138.60")),
	}}}
	svc, _ := newService(t, queries)

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), &buf, uuid.New(), time.Now().AddDate(0, 0, -30), time.Now())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "booking_id")
	require.Contains(t, lines[1], bookingID.String())
	require.Contains(t, lines[1], "138.60")
}

func TestRefreshWarmsProviderCaches(t *testing.T) {
	queries := &stubQueries{providers: []dbgen.Provider{
		{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}},
		{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}},
	}}
	svc, _ := newService(t, queries)

	require.NoError(t, svc.Refresh(context.Background()))
	require.Equal(t, 2, queries.statsCalls)
	require.Equal(t, 2, queries.dailyCalls)
}

func TestWindowDefaultsToTrailingRange(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc := &analytics.Service{DefaultRange: 30, Now: func() time.Time { return now }}
	since, until := svc.Window(nil, nil)
	require.Equal(t, now, until)
	require.Equal(t, now.AddDate(0, 0, -30), since)
}
