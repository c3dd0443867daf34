package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-glam/internal/common"
	"github.com/noah-isme/backend-glam/internal/config"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// Development seeder: platform settings, a demo salon with offerings and a
// home-service stylist, plus a couple of promotions to exercise the preview
// and checkout paths. Safe to re-run; existing rows are reused.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	q := dbgen.New(pool)

	if _, err := q.UpsertPlatformSettings(ctx, dbgen.UpsertPlatformSettingsParams{
		DefaultTaxRatePercent: common.NumericFromDecimal(dec("11")),
		DefaultFeeType:        pgtype.Text{String: "percentage", Valid: true},
		DefaultFeePercentage:  common.NumericFromDecimal(dec("10")),
		Currency:              cfg.CurrencyCode,
	}); err != nil {
		log.Fatalf("seed platform settings: %v", err)
	}
	log.Println("platform settings in place")

	feeConfig := ensureFeeConfig(ctx, q, dbgen.CreateFeeConfigParams{
		Name:          "standard-salon",
		FeeType:       "percentage",
		FeePercentage: common.NumericFromDecimal(dec("8")),
		MaxFeeAmount:  common.NumericFromDecimal(dec("100000")),
		IsActive:      true,
	})

	salon := ensureProvider(ctx, q, "seed-subject-glow-studio", "Glow Studio", "Full service salon in Senopati.")
	stylist := ensureProvider(ctx, q, "seed-subject-ayu-mobile", "Ayu Mobile Styling", "Home visit hair and makeup.")

	if _, err := q.UpsertProviderSettings(ctx, dbgen.UpsertProviderSettingsParams{
		ProviderID:     salon.ID,
		TaxRatePercent: common.NumericFromDecimal(dec("11")),
		TipsEnabled:    true,
		FeeConfigID:    feeConfig.ID,
	}); err != nil {
		log.Fatalf("seed salon settings: %v", err)
	}
	if _, err := q.UpsertProviderSettings(ctx, dbgen.UpsertProviderSettingsParams{
		ProviderID:  stylist.ID,
		TipsEnabled: true,
	}); err != nil {
		log.Fatalf("seed stylist settings: %v", err)
	}

	location, err := q.CreateLocation(ctx, dbgen.CreateLocationParams{
		ProviderID: salon.ID,
		Name:       "Glow Studio Senopati",
		Address:    "Jl. Senopati No. 41",
		City:       "Jakarta Selatan",
	})
	if err != nil {
		log.Printf("salon location exists, skipping: %v", err)
	}

	seedService(ctx, q, salon.ID, "Signature Haircut", "Cut, wash and blow dry.", "250000", 60, false, "0")
	seedService(ctx, q, salon.ID, "Classic Manicure", "Shape, cuticle care and polish.", "180000", 45, false, "0")
	seedService(ctx, q, stylist.ID, "Bridal Makeup", "On-location bridal package.", "1500000", 120, true, "100000")
	seedService(ctx, q, stylist.ID, "Blow Dry At Home", "Wash and style at your place.", "300000", 45, true, "50000")

	now := time.Now()
	seedPromotion(ctx, q, dbgen.CreatePromotionParams{
		Code:              "GLOW10",
		Description:       pgtype.Text{String: "10 percent off any booking", Valid: true},
		PromoType:         "percentage",
		Value:             common.NumericFromDecimal(dec("10")),
		MinPurchaseAmount: common.NumericFromDecimal(dec("200000")),
		MaxDiscountAmount: common.NumericFromDecimal(dec("75000")),
		ValidFrom:         pgtype.Timestamptz{Time: now, Valid: true},
		ValidUntil:        pgtype.Timestamptz{Time: now.AddDate(0, 3, 0), Valid: true},
		UsageLimit:        pgtype.Int4{Int32: 500, Valid: true},
		IsActive:          true,
	})
	seedPromotion(ctx, q, dbgen.CreatePromotionParams{
		Code:       "SENOPATI50K",
		PromoType:  "fixed",
		Value:      common.NumericFromDecimal(dec("50000")),
		ValidFrom:  pgtype.Timestamptz{Time: now, Valid: true},
		ValidUntil: pgtype.Timestamptz{Time: now.AddDate(0, 1, 0), Valid: true},
		IsActive:   true,
		LocationID: location.ID,
	})

	log.Println("seeding completed")
}

func ensureFeeConfig(ctx context.Context, q *dbgen.Queries, arg dbgen.CreateFeeConfigParams) dbgen.FeeConfig {
	existing, err := q.ListFeeConfigs(ctx)
	if err != nil {
		log.Fatalf("list fee configs: %v", err)
	}
	for _, fc := range existing {
		if fc.Name == arg.Name {
			log.Printf("fee config %s already seeded", fc.Name)
			return fc
		}
	}
	created, err := q.CreateFeeConfig(ctx, arg)
	if err != nil {
		log.Fatalf("create fee config %s: %v", arg.Name, err)
	}
	log.Printf("fee config %s created", created.Name)
	return created
}

func ensureProvider(ctx context.Context, q *dbgen.Queries, subject, name, bio string) dbgen.Provider {
	existing, err := q.GetProviderBySubject(ctx, subject)
	if err == nil {
		log.Printf("provider %s already seeded", name)
		return existing
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		log.Fatalf("lookup provider %s: %v", name, err)
	}
	created, err := q.CreateProvider(ctx, dbgen.CreateProviderParams{
		Subject:     subject,
		DisplayName: name,
		Bio:         pgtype.Text{String: bio, Valid: true},
	})
	if err != nil {
		log.Fatalf("create provider %s: %v", name, err)
	}
	log.Printf("provider %s created", name)
	return created
}

func seedService(ctx context.Context, q *dbgen.Queries, providerID pgtype.UUID, name, description, price string, minutes int32, atHome bool, travelFee string) {
	if _, err := q.CreateService(ctx, dbgen.CreateServiceParams{
		ProviderID:      providerID,
		Name:            name,
		Description:     pgtype.Text{String: description, Valid: true},
		BasePrice:       common.NumericFromDecimal(dec(price)),
		DurationMinutes: minutes,
		AtHomeAvailable: atHome,
		TravelFee:       common.NumericFromDecimal(dec(travelFee)),
	}); err != nil {
		log.Printf("service %s exists, skipping: %v", name, err)
		return
	}
	log.Printf("service %s created", name)
}

func seedPromotion(ctx context.Context, q *dbgen.Queries, arg dbgen.CreatePromotionParams) {
	if _, err := q.CreatePromotion(ctx, arg); err != nil {
		log.Printf("promotion %s exists, skipping: %v", arg.Code, err)
		return
	}
	log.Printf("promotion %s created", arg.Code)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
