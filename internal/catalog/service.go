package catalog

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// ErrNotFound reports a missing service offering.
var ErrNotFound = errors.New("catalog: service not found")

// listGenerationKey is the Redis counter the list cache keys are built on.
const listGenerationKey = "catalog:services:gen"

type queryProvider interface {
	CountActiveServices(ctx context.Context) (int64, error)
	ListActiveServices(ctx context.Context, arg dbgen.ListActiveServicesParams) ([]dbgen.Service, error)
	ListServicesByProvider(ctx context.Context, providerID pgtype.UUID) ([]dbgen.Service, error)
	GetServiceByID(ctx context.Context, id pgtype.UUID) (dbgen.Service, error)
	CreateService(ctx context.Context, arg dbgen.CreateServiceParams) (dbgen.Service, error)
	UpdateService(ctx context.Context, arg dbgen.UpdateServiceParams) (dbgen.Service, error)
}

// Service orchestrates offering queries, sanitisation and list caching.
type Service struct {
	queries      queryProvider
	cache        *Cache
	namePolicy   *bluemonday.Policy
	descPolicy   *bluemonday.Policy
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

// Summary is the public shape of a service offering.
type Summary struct {
	ID              string          `json:"id"`
	ProviderID      string          `json:"providerId"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	DurationMinutes int32           `json:"durationMinutes"`
	AtHomeAvailable bool            `json:"atHomeAvailable"`
	TravelFee       decimal.Decimal `json:"travelFee"`
	IsActive        bool            `json:"isActive"`
}

// Input carries the writable fields of an offering.
type Input struct {
	Name            string           `json:"name"`
	Description     *string          `json:"description"`
	BasePrice       decimal.Decimal  `json:"basePrice"`
	DurationMinutes int32            `json:"durationMinutes"`
	AtHomeAvailable bool             `json:"atHomeAvailable"`
	TravelFee       *decimal.Decimal `json:"travelFee"`
	IsActive        *bool            `json:"isActive"`
}

// ListResult contains list data and pagination metadata.
type ListResult struct {
	Items []Summary
	Total int64
	Page  int
	Limit int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		namePolicy:   bluemonday.StrictPolicy(),
		descPolicy:   bluemonday.UGCPolicy(),
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ListActive returns active offerings newest first, served from cache when a
// fresh generation is available.
func (s *Service) ListActive(ctx context.Context, page, limit int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	key := s.listCacheKey(ctx, page, limit)
	if s.cache != nil {
		var cached cachedList
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && ok {
			return ListResult{Items: cached.Items, Total: cached.Total, Page: page, Limit: limit}, nil
		}
	}
	total, err := s.queries.CountActiveServices(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("count services: %w", err)
	}
	rows, err := s.queries.ListActiveServices(ctx, dbgen.ListActiveServicesParams{
		Limit:  int32(limit),
		Offset: int32((page - 1) * limit),
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list services: %w", err)
	}
	items := make([]Summary, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSummary(row))
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, cachedList{Items: items, Total: total})
	}
	return ListResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// ByProvider returns a provider's offerings. Inactive rows are only included
// for the owner and admins.
func (s *Service) ByProvider(ctx context.Context, providerID pgtype.UUID, includeInactive bool) ([]Summary, error) {
	rows, err := s.queries.ListServicesByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("list provider services: %w", err)
	}
	items := make([]Summary, 0, len(rows))
	for _, row := range rows {
		if !row.IsActive && !includeInactive {
			continue
		}
		items = append(items, toSummary(row))
	}
	return items, nil
}

// ByID returns a single offering.
func (s *Service) ByID(ctx context.Context, id pgtype.UUID) (Summary, error) {
	row, err := s.queries.GetServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Summary{}, ErrNotFound
		}
		return Summary{}, fmt.Errorf("get service: %w", err)
	}
	return toSummary(row), nil
}

// Create inserts a new offering for the provider and invalidates the public
// list cache.
func (s *Service) Create(ctx context.Context, providerID pgtype.UUID, input Input) (Summary, error) {
	name, description, travelFee, err := s.sanitize(input)
	if err != nil {
		return Summary{}, err
	}
	row, err := s.queries.CreateService(ctx, dbgen.CreateServiceParams{
		ProviderID:      providerID,
		Name:            name,
		Description:     description,
		BasePrice:       common.NumericFromDecimal(input.BasePrice),
		DurationMinutes: input.DurationMinutes,
		AtHomeAvailable: input.AtHomeAvailable,
		TravelFee:       common.NumericFromDecimal(travelFee),
	})
	if err != nil {
		return Summary{}, fmt.Errorf("create service: %w", err)
	}
	s.cache.Invalidate(ctx, listGenerationKey)
	return toSummary(row), nil
}

// Update rewrites an offering in place and invalidates the public list
// cache. The current row decides fields the input leaves unset.
func (s *Service) Update(ctx context.Context, current dbgen.Service, input Input) (Summary, error) {
	name, description, travelFee, err := s.sanitize(input)
	if err != nil {
		return Summary{}, err
	}
	isActive := current.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	row, err := s.queries.UpdateService(ctx, dbgen.UpdateServiceParams{
		ID:              current.ID,
		Name:            name,
		Description:     description,
		BasePrice:       common.NumericFromDecimal(input.BasePrice),
		DurationMinutes: input.DurationMinutes,
		AtHomeAvailable: input.AtHomeAvailable,
		TravelFee:       common.NumericFromDecimal(travelFee),
		IsActive:        isActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Summary{}, ErrNotFound
		}
		return Summary{}, fmt.Errorf("update service: %w", err)
	}
	s.cache.Invalidate(ctx, listGenerationKey)
	return toSummary(row), nil
}

// sanitize strips markup from user-supplied fields and validates the
// offering shape. Travel fees only exist for at-home offerings.
func (s *Service) sanitize(input Input) (string, pgtype.Text, decimal.Decimal, error) {
	name := strings.TrimSpace(html.UnescapeString(s.namePolicy.Sanitize(input.Name)))
	if name == "" {
		return "", pgtype.Text{}, decimal.Zero, errors.New("name is required")
	}
	description := pgtype.Text{}
	if input.Description != nil {
		clean := strings.TrimSpace(s.descPolicy.Sanitize(*input.Description))
		if clean != "" {
			description = pgtype.Text{String: clean, Valid: true}
		}
	}
	if input.BasePrice.IsNegative() {
		return "", pgtype.Text{}, decimal.Zero, errors.New("basePrice must not be negative")
	}
	if input.DurationMinutes <= 0 || input.DurationMinutes > 24*60 {
		return "", pgtype.Text{}, decimal.Zero, errors.New("durationMinutes must be between 1 and 1440")
	}
	travelFee := decimal.Zero
	if input.AtHomeAvailable && input.TravelFee != nil {
		if input.TravelFee.IsNegative() {
			return "", pgtype.Text{}, decimal.Zero, errors.New("travelFee must not be negative")
		}
		travelFee = *input.TravelFee
	}
	return name, description, travelFee, nil
}

func (s *Service) listCacheKey(ctx context.Context, page, limit int) string {
	gen := s.cache.Generation(ctx, listGenerationKey)
	return fmt.Sprintf("catalog:services:%d:page:%d:limit:%d", gen, page, limit)
}

type cachedList struct {
	Items []Summary `json:"items"`
	Total int64     `json:"total"`
}

func toSummary(row dbgen.Service) Summary {
	summary := Summary{
		ID:              uuidString(row.ID),
		ProviderID:      uuidString(row.ProviderID),
		Name:            row.Name,
		BasePrice:       common.DecimalFromNumeric(row.BasePrice),
		DurationMinutes: row.DurationMinutes,
		AtHomeAvailable: row.AtHomeAvailable,
		TravelFee:       common.DecimalFromNumeric(row.TravelFee),
		IsActive:        row.IsActive,
	}
	if row.Description.Valid {
		description := row.Description.String
		summary.Description = &description
	}
	return summary
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	u, err := uuid.FromBytes(id.Bytes[:])
	if err != nil {
		return ""
	}
	return u.String()
}
