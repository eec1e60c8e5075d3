package usecase

import (
	"context"
	"fmt"
	"time"

	"nyc-subway-trivia/internal/domain"
	"nyc-subway-trivia/internal/domain/model"
	"nyc-subway-trivia/internal/domain/ports/repository"
	"nyc-subway-trivia/internal/infra/logging"
	"nyc-subway-trivia/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ProvisionUseCase = (*provisionUC)(nil)

// CodeTemplate describes one code issued by every provisioning run.
type CodeTemplate struct {
	Code        string
	Type        model.CodeType
	Description string
}

// ShopCodes are the codes issued by a run, in insertion order.
var ShopCodes = []CodeTemplate{
	{
		Code:        "HHNYC2024",
		Type:        model.CodeTypeRegular,
		Description: "Thanks for playing! Here's your code to use in our shop.",
	},
	{
		Code:        "HHNYC2024PRO",
		Type:        model.CodeTypeTopScore,
		Description: "Congratulations on your amazing score! Here's your special shop code.",
	},
}

// ShopCodeExpiry is the fixed cutoff stamped on every issued code.
var ShopCodeExpiry = time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)

// ProvisionResult summarizes a successful run.
type ProvisionResult struct {
	RunID       string
	Deactivated int64
	Inserted    []*model.PromoCode
	Duration    time.Duration
}

// ProvisionUseCase resets the active promo codes and issues a fresh set.
type ProvisionUseCase interface {
	Provision(ctx context.Context) (*ProvisionResult, error)
}

type ProvisionOption func(*provisionUC)

// WithClock overrides the source of createdAt timestamps.
func WithClock(now func() time.Time) ProvisionOption {
	return func(u *provisionUC) { u.now = now }
}

// WithEnsureSchema creates the validated collection before the first write.
func WithEnsureSchema(enabled bool) ProvisionOption {
	return func(u *provisionUC) { u.ensureSchema = enabled }
}

type provisionUC struct {
	codes        repository.PromoCodeRepository
	templates    []CodeTemplate
	expiry       time.Time
	now          func() time.Time
	ensureSchema bool
	log          *zerolog.Logger
}

func NewProvisionUseCase(codes repository.PromoCodeRepository, logger *zerolog.Logger, opts ...ProvisionOption) *provisionUC {
	u := &provisionUC{
		codes:     codes,
		templates: ShopCodes,
		expiry:    ShopCodeExpiry,
		now:       time.Now,
		log:       logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Provision deactivates every stored code, then inserts one code per
// template. Each step is its own store call; a failure part way leaves the
// earlier steps applied.
func (u *provisionUC) Provision(ctx context.Context) (_ *ProvisionResult, err error) {
	defer logging.TraceDuration(u.log, "ProvisionUC.Provision")()

	runID := logging.RunID(ctx)
	if runID == "" {
		runID = logging.NewRunID()
		ctx = logging.WithRunID(ctx, runID)
	}
	log := logging.With(ctx, u.log)

	start := time.Now()
	defer func() { metrics.ObserveProvision(err == nil, time.Since(start)) }()

	if u.ensureSchema {
		if err := u.codes.EnsureCollection(ctx); err != nil {
			return nil, fmt.Errorf("%w: ensure collection: %w", domain.ErrProvisioningFailed, err)
		}
	}

	deactivated, err := u.codes.DeactivateAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: deactivate existing codes: %w", domain.ErrProvisioningFailed, err)
	}
	metrics.AddDeactivated(deactivated)
	log.Info().Int64("deactivated", deactivated).Msg("existing codes deactivated")

	createdAt := u.now()
	res := &ProvisionResult{RunID: runID, Deactivated: deactivated}
	for _, tpl := range u.templates {
		code, err := model.NewPromoCode(tpl.Code, tpl.Type, tpl.Description, u.expiry, createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: build %s code: %w", domain.ErrProvisioningFailed, tpl.Type, err)
		}
		if err := u.codes.Insert(ctx, code); err != nil {
			return nil, fmt.Errorf("%w: insert %s code: %w", domain.ErrProvisioningFailed, tpl.Type, err)
		}
		metrics.IncInserted(string(code.Type))
		log.Info().Str("code", code.Code).Str("type", string(code.Type)).Str("id", code.ID).Msg("code inserted")
		res.Inserted = append(res.Inserted, code)
	}

	res.Duration = time.Since(start)
	return res, nil
}
