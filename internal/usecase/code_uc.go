package usecase

import (
	"context"
	"fmt"

	"nyc-subway-trivia/internal/domain"
	"nyc-subway-trivia/internal/domain/model"
	"nyc-subway-trivia/internal/domain/ports/repository"
	"nyc-subway-trivia/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ CodeUseCase = (*codeUC)(nil)

// CodeUseCase exposes the read side used by the game after a round.
type CodeUseCase interface {
	ActiveCode(ctx context.Context, typ model.CodeType) (*model.PromoCode, error)
	ForScore(ctx context.Context, score int) (*model.PromoCode, error)
	ListActive(ctx context.Context) ([]*model.PromoCode, error)
	Prize(score int) (*model.Prize, error)
	Prizes() []model.Prize
	ShopCode(ctx context.Context, score int) *model.PromoCode
}

type codeUC struct {
	codes repository.PromoCodeRepository
	log   *zerolog.Logger
}

func NewCodeUseCase(codes repository.PromoCodeRepository, logger *zerolog.Logger) *codeUC {
	return &codeUC{codes: codes, log: logger}
}

func (u *codeUC) ActiveCode(ctx context.Context, typ model.CodeType) (*model.PromoCode, error) {
	defer logging.TraceDuration(u.log, "CodeUC.ActiveCode")()
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown code type %q", domain.ErrInvalidArgument, typ)
	}
	return u.codes.FindActiveByType(ctx, typ)
}

func (u *codeUC) ForScore(ctx context.Context, score int) (*model.PromoCode, error) {
	if score < 0 {
		return nil, fmt.Errorf("%w: negative score %d", domain.ErrInvalidArgument, score)
	}
	return u.ActiveCode(ctx, model.CodeTypeForScore(score))
}

func (u *codeUC) ListActive(ctx context.Context) ([]*model.PromoCode, error) {
	defer logging.TraceDuration(u.log, "CodeUC.ListActive")()
	return u.codes.ListActive(ctx)
}

func (u *codeUC) Prize(score int) (*model.Prize, error) {
	if score < 0 {
		return nil, fmt.Errorf("%w: negative score %d", domain.ErrInvalidArgument, score)
	}
	p, ok := model.PrizeForScore(score)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (u *codeUC) Prizes() []model.Prize {
	return model.Prizes()
}

// ShopCode never fails: when the active code for the score cannot be read,
// for any reason, the built-in regular code is handed out instead.
func (u *codeUC) ShopCode(ctx context.Context, score int) *model.PromoCode {
	if score < 0 {
		score = 0
	}
	code, err := u.ActiveCode(ctx, model.CodeTypeForScore(score))
	if err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Int("score", score).Msg("serving fallback shop code")
		return model.FallbackCode()
	}
	return code
}
