package repository

import (
	"context"

	"nyc-subway-trivia/internal/domain/model"
)

// PromoCodeRepository is the port for the promo code collection.
// Each method is a single store call; callers get no cross-call atomicity.
type PromoCodeRepository interface {
	// DeactivateAll sets isActive=false on every stored code and returns
	// the number of documents modified.
	DeactivateAll(ctx context.Context) (int64, error)
	// Insert stores a new code and fills in its ID.
	Insert(ctx context.Context, code *model.PromoCode) error
	// FindActiveByType returns the newest active code of the given type,
	// or domain.ErrNotFound.
	FindActiveByType(ctx context.Context, typ model.CodeType) (*model.PromoCode, error)
	// ListActive returns all active codes, newest first.
	ListActive(ctx context.Context) ([]*model.PromoCode, error)
	// EnsureCollection creates the collection with its schema validator if
	// it does not exist yet.
	EnsureCollection(ctx context.Context) error
}
