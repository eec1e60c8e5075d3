//go:build !integration

package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nyc-subway-trivia/internal/domain"
	"nyc-subway-trivia/internal/domain/model"
	"nyc-subway-trivia/internal/domain/ports/repository"
)

// -----------------------------
// Repositories
// -----------------------------

// MockPromoCodeRepo is an in-memory codes collection. Any *Func hook that is
// set replaces the default behavior for that method.
type MockPromoCodeRepo struct {
	mu    sync.Mutex
	Codes []*model.PromoCode
	Calls []string

	DeactivateAllFunc    func(ctx context.Context) (int64, error)
	InsertFunc           func(ctx context.Context, code *model.PromoCode) error
	FindActiveByTypeFunc func(ctx context.Context, typ model.CodeType) (*model.PromoCode, error)
	EnsureCollectionFunc func(ctx context.Context) error
}

var _ repository.PromoCodeRepository = (*MockPromoCodeRepo)(nil)

func NewMockPromoCodeRepo(seed ...*model.PromoCode) *MockPromoCodeRepo {
	m := &MockPromoCodeRepo{}
	for _, c := range seed {
		cp := *c
		if cp.ID == "" {
			cp.ID = primitive.NewObjectID().Hex()
		}
		m.Codes = append(m.Codes, &cp)
	}
	return m
}

func (m *MockPromoCodeRepo) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

func (m *MockPromoCodeRepo) DeactivateAll(ctx context.Context) (int64, error) {
	m.record("DeactivateAll")
	if m.DeactivateAllFunc != nil {
		return m.DeactivateAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.Codes {
		if c.IsActive {
			c.IsActive = false
			n++
		}
	}
	return n, nil
}

func (m *MockPromoCodeRepo) Insert(ctx context.Context, code *model.PromoCode) error {
	m.record("Insert:" + string(code.Type))
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	code.ID = primitive.NewObjectID().Hex()
	cp := *code
	m.Codes = append(m.Codes, &cp)
	return nil
}

func (m *MockPromoCodeRepo) FindActiveByType(ctx context.Context, typ model.CodeType) (*model.PromoCode, error) {
	m.record("FindActiveByType:" + string(typ))
	if m.FindActiveByTypeFunc != nil {
		return m.FindActiveByTypeFunc(ctx, typ)
	}
	for _, c := range m.active() {
		if c.Type == typ {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPromoCodeRepo) ListActive(ctx context.Context) ([]*model.PromoCode, error) {
	m.record("ListActive")
	return m.active(), nil
}

func (m *MockPromoCodeRepo) EnsureCollection(ctx context.Context) error {
	m.record("EnsureCollection")
	if m.EnsureCollectionFunc != nil {
		return m.EnsureCollectionFunc(ctx)
	}
	return nil
}

func (m *MockPromoCodeRepo) active() []*model.PromoCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PromoCode
	for _, c := range m.Codes {
		if c.IsActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// -----------------------------
// Utilities
// -----------------------------

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func seedCode(code string, typ model.CodeType, created time.Time) *model.PromoCode {
	return &model.PromoCode{
		Code:        code,
		Type:        typ,
		Description: "seeded " + code,
		ExpiryDate:  time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
		IsActive:    true,
		CreatedAt:   created,
	}
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
