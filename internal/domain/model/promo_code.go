package model

import (
	"fmt"
	"strings"
	"time"

	"nyc-subway-trivia/internal/domain"
)

// CodeType selects the audience a promo code is issued to.
type CodeType string

const (
	CodeTypeRegular  CodeType = "regular"
	CodeTypeTopScore CodeType = "top_score"
)

// TopScoreThreshold is the minimum game score that earns the top_score code.
const TopScoreThreshold = 2000

// CodeTypes lists every known type in a stable order.
var CodeTypes = []CodeType{CodeTypeRegular, CodeTypeTopScore}

func (t CodeType) Valid() bool {
	return t == CodeTypeRegular || t == CodeTypeTopScore
}

func (t CodeType) String() string { return string(t) }

// ParseCodeType accepts the wire form of a code type.
func ParseCodeType(s string) (CodeType, error) {
	t := CodeType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown code type %q", domain.ErrInvalidArgument, s)
	}
	return t, nil
}

// CodeTypeForScore picks the code audience for a finished game.
func CodeTypeForScore(score int) CodeType {
	if score >= TopScoreThreshold {
		return CodeTypeTopScore
	}
	return CodeTypeRegular
}

// PromoCode is a redeemable shop code shown to players after a game.
type PromoCode struct {
	ID          string
	Code        string
	Type        CodeType
	Description string
	ExpiryDate  time.Time
	IsActive    bool
	CreatedAt   time.Time
}

// NewPromoCode validates and constructs an active code.
func NewPromoCode(code string, typ CodeType, description string, expiry, createdAt time.Time) (*PromoCode, error) {
	if strings.TrimSpace(code) == "" || strings.TrimSpace(description) == "" || !typ.Valid() || expiry.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &PromoCode{
		Code:        code,
		Type:        typ,
		Description: description,
		ExpiryDate:  expiry,
		IsActive:    true,
		CreatedAt:   createdAt,
	}, nil
}

// IsExpired reports whether the code's cutoff has passed at now.
func (c *PromoCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiryDate)
}

// FallbackCode is handed out when no code can be read from the store.
func FallbackCode() *PromoCode {
	return &PromoCode{
		Code:        "HHNYC2024",
		Type:        CodeTypeRegular,
		Description: "Thanks for playing! Here's your code to use in our shop.",
		ExpiryDate:  time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		IsActive:    true,
	}
}
