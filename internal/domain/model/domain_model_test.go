//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"nyc-subway-trivia/internal/domain"
)

// --- PromoCode Model Tests ---

func TestNewPromoCode(t *testing.T) {
	expiry := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)

	t.Run("should create an active code", func(t *testing.T) {
		created := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
		c, err := NewPromoCode("HHNYC2024", CodeTypeRegular, "thanks", expiry, created)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !c.IsActive {
			t.Error("expected new code to be active")
		}
		if !c.CreatedAt.Equal(created) {
			t.Errorf("expected createdAt %v, got %v", created, c.CreatedAt)
		}
		if c.ID != "" {
			t.Errorf("expected empty ID before insert, got %q", c.ID)
		}
	})

	t.Run("should default createdAt to now", func(t *testing.T) {
		start := time.Now()
		c, err := NewPromoCode("HHNYC2024PRO", CodeTypeTopScore, "congrats", expiry, time.Time{})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if c.CreatedAt.Before(start) || time.Since(c.CreatedAt) > time.Second {
			t.Errorf("createdAt %v is not within the call window", c.CreatedAt)
		}
	})

	t.Run("should fail with invalid arguments", func(t *testing.T) {
		testCases := []struct {
			name   string
			code   string
			typ    CodeType
			desc   string
			expiry time.Time
		}{
			{"empty code", "", CodeTypeRegular, "d", expiry},
			{"blank description", "X", CodeTypeRegular, "  ", expiry},
			{"unknown type", "X", CodeType("vip"), "d", expiry},
			{"zero expiry", "X", CodeTypeRegular, "d", time.Time{}},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				c, err := NewPromoCode(tc.code, tc.typ, tc.desc, tc.expiry, time.Now())
				if !errors.Is(err, domain.ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				if c != nil {
					t.Error("expected nil code on error")
				}
			})
		}
	})
}

func TestPromoCodeIsExpired(t *testing.T) {
	c := &PromoCode{ExpiryDate: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)}
	if c.IsExpired(time.Date(2024, time.December, 30, 23, 59, 0, 0, time.UTC)) {
		t.Error("code should not be expired before the cutoff")
	}
	if !c.IsExpired(c.ExpiryDate) {
		t.Error("code should be expired at the cutoff")
	}
}

func TestParseCodeType(t *testing.T) {
	for in, want := range map[string]CodeType{
		"regular":    CodeTypeRegular,
		" TOP_SCORE": CodeTypeTopScore,
	} {
		got, err := ParseCodeType(in)
		if err != nil {
			t.Fatalf("ParseCodeType(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseCodeType(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseCodeType("gold"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown type, got %v", err)
	}
}

func TestCodeTypeForScore(t *testing.T) {
	cases := map[int]CodeType{
		0:                     CodeTypeRegular,
		TopScoreThreshold - 1: CodeTypeRegular,
		TopScoreThreshold:     CodeTypeTopScore,
		5000:                  CodeTypeTopScore,
	}
	for score, want := range cases {
		if got := CodeTypeForScore(score); got != want {
			t.Errorf("CodeTypeForScore(%d) = %q, want %q", score, got, want)
		}
	}
}

// --- Prize Tests ---

func TestPrizeForScore(t *testing.T) {
	if p, ok := PrizeForScore(499); ok || p != nil {
		t.Fatalf("expected no prize below 500, got %+v", p)
	}

	testCases := []struct {
		score int
		want  PrizeLevel
	}{
		{500, PrizeBronze},
		{999, PrizeBronze},
		{1000, PrizeSilver},
		{1740, PrizeGold},
		{2000, PrizePlatinum},
		{9000, PrizePlatinum},
	}
	for _, tc := range testCases {
		p, ok := PrizeForScore(tc.score)
		if !ok {
			t.Fatalf("expected a prize for score %d", tc.score)
		}
		if p.Level != tc.want {
			t.Errorf("score %d: expected %s, got %s", tc.score, tc.want, p.Level)
		}
	}
}

func TestPrizesReturnsCopy(t *testing.T) {
	ps := Prizes()
	ps[0].Code = "MUTATED"
	if p, _ := PrizeForScore(500); p.Code != "BRONZE2024" {
		t.Errorf("prize table was mutated through Prizes(): %q", p.Code)
	}
}
