package model

// PrizeLevel names a MetroCard reward tier.
type PrizeLevel string

const (
	PrizeBronze   PrizeLevel = "bronze"
	PrizeSilver   PrizeLevel = "silver"
	PrizeGold     PrizeLevel = "gold"
	PrizePlatinum PrizeLevel = "platinum"
)

// Prize is a reward unlocked once a score reaches MinScore.
type Prize struct {
	Name        string
	Description string
	Code        string
	Level       PrizeLevel
	MinScore    int
}

// prizes is ordered by ascending MinScore.
var prizes = []Prize{
	{
		Name:        "Bronze MetroCard",
		Description: "You're getting the hang of it! Keep riding to unlock more rewards.",
		Code:        "BRONZE2024",
		Level:       PrizeBronze,
		MinScore:    500,
	},
	{
		Name:        "Silver MetroCard",
		Description: "You're becoming a real New Yorker! Great job!",
		Code:        "SILVER2024",
		Level:       PrizeSilver,
		MinScore:    1000,
	},
	{
		Name:        "Gold MetroCard",
		Description: "Amazing! You're a true subway expert!",
		Code:        "GOLD2024",
		Level:       PrizeGold,
		MinScore:    1500,
	},
	{
		Name:        "Platinum MetroCard",
		Description: "Perfect score! You're a legendary subway master!",
		Code:        "PLATINUM2024",
		Level:       PrizePlatinum,
		MinScore:    2000,
	},
}

// Prizes returns a copy of the reward table.
func Prizes() []Prize {
	out := make([]Prize, len(prizes))
	copy(out, prizes)
	return out
}

// PrizeForScore returns the highest tier reached by score.
func PrizeForScore(score int) (*Prize, bool) {
	for i := len(prizes) - 1; i >= 0; i-- {
		if score >= prizes[i].MinScore {
			p := prizes[i]
			return &p, true
		}
	}
	return nil, false
}
