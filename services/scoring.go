package services

import (
	"math"
	"sort"

	"matchup-game-system/models"
)

// ScoreTier orders the qualitative ratings from worst to best.
type ScoreTier int

const (
	TierPractice ScoreTier = iota
	TierFair
	TierGood
	TierGreat
	TierExcellent
	TierOutstanding
)

// Rating is the qualitative label shown next to a final score.
type Rating struct {
	Label string    `json:"label"`
	Tier  ScoreTier `json:"tier"`
}

// CalculateScore computes the final score of a terminated session:
// 50 points per matched pair, 200 for completing the board, up to 100 for
// remaining time, and up to 100 for revealing few tiles.
//
// The efficiency denominator is maxPossibleTiles*2, i.e. the tile count is
// double-counted on purpose so the bonus decays slower. Historical scores
// were produced with this formula; keep it bit-for-bit.
func CalculateScore(matchedPairs, tilesRevealed, timeRemaining, totalServices, sessionSeconds int, completed bool) int {
	score := matchedPairs * 50

	if completed {
		score += 200
	}

	score += int(math.Floor(float64(timeRemaining) / float64(sessionSeconds) * 100))

	maxPossibleTiles := totalServices * 2
	efficiency := 1 - float64(tilesRevealed)/float64(maxPossibleTiles*2)
	if bonus := int(math.Floor(efficiency * 100)); bonus > 0 {
		score += bonus
	}

	if score < 0 {
		score = 0
	}
	return score
}

// ScoreRating maps a score onto its rating tier. Total over all integers;
// anything below 200 (including negatives) lands on the lowest tier.
func ScoreRating(score int) Rating {
	switch {
	case score >= 400:
		return Rating{"Outstanding!", TierOutstanding}
	case score >= 350:
		return Rating{"Excellent!", TierExcellent}
	case score >= 300:
		return Rating{"Great!", TierGreat}
	case score >= 250:
		return Rating{"Good!", TierGood}
	case score >= 200:
		return Rating{"Fair", TierFair}
	default:
		return Rating{"Keep Practicing!", TierPractice}
	}
}

// SortLeaderboard orders scores in place: score desc, then completed games
// above incomplete ones, then more time remaining, then more recent. The sort
// is stable so records that tie on all four keys keep their relative order.
func SortLeaderboard(scores []models.GameScore) []models.GameScore {
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.CompletedGame != b.CompletedGame {
			return a.CompletedGame
		}
		if a.TimeRemaining != b.TimeRemaining {
			return a.TimeRemaining > b.TimeRemaining
		}
		return a.RecordedAt.After(b.RecordedAt)
	})
	return scores
}
