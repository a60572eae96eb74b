package services

import (
	"testing"
	"time"

	"matchup-game-system/models"
)

func TestCalculateScorePerfectGame(t *testing.T) {
	// 8 pairs in 16 reveals with 40s left on a 90s clock.
	score := CalculateScore(8, 16, 40, 8, 90, true)
	// base 400 + completion 200 + time floor(40/90*100)=44 + efficiency
	// floor((1-16/32)*100)=50
	if score != 694 {
		t.Errorf("perfect game score = %d, want 694", score)
	}
}

func TestCalculateScoreTimeoutWithNothing(t *testing.T) {
	score := CalculateScore(0, 0, 0, 8, 90, false)
	// Only the efficiency bonus fires: floor((1-0)*100) = 100.
	if score != 100 {
		t.Errorf("empty timeout score = %d, want 100", score)
	}
}

func TestCalculateScoreNeverNegative(t *testing.T) {
	for pairs := 0; pairs <= 8; pairs++ {
		for revealed := 0; revealed <= 64; revealed += 8 {
			for remaining := 0; remaining <= 90; remaining += 15 {
				if s := CalculateScore(pairs, revealed, remaining, 8, 90, pairs == 8); s < 0 {
					t.Fatalf("CalculateScore(%d,%d,%d) = %d, want >= 0", pairs, revealed, remaining, s)
				}
			}
		}
	}
}

func TestCalculateScoreMonotonicInMatches(t *testing.T) {
	prev := -1
	for pairs := 0; pairs <= 8; pairs++ {
		s := CalculateScore(pairs, 20, 30, 8, 90, false)
		if s < prev {
			t.Errorf("score decreased from %d to %d at %d pairs", prev, s, pairs)
		}
		prev = s
	}
}

func TestCalculateScoreMonotonicInTimeRemaining(t *testing.T) {
	prev := -1
	for remaining := 0; remaining <= 90; remaining++ {
		s := CalculateScore(4, 20, remaining, 8, 90, false)
		if s < prev {
			t.Errorf("score decreased from %d to %d at %ds remaining", prev, s, remaining)
		}
		prev = s
	}
}

func TestScoreRatingThresholds(t *testing.T) {
	cases := []struct {
		score int
		label string
		tier  ScoreTier
	}{
		{694, "Outstanding!", TierOutstanding},
		{400, "Outstanding!", TierOutstanding},
		{399, "Excellent!", TierExcellent},
		{350, "Excellent!", TierExcellent},
		{300, "Great!", TierGreat},
		{250, "Good!", TierGood},
		{200, "Fair", TierFair},
		{199, "Keep Practicing!", TierPractice},
		{0, "Keep Practicing!", TierPractice},
		{-50, "Keep Practicing!", TierPractice},
	}
	for _, tc := range cases {
		got := ScoreRating(tc.score)
		if got.Label != tc.label || got.Tier != tc.tier {
			t.Errorf("ScoreRating(%d) = %q/%d, want %q/%d", tc.score, got.Label, got.Tier, tc.label, tc.tier)
		}
	}
}

func record(score, timeRemaining int, completed bool, recordedAt time.Time) models.GameScore {
	return models.GameScore{
		Score:         score,
		TimeRemaining: timeRemaining,
		CompletedGame: completed,
		RecordedAt:    recordedAt,
	}
}

func TestSortLeaderboardComparator(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scores := []models.GameScore{
		record(300, 10, false, base),
		record(500, 0, false, base),
		record(500, 0, true, base),
		record(500, 20, true, base),
		record(500, 20, true, base.Add(time.Minute)),
	}
	SortLeaderboard(scores)

	// score desc, completed first, more time left first, more recent first
	want := []models.GameScore{
		record(500, 20, true, base.Add(time.Minute)),
		record(500, 20, true, base),
		record(500, 0, true, base),
		record(500, 0, false, base),
		record(300, 10, false, base),
	}
	for i := range want {
		if scores[i] != want[i] {
			t.Errorf("position %d: got %+v, want %+v", i, scores[i], want[i])
		}
	}
}

func TestSortLeaderboardIdempotent(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scores := []models.GameScore{
		record(100, 5, false, base),
		record(400, 30, true, base),
		record(400, 30, true, base.Add(time.Second)),
		record(250, 0, false, base),
	}
	SortLeaderboard(scores)
	once := make([]models.GameScore, len(scores))
	copy(once, scores)

	SortLeaderboard(scores)
	for i := range once {
		if scores[i] != once[i] {
			t.Errorf("position %d changed on re-sort: %+v vs %+v", i, scores[i], once[i])
		}
	}
}

func TestSortLeaderboardRecencyTieBreak(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	older := record(320, 15, true, base)
	newer := record(320, 15, true, base.Add(time.Hour))

	scores := []models.GameScore{older, newer}
	SortLeaderboard(scores)
	if scores[0] != newer {
		t.Errorf("more recent record should rank first, got %+v", scores[0])
	}
}
