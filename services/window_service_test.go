package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"matchup-game-system/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedScore(store *fakeScoreStore, name string, score int, recordedAt time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.scores = append(store.scores, models.GameScore{
		PlayerName: name,
		Score:      score,
		RecordedAt: recordedAt,
	})
}

func TestCurrentSessionScoresRespectBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	store := newFakeScoreStore()
	markers := &fakeMarkerStore{}
	markers.SetSessionStart(context.Background(), now.Add(-time.Hour))

	seedScore(store, "old", 500, now.Add(-2*time.Hour)) // before the boundary
	seedScore(store, "in-session", 300, now.Add(-30*time.Minute))

	w := NewWindowService(store, markers, nil)
	w.Now = fixedClock(now)

	scores, err := w.CurrentSessionScores(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].PlayerName != "in-session" {
		t.Errorf("session scores = %+v, want only the in-session record", scores)
	}
}

func TestDailyScoresUseCalendarDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	store := newFakeScoreStore()
	seedScore(store, "yesterday", 900, now.Add(-24*time.Hour))
	seedScore(store, "today", 100, now.Add(-2*time.Hour))

	w := NewWindowService(store, &fakeMarkerStore{}, nil)
	w.Now = fixedClock(now)

	scores, err := w.DailyScores(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].PlayerName != "today" {
		t.Errorf("daily scores = %+v, want only today's record", scores)
	}
}

func TestClearSessionReturnsTop3AndEmptiesView(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	store := newFakeScoreStore()
	markers := &fakeMarkerStore{}
	markers.SetSessionStart(context.Background(), now.Add(-time.Hour))

	seedScore(store, "first", 400, now.Add(-40*time.Minute))
	seedScore(store, "second", 300, now.Add(-30*time.Minute))
	seedScore(store, "third", 200, now.Add(-20*time.Minute))
	seedScore(store, "fourth", 100, now.Add(-10*time.Minute))

	w := NewWindowService(store, markers, nil)
	w.Now = fixedClock(now)

	winners, err := w.ClearSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(winners) != 3 {
		t.Fatalf("winners = %d records, want top 3", len(winners))
	}
	for i, name := range []string{"first", "second", "third"} {
		if winners[i].PlayerName != name {
			t.Errorf("winner %d = %s, want %s", i, winners[i].PlayerName, name)
		}
	}

	// The new boundary excludes everything recorded before the clear, while
	// the records themselves survive.
	scores, err := w.CurrentSessionScores(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 0 {
		t.Errorf("session scores after clear = %+v, want empty", scores)
	}
	all, err := w.AllTimeScores(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("clear deleted records: %d left, want 4", len(all))
	}
}

type recordingArchiver struct {
	mu          sync.Mutex
	winners     []models.GameScore
	markerAtRun time.Time
	markers     *fakeMarkerStore
	err         error
}

func (r *recordingArchiver) ArchiveWinners(ctx context.Context, winners []models.GameScore, clearedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.winners = winners
	r.markerAtRun, _ = r.markers.SessionStart(ctx, clearedAt)
	return r.err
}

func TestClearSessionArchivesSnapshotBeforeMovingBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	boundary := now.Add(-time.Hour)
	store := newFakeScoreStore()
	markers := &fakeMarkerStore{}
	markers.SetSessionStart(context.Background(), boundary)
	seedScore(store, "first", 400, now.Add(-30*time.Minute))

	archiver := &recordingArchiver{markers: markers}
	w := NewWindowService(store, markers, archiver)
	w.Now = fixedClock(now)

	if _, err := w.ClearSession(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(archiver.winners) != 1 || archiver.winners[0].PlayerName != "first" {
		t.Errorf("archived winners = %+v", archiver.winners)
	}
	if !archiver.markerAtRun.Equal(boundary) {
		t.Errorf("archive ran after the boundary moved: saw %v, want %v", archiver.markerAtRun, boundary)
	}
}

func TestClearSessionSurvivesArchiveFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	store := newFakeScoreStore()
	markers := &fakeMarkerStore{}
	markers.SetSessionStart(context.Background(), now.Add(-time.Hour))
	seedScore(store, "first", 400, now.Add(-30*time.Minute))

	archiver := &recordingArchiver{markers: markers, err: errors.New("bucket gone")}
	w := NewWindowService(store, markers, archiver)
	w.Now = fixedClock(now)

	winners, err := w.ClearSession(context.Background())
	if err != nil {
		t.Fatalf("archive failure must not fail the clear: %v", err)
	}
	if len(winners) != 1 {
		t.Errorf("winners = %+v", winners)
	}
	if start, _ := markers.SessionStart(context.Background(), now); !start.Equal(now) {
		t.Errorf("boundary = %v, want moved to %v", start, now)
	}
}
