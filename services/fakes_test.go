package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"matchup-game-system/models"
)

// fakeScoreStore is an in-memory ScoreStore for state machine and window
// tests. Appends are signalled on saved so tests can wait for the detached
// persistence goroutine.
type fakeScoreStore struct {
	mu      sync.Mutex
	players map[string]models.Player
	scores  []models.GameScore
	failAll error
	saved   chan models.GameScore
}

func newFakeScoreStore() *fakeScoreStore {
	return &fakeScoreStore{
		players: make(map[string]models.Player),
		saved:   make(chan models.GameScore, 16),
	}
}

func (f *fakeScoreStore) UpsertPlayer(_ context.Context, name, company string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.players {
		if p.Name == name {
			p.Company = company
			f.players[p.ID] = p
			return &p, nil
		}
	}
	p := models.Player{ID: "player-" + name, Name: name, Company: company, CreatedAt: time.Now()}
	f.players[p.ID] = p
	return &p, nil
}

func (f *fakeScoreStore) GetPlayer(_ context.Context, id string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[id]
	if !ok {
		return nil, errors.New("player not found")
	}
	return &p, nil
}

func (f *fakeScoreStore) ListPlayers(_ context.Context) ([]models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Player, 0, len(f.players))
	for _, p := range f.players {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeScoreStore) AppendScore(_ context.Context, rec *models.GameScore) error {
	f.mu.Lock()
	err := f.failAll
	if err == nil {
		f.scores = append(f.scores, *rec)
	}
	f.mu.Unlock()
	f.saved <- *rec
	return err
}

func (f *fakeScoreStore) QueryScores(_ context.Context, filter ScoreFilter) ([]models.GameScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	var out []models.GameScore
	for _, s := range f.scores {
		if filter.Since != nil && s.RecordedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && !s.RecordedAt.Before(*filter.Until) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out, nil
}

func (f *fakeScoreStore) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scores)
}

func (f *fakeScoreStore) waitForSave(t interface{ Fatalf(string, ...any) }) models.GameScore {
	select {
	case rec := <-f.saved:
		return rec
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for score save")
		return models.GameScore{}
	}
}

// fakeMarkerStore keeps the session boundary in memory.
type fakeMarkerStore struct {
	mu    sync.Mutex
	start time.Time
	set   bool
}

func (f *fakeMarkerStore) SessionStart(_ context.Context, init time.Time) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.set {
		f.start = init
		f.set = true
	}
	return f.start, nil
}

func (f *fakeMarkerStore) SetSessionStart(_ context.Context, t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.start = t
	f.set = true
	return nil
}
