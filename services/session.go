package services

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"matchup-game-system/data"
	"matchup-game-system/models"
)

// TileFacet says which half of a pair a tile shows.
type TileFacet string

const (
	FacetName        TileFacet = "name"
	FacetDescription TileFacet = "description"
)

// Tile is one face-down card on the board. Exactly two exist per catalog
// service, one per facet.
type Tile struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id"`
	Facet     TileFacet `json:"facet"`
	Revealed  bool      `json:"revealed"`
	Matched   bool      `json:"matched"`
}

// SessionState is the lifecycle of a game session.
type SessionState string

const (
	StateNotStarted SessionState = "not_started"
	StateRunning    SessionState = "running"
	StateCompleted  SessionState = "completed"
	StateTimedOut   SessionState = "timed_out"
)

// GameConfig tunes one game session.
type GameConfig struct {
	SessionSeconds int
	MatchDelay     time.Duration
	MismatchDelay  time.Duration
	// TickInterval drives the countdown goroutine. Zero disables it so tests
	// can call Tick directly.
	TickInterval time.Duration
}

func DefaultGameConfig() GameConfig {
	return GameConfig{
		SessionSeconds: 90,
		MatchDelay:     time.Second,
		MismatchDelay:  1500 * time.Millisecond,
		TickInterval:   time.Second,
	}
}

// GameSession owns the board of one player. Every transition (flip, tick,
// resolve, reset) is serialized through the session mutex; the countdown
// goroutine and the resolve timer are the only background activity and both
// are stopped on every exit from Running.
type GameSession struct {
	ID     string
	Player models.Player

	mu           sync.Mutex
	cfg          GameConfig
	catalog      []data.Service
	tiles        []*Tile
	pending      []*Tile
	matched      map[string]bool
	revealed     int
	remaining    int
	state        SessionState
	finalScore   int
	submitted    bool
	saveFailed   bool
	stopTick     chan struct{}
	resolveTimer *time.Timer

	// save persists the terminal score record. Runs detached from the
	// transition that triggered it; a failure is logged, never fatal.
	save func(rec *models.GameScore) error
}

// TileView is the client-facing shape of a tile. Label carries the name or
// description text only once the tile is face up.
type TileView struct {
	ID       string    `json:"id"`
	Facet    TileFacet `json:"facet"`
	Revealed bool      `json:"revealed"`
	Matched  bool      `json:"matched"`
	Label    string    `json:"label,omitempty"`
}

// SessionView is a consistent snapshot of the session for the HTTP surface.
type SessionView struct {
	ID            string        `json:"id"`
	Player        models.Player `json:"player"`
	State         SessionState  `json:"state"`
	TimeRemaining int           `json:"time_remaining"`
	TilesRevealed int           `json:"tiles_revealed"`
	MatchedPairs  int           `json:"matched_pairs"`
	TotalPairs    int           `json:"total_pairs"`
	Tiles         []TileView    `json:"tiles"`
	FinalScore    *int          `json:"final_score,omitempty"`
	Rating        *Rating       `json:"rating,omitempty"`
	SaveFailed    bool          `json:"save_failed,omitempty"`
}

// Start builds a fresh shuffled deck and begins the countdown. Starting an
// already running session is a no-op.
func (s *GameSession) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return
	}
	s.stopTimersLocked()

	tiles := make([]*Tile, 0, len(s.catalog)*2)
	for _, svc := range s.catalog {
		tiles = append(tiles, &Tile{ID: svc.ID + "-name", ServiceID: svc.ID, Facet: FacetName})
		tiles = append(tiles, &Tile{ID: svc.ID + "-description", ServiceID: svc.ID, Facet: FacetDescription})
	}
	rand.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })

	s.tiles = tiles
	s.pending = nil
	s.matched = make(map[string]bool)
	s.revealed = 0
	s.remaining = s.cfg.SessionSeconds
	s.finalScore = 0
	s.submitted = false
	s.saveFailed = false
	s.state = StateRunning

	if s.cfg.TickInterval > 0 {
		stop := make(chan struct{})
		s.stopTick = stop
		go s.runTimer(stop)
	}
}

func (s *GameSession) runTimer(stop chan struct{}) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.Tick() {
				return
			}
		}
	}
}

// Tick advances the countdown by one second. Returns false once the session
// has left Running so the timer loop stops without a further decrement.
func (s *GameSession) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return false
	}
	s.remaining--
	if s.remaining < 0 {
		s.remaining = 0
	}
	// Completion wins when the last match and the last second land on the
	// same tick.
	if len(s.matched) == len(s.catalog) {
		s.finishLocked(StateCompleted)
		return false
	}
	if s.remaining == 0 {
		s.finishLocked(StateTimedOut)
		return false
	}
	return true
}

// Flip reveals a tile. Invalid flips (two tiles already pending, tile already
// face up or matched, session not running) are rejected silently and do not
// touch the reveal counter.
func (s *GameSession) Flip(tileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning || len(s.pending) >= 2 {
		return false
	}
	var tile *Tile
	for _, t := range s.tiles {
		if t.ID == tileID {
			tile = t
			break
		}
	}
	if tile == nil || tile.Revealed || tile.Matched {
		return false
	}

	s.revealed++
	tile.Revealed = true
	s.pending = append(s.pending, tile)

	if len(s.pending) == 2 {
		s.scheduleResolveLocked()
	}
	return true
}

func (s *GameSession) scheduleResolveLocked() {
	first, second := s.pending[0], s.pending[1]
	delay := s.cfg.MismatchDelay
	if first.ServiceID == second.ServiceID && first.Facet != second.Facet {
		delay = s.cfg.MatchDelay
	}
	if delay <= 0 {
		s.resolveLocked()
		return
	}
	s.resolveTimer = time.AfterFunc(delay, s.Resolve)
}

// Resolve settles the pending pair as match or mismatch.
func (s *GameSession) Resolve() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolveLocked()
}

func (s *GameSession) resolveLocked() {
	if s.state != StateRunning || len(s.pending) != 2 {
		return
	}
	if s.resolveTimer != nil {
		s.resolveTimer.Stop()
		s.resolveTimer = nil
	}
	first, second := s.pending[0], s.pending[1]
	if first.ServiceID == second.ServiceID && first.Facet != second.Facet {
		s.matched[first.ServiceID] = true
		first.Matched = true
		second.Matched = true
	} else {
		first.Revealed = false
		second.Revealed = false
	}
	s.pending = nil

	if len(s.matched) == len(s.catalog) {
		s.finishLocked(StateCompleted)
	}
}

// finishLocked performs the terminal transition: stop the timers, compute the
// final score, and submit the record at most once no matter how many paths
// fire the transition.
func (s *GameSession) finishLocked(terminal SessionState) {
	if s.state != StateRunning {
		return
	}
	s.state = terminal
	s.stopTimersLocked()

	if s.submitted {
		return
	}
	s.submitted = true

	completed := terminal == StateCompleted
	s.finalScore = CalculateScore(len(s.matched), s.revealed, s.remaining, len(s.catalog), s.cfg.SessionSeconds, completed)

	if s.save == nil {
		return
	}
	rec := &models.GameScore{
		PlayerID:      s.Player.ID,
		PlayerName:    s.Player.Name,
		PlayerCompany: s.Player.Company,
		Score:         s.finalScore,
		TilesRevealed: s.revealed,
		MatchedPairs:  len(s.matched),
		TimeRemaining: s.remaining,
		CompletedGame: completed,
		RecordedAt:    time.Now(),
	}
	save := s.save
	go func() {
		if err := save(rec); err != nil {
			log.Printf("[SESSION] ⚠️ failed to save score for %s: %v", rec.PlayerName, err)
			s.mu.Lock()
			s.saveFailed = true
			s.mu.Unlock()
		}
	}()
}

// Reset returns the session to NotStarted for a fresh game. This is a reset,
// not a resume: deck, counters, and the submission guard all start over.
func (s *GameSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimersLocked()
	s.state = StateNotStarted
	s.tiles = nil
	s.pending = nil
	s.matched = nil
	s.revealed = 0
	s.remaining = s.cfg.SessionSeconds
	s.finalScore = 0
	s.submitted = false
	s.saveFailed = false
}

// Close stops all background activity. Called when the session is discarded.
func (s *GameSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
}

func (s *GameSession) stopTimersLocked() {
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
	if s.resolveTimer != nil {
		s.resolveTimer.Stop()
		s.resolveTimer = nil
	}
}

func (s *GameSession) serviceByIDLocked(id string) *data.Service {
	for i := range s.catalog {
		if s.catalog[i].ID == id {
			return &s.catalog[i]
		}
	}
	return nil
}

// Snapshot returns a consistent view of the session.
func (s *GameSession) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := SessionView{
		ID:            s.ID,
		Player:        s.Player,
		State:         s.state,
		TimeRemaining: s.remaining,
		TilesRevealed: s.revealed,
		MatchedPairs:  len(s.matched),
		TotalPairs:    len(s.catalog),
		Tiles:         make([]TileView, 0, len(s.tiles)),
		SaveFailed:    s.saveFailed,
	}
	for _, t := range s.tiles {
		tv := TileView{ID: t.ID, Facet: t.Facet, Revealed: t.Revealed, Matched: t.Matched}
		if t.Revealed || t.Matched {
			if svc := s.serviceByIDLocked(t.ServiceID); svc != nil {
				switch t.Facet {
				case FacetName:
					tv.Label = svc.Name
				case FacetDescription:
					tv.Label = svc.Description
				}
			}
		}
		view.Tiles = append(view.Tiles, tv)
	}
	if s.state == StateCompleted || s.state == StateTimedOut {
		score := s.finalScore
		rating := ScoreRating(score)
		view.FinalScore = &score
		view.Rating = &rating
	}
	return view
}
