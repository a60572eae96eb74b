package workers

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"matchup-game-system/models"
	"matchup-game-system/services"
)

// WinnerAnnouncer periodically announces the top scorers of the previous
// interval window. The window length follows the app settings; disabling
// notifications or the interval silences it without stopping the scheduler.
type WinnerAnnouncer struct {
	Settings services.SettingsProvider
	Store    services.ScoreStore
	// Notify receives the winners of each announced window. Optional; the
	// announcement is always logged.
	Notify func(winners []models.GameScore, windowStart, windowEnd time.Time)

	mu            sync.Mutex
	lastAnnounced time.Time
	now           func() time.Time
	sched         gocron.Scheduler
}

func NewWinnerAnnouncer(settings services.SettingsProvider, store services.ScoreStore) *WinnerAnnouncer {
	return &WinnerAnnouncer{Settings: settings, Store: store, now: time.Now}
}

func intervalSpan(interval string) time.Duration {
	if interval == models.IntervalEvery2Hours {
		return 2 * time.Hour
	}
	return time.Hour
}

// AnnouncementWindow returns the window one full interval back from now:
// [now-2h, now-1h) for hourly, [now-4h, now-2h) for every2hours. The window
// slides with now rather than snapping to clock boundaries.
func AnnouncementWindow(now time.Time, interval string) (start, end time.Time) {
	span := intervalSpan(interval)
	return now.Add(-2 * span), now.Add(-span)
}

// Start schedules the announcement checks.
func (w *WinnerAnnouncer) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	w.sched = sched

	_, err = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(w.RunOnce),
	)
	if err != nil {
		return err
	}

	sched.Start()
	log.Println("✅ Winner announcer running (checks every 5m)")
	return nil
}

// Stop shuts the scheduler down.
func (w *WinnerAnnouncer) Stop() {
	if w.sched != nil {
		_ = w.sched.Shutdown()
	}
}

// RunOnce performs one announcement check. Exposed so the scheduler task and
// tests share the same path.
func (w *WinnerAnnouncer) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	settings, err := w.Settings.Get(ctx)
	if err != nil {
		log.Printf("[ANNOUNCER] ⚠️ failed to load settings: %v", err)
		return
	}
	if !settings.EnableNotifications || settings.WinnerAnnouncementInterval == models.IntervalDisabled {
		return
	}

	now := w.now()

	// At most one announcement per interval span.
	w.mu.Lock()
	tooSoon := !w.lastAnnounced.IsZero() && now.Sub(w.lastAnnounced) < intervalSpan(settings.WinnerAnnouncementInterval)
	w.mu.Unlock()
	if tooSoon {
		return
	}

	start, end := AnnouncementWindow(now, settings.WinnerAnnouncementInterval)

	scores, err := w.Store.QueryScores(ctx, services.ScoreFilter{Since: &start, Until: &end})
	if err != nil {
		log.Printf("[ANNOUNCER] ⚠️ failed to query window scores: %v", err)
		return
	}
	if len(scores) == 0 {
		// An empty window is not an announcement; a later check may still
		// find scores once the window has slid forward.
		return
	}

	winners := services.SortLeaderboard(scores)
	if len(winners) > 3 {
		winners = winners[:3]
	}

	top := winners[0]
	log.Printf("🏆 [ANNOUNCER] %s from %s tops the %s–%s window with %d points",
		top.PlayerName, top.PlayerCompany,
		start.Format("15:04"), end.Format("15:04"), top.Score)

	if w.Notify != nil {
		w.Notify(winners, start, end)
	}

	w.mu.Lock()
	w.lastAnnounced = now
	w.mu.Unlock()
}
