package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codyseavey/cardwatch/internal/metrics"
	"github.com/codyseavey/cardwatch/internal/models"
)

// WorkerConfig holds the knobs for the daily ingest loop.
type WorkerConfig struct {
	Watch          []models.WatchedCard
	CardType       models.CardType
	MaxWatchMonths int
	Hour           int           // local hour at or after which the daily run fires
	CheckInterval  time.Duration // how often to check whether a run is due
}

// IngestWorker appends one ledger entry per tracked product per calendar day.
// The tracked universe is the configured watch list plus the current
// best-appreciation leaders and every card of the recently released sets, so
// tomorrow's change queries have today's prices to compare against.
type IngestWorker struct {
	tracker *Tracker
	cfg     WorkerConfig

	mu          sync.RWMutex
	lastRunDay  string
	lastRunID   string
	lastRunTime time.Time
	lastErr     error
}

// WorkerStatus is the worker's externally visible state.
type WorkerStatus struct {
	LastRunDay  string    `json:"lastRunDay"`
	LastRunID   string    `json:"lastRunId"`
	LastRunTime time.Time `json:"lastRunTime"`
	LastError   string    `json:"lastError,omitempty"`
}

func NewIngestWorker(tracker *Tracker, cfg WorkerConfig) *IngestWorker {
	if cfg.Hour <= 0 || cfg.Hour > 23 {
		cfg.Hour = 23
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 15 * time.Minute
	}
	return &IngestWorker{tracker: tracker, cfg: cfg}
}

// Start runs the worker until ctx is cancelled. It checks immediately on
// startup, then on every tick; a run happens at most once per calendar day,
// once the configured hour has passed.
func (w *IngestWorker) Start(ctx context.Context) {
	log.Printf("Ingest worker started: daily run at or after %02d:00, checking every %v", w.cfg.Hour, w.cfg.CheckInterval)

	w.maybeRun(ctx)

	ticker := time.NewTicker(w.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Ingest worker stopping...")
			return
		case <-ticker.C:
			w.maybeRun(ctx)
		}
	}
}

func (w *IngestWorker) maybeRun(ctx context.Context) {
	now := w.tracker.now()
	if now.Hour() < w.cfg.Hour {
		return
	}
	today := DayString(now)

	w.mu.RLock()
	done := w.lastRunDay == today
	w.mu.RUnlock()
	if done {
		return
	}

	w.RunNow(ctx)
}

// RunNow performs one ingest run immediately, regardless of schedule.
func (w *IngestWorker) RunNow(ctx context.Context) {
	runID := uuid.NewString()
	now := w.tracker.now()
	log.Printf("Ingest worker: run %s starting", runID)

	err := w.run(ctx, now)
	if err != nil {
		log.Printf("Ingest worker: run %s failed: %v", runID, err)
	} else {
		log.Printf("Ingest worker: run %s complete", runID)
	}

	w.mu.Lock()
	w.lastRunDay = DayString(now)
	w.lastRunID = runID
	w.lastRunTime = now
	w.lastErr = err
	w.mu.Unlock()

	metrics.IngestRunsTotal.Inc()
}

// run assembles the tracked universe and ingests it. The universe is fetched
// fresh each run: the watch list, the current appreciation leaders for both
// rarities, and every ultra/secret card of each set inside the watch window.
func (w *IngestWorker) run(ctx context.Context, now time.Time) error {
	var cards []models.CardRef
	for _, wc := range w.cfg.Watch {
		cards = append(cards, models.CardRef{ID: wc.ID, Set: wc.Set})
	}

	for _, rarity := range []models.Rarity{models.RarityUltra, models.RaritySecret} {
		leaders, err := w.tracker.BestAppreciation(ctx, 6, 72, rarity, w.cfg.CardType, 500, 0)
		if err != nil {
			return err
		}
		for _, mi := range leaders {
			cards = append(cards, models.CardRef{ID: mi.ProductID, Set: mi.Set})
		}
	}

	cutoff := now.AddDate(0, -w.cfg.MaxWatchMonths, 0)
	for _, set := range w.tracker.Sets() {
		released, err := time.Parse(dayLayout, set.Date)
		if err != nil || released.Before(cutoff) {
			continue
		}
		for _, rarity := range []models.Rarity{models.RarityUltra, models.RaritySecret} {
			ids, err := w.tracker.source.SearchIDs(ctx, rarity, set.Name)
			if err != nil {
				return err
			}
			for _, id := range ids {
				cards = append(cards, models.CardRef{ID: id, Set: set.Name})
			}
		}
	}

	seen := make(map[int]bool, len(cards))
	unique := cards[:0]
	for _, c := range cards {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		unique = append(unique, c)
	}

	h, err := w.tracker.Ingest(ctx, unique, w.cfg.CardType, now)
	if err != nil {
		return err
	}
	metrics.ProductsTracked.Set(float64(len(h)))
	return nil
}

// Status returns the worker's last-run state.
func (w *IngestWorker) Status() WorkerStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	st := WorkerStatus{
		LastRunDay:  w.lastRunDay,
		LastRunID:   w.lastRunID,
		LastRunTime: w.lastRunTime,
	}
	if w.lastErr != nil {
		st.LastError = w.lastErr.Error()
	}
	return st
}
