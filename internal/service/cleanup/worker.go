package cleanup

import (
	"log"
	"time"
)

const (
	// interval between cleanup sweeps.
	interval = 6 * time.Hour

	// grace keeps expired sessions around long enough for the
	// refresh-near-expiry window to still rescue them.
	grace = 24 * time.Hour
)

type SessionPruner interface {
	DeleteExpiredSessions(cutoff time.Time) (int64, error)
}

// Worker periodically removes sessions whose expiry is past the grace
// window. Association rows cascade with the session delete.
type Worker struct {
	sessions SessionPruner
	stop     chan struct{}
}

func NewWorker(sessions SessionPruner) *Worker {
	return &Worker{
		sessions: sessions,
		stop:     make(chan struct{}),
	}
}

func (w *Worker) Start() {
	log.Println("[CLEANUP] Session cleanup worker started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stop:
			log.Println("[CLEANUP] Session cleanup worker stopped")
			return
		}
	}
}

func (w *Worker) Stop() {
	close(w.stop)
}

func (w *Worker) sweep() {
	cutoff := time.Now().Add(-grace)
	deleted, err := w.sessions.DeleteExpiredSessions(cutoff)
	if err != nil {
		log.Printf("[CLEANUP] Failed to delete expired sessions: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[CLEANUP] Deleted %d expired sessions", deleted)
	}
}
