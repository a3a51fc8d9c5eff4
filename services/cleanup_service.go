package services

import (
	"log"
	"time"

	"choretrack/choretrack/database"
	"choretrack/choretrack/models"

	"github.com/google/uuid"
)

// CleanupService periodically removes completed tasks older than the
// retention window, together with their completion requests.
type CleanupService struct {
	db        *database.Database
	interval  time.Duration
	retention time.Duration
	stop      chan struct{}
}

func NewCleanupService(db *database.Database, interval, retention time.Duration) *CleanupService {
	return &CleanupService{
		db:        db,
		interval:  interval,
		retention: retention,
		stop:      make(chan struct{}),
	}
}

// Start sweeps once immediately, then on every tick. It runs in its own
// goroutine until Stop is called.
func (s *CleanupService) Start() {
	go func() {
		s.sweepAndLog()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweepAndLog()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *CleanupService) Stop() {
	close(s.stop)
}

func (s *CleanupService) sweepAndLog() {
	removed, err := s.Sweep()
	if err != nil {
		log.Printf("Completed-task cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Removed %d completed tasks older than %s", removed, s.retention)
	}
}

// Sweep deletes completed tasks whose completion is older than the retention
// window and returns how many were removed.
func (s *CleanupService) Sweep() (int64, error) {
	cutoff := time.Now().UTC().Add(-s.retention)

	tx := s.db.DB.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	var staleIDs []uuid.UUID
	err := tx.Model(&models.Task{}).
		Where("completed = ? AND completed_at < ?", true, cutoff).
		Pluck("id", &staleIDs).Error
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if len(staleIDs) == 0 {
		tx.Rollback()
		return 0, nil
	}

	if err := tx.Where("task_id IN ?", staleIDs).Delete(&models.CompletionRequest{}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	result := tx.Where("id IN ?", staleIDs).Delete(&models.Task{})
	if result.Error != nil {
		tx.Rollback()
		return 0, result.Error
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	return result.RowsAffected, nil
}
