package services

import (
	"kyndra/internal/database"
	"kyndra/internal/models"
	"log"
	"time"
)

// CleanupWorker periodically purges expired sessions and spent magic links
type CleanupWorker struct {
	interval time.Duration
}

func NewCleanupWorker() *CleanupWorker {
	return &CleanupWorker{
		interval: time.Hour, // Hourly sweep is plenty for auth rows
	}
}

func (w *CleanupWorker) Start() {
	go w.run()
}

func (w *CleanupWorker) run() {
	// Sweep once at startup so restarts don't accumulate stale rows
	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		w.sweep()
	}
}

func (w *CleanupWorker) sweep() {
	db := database.GetDB()
	now := time.Now()

	result := db.Where("expires_at < ?", now).Delete(&models.Session{})
	if result.Error != nil {
		log.Printf("Error: failed to delete expired sessions: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("Deleted %d expired sessions", result.RowsAffected)
	}

	// Consumed links are kept briefly for audit, then dropped with the expired ones
	result = db.Where("expires_at < ? OR consumed_at IS NOT NULL AND consumed_at < ?", now, now.Add(-24*time.Hour)).
		Delete(&models.MagicLink{})
	if result.Error != nil {
		log.Printf("Error: failed to delete stale magic links: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("Deleted %d stale magic links", result.RowsAffected)
	}
}
