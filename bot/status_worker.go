package bot

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// StartStatusWorker starts a background worker that keeps the bot's
// "watching N servers" presence current.
// Returns a cleanup function to stop the worker gracefully.
func (b *Bot) StartStatusWorker(ctx context.Context) func() {
	ticker := time.NewTicker(10 * time.Minute)
	stopChan := make(chan struct{})

	updateStatus := func() {
		count := len(b.session.State.Guilds)
		status := fmt.Sprintf("%d servers", count)
		if err := b.session.UpdateWatchStatus(0, status); err != nil {
			log.Errorf("Failed to update bot status: %v", err)
		}
	}

	go func() {
		log.Info("Status worker started")

		// Run immediately on startup
		updateStatus()

		for {
			select {
			case <-ctx.Done():
				log.Info("Status worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Status worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				updateStatus()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}
