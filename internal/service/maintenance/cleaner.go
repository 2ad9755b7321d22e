package maintenance

import (
	"context"
	"time"

	"github.com/ccoutinho/letterfy/internal/logger"
	"github.com/ccoutinho/letterfy/internal/repository"
)

const defaultCleanInterval = time.Hour

// Cleaner purges refresh tokens that expired and can never be used again
// Used tokens are kept until expiry so token reuse stays detectable
type Cleaner struct {
	interval    time.Duration
	logger      logger.Logger
	refreshRepo repository.RefreshTokenRepo
}

func NewCleaner(interval time.Duration, l logger.Logger, refreshRepo repository.RefreshTokenRepo) *Cleaner {
	if interval <= 0 {
		interval = defaultCleanInterval
	}

	return &Cleaner{
		interval:    interval,
		logger:      l,
		refreshRepo: refreshRepo,
	}
}

// Run cleans on every tick until ctx is done
// Returned channel closes when the cleaner fully stopped
func (c *Cleaner) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})
	c.logger.Debug("Starting token cleaner", "interval", c.interval)

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.logger.Debug("Token cleaner stopped by context")
				return

			case <-ticker.C:
				removed, err := c.refreshRepo.DeleteExpired(ctx, time.Now())
				if err != nil {
					c.logger.Error("Failed to delete expired refresh tokens", "error", err)
					continue
				}

				if removed > 0 {
					c.logger.Info("Expired refresh tokens removed", "count", removed)
				}
			}
		}
	}()

	return idleStopped
}
