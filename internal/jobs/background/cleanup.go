// Package background runs the periodic maintenance jobs: stale token and
// grant rows are deleted once they have been expired or revoked past the
// retention window.
package background

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"leagueapi/internal/repositories"
)

const retention = 24 * time.Hour

type Cleaner struct {
	scheduler gocron.Scheduler
	tokens    repositories.TokenRepository
	grants    repositories.GrantRepository
	logger    *zap.Logger
}

func NewCleaner(tokens repositories.TokenRepository, grants repositories.GrantRepository, logger *zap.Logger, interval time.Duration) (*Cleaner, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	cleaner := &Cleaner{
		scheduler: scheduler,
		tokens:    tokens,
		grants:    grants,
		logger:    logger,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(cleaner.run),
	)
	if err != nil {
		return nil, err
	}
	return cleaner, nil
}

func (c *Cleaner) Start() {
	c.scheduler.Start()
}

func (c *Cleaner) Stop() error {
	return c.scheduler.Shutdown()
}

func (c *Cleaner) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-retention)
	tokens, err := c.tokens.DeleteStale(ctx, cutoff)
	if err != nil {
		c.logger.Error("token cleanup", zap.Error(err))
	}
	grants, err := c.grants.DeleteStale(ctx, cutoff)
	if err != nil {
		c.logger.Error("grant cleanup", zap.Error(err))
	}
	if tokens > 0 || grants > 0 {
		c.logger.Info("cleaned stale oauth rows",
			zap.Int64("tokens", tokens),
			zap.Int64("grants", grants))
	}
}
