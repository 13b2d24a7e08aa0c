package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lawbuddy/lawbuddy-api/databases"
	"github.com/lawbuddy/lawbuddy-api/models"
)

// Scheduler handles periodic background jobs for reserved consultation slots
type Scheduler struct {
	cron *cron.Cron
	UDB  databases.UserDatabase
}

// NewScheduler creates a new scheduler instance
func NewScheduler(uDB databases.UserDatabase) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		UDB:  uDB,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Drop reservation slots that have already passed, hourly on the hour
	_, err := s.cron.AddFunc("0 * * * *", s.pruneExpiredReservations)
	if err != nil {
		zap.S().Errorw("failed to register reservation pruning job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Reservation scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Reservation scheduler stopped")
}

// pruneExpiredReservations removes past dates from every lawyer's
// reservedDates so availability listings stay current
func (s *Scheduler) pruneExpiredReservations() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	zap.S().Infow("Running reservation pruning job", "cutoff", now)

	res, err := s.UDB.UpdateMany(ctx,
		bson.M{"role": models.RoleLawyer},
		bson.M{"$pull": bson.M{
			"reservedDates": bson.M{"$lt": primitive.NewDateTimeFromTime(now)},
		}},
	)
	if err != nil {
		zap.S().Errorw("failed to prune expired reservations", "error", err)
		return
	}

	zap.S().Infow("Reservation pruning job finished", "matched", res.MatchedCount, "modified", res.ModifiedCount)
}
