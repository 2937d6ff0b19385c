package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService runs the scheduled background jobs, currently the
// nightly sweep of past trips.
type CronService struct {
	cron       *cron.Cron
	tripSvc    *TripCatalogService
	logger     *logrus.Logger
	expireSpec string
}

// NewCronService creates a new CronService. expireSpec is a standard
// five-field cron expression.
func NewCronService(tripSvc *TripCatalogService, logger *logrus.Logger, expireSpec string) *CronService {
	return &CronService{
		cron:       cron.New(),
		tripSvc:    tripSvc,
		logger:     logger,
		expireSpec: expireSpec,
	}
}

// Start schedules and starts all jobs.
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.expireSpec, s.expireTripsJob); err != nil {
		return fmt.Errorf("failed to schedule expire trips job: %w", err)
	}
	s.cron.Start()
	s.logger.WithField("spec", s.expireSpec).Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) expireTripsJob() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	expired, err := s.tripSvc.ExpireTrips(ctx, time.Now())
	if err != nil {
		s.logger.WithError(err).Error("Expire trips job failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"expired":  expired,
		"duration": time.Since(start).String(),
	}).Info("Expire trips job finished")
}
