package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// ReminderService runs the daily review-backlog sweep: applications that
// have sat in submitted longer than the configured window trigger a
// warning notification to the admins of their program.
type ReminderService struct {
	appRepo          repositories.ApplicationRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	staleAfterDays   int
	cron             *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(
	appRepo repositories.ApplicationRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	staleAfterDays int,
) *ReminderService {
	return &ReminderService{
		appRepo:          appRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		staleAfterDays:   staleAfterDays,
	}
}

// Start schedules the sweep at 08:30 daily
func (s *ReminderService) Start() {
	s.cron = cron.New()

	_, err := s.cron.AddFunc("30 8 * * *", func() {
		if err := s.RunSweep(context.Background()); err != nil {
			log.Printf("⚠️ Review reminder sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("⚠️ Failed to schedule review reminder: %v", err)
		return
	}

	s.cron.Start()
	log.Printf("✅ Review reminder scheduled (08:30 daily, stale after %d days)", s.staleAfterDays)
}

// Stop halts the scheduler and waits for a running sweep to finish
func (s *ReminderService) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		log.Printf("🛑 Review reminder stopped")
	}
}

// RunSweep notifies program admins about applications stuck in submitted.
// One notification per admin per stale application; failures are logged
// and the sweep keeps going.
func (s *ReminderService) RunSweep(ctx context.Context) error {
	apps, err := s.appRepo.ListStaleSubmitted(ctx, s.staleAfterDays)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		return nil
	}

	log.Printf("⏰ Review reminder: %d application(s) awaiting review for over %d days", len(apps), s.staleAfterDays)

	for _, app := range apps {
		admins, err := s.userRepo.ListProgramAdmins(ctx, app.ProgramID)
		if err != nil {
			log.Printf("⚠️ Failed to load admins for program %d: %v", app.ProgramID, err)
			continue
		}

		days := 0
		if app.SubmittedAt != nil {
			days = int(time.Since(*app.SubmittedAt).Hours() / 24)
		}

		for _, admin := range admins {
			n := &models.Notification{
				UserID:  admin.ID,
				Title:   "Application awaiting review",
				Message: fmt.Sprintf("Application %s has been waiting for review for %d days", app.ApplicationNumber, days),
				Type:    models.NotifyWarning,
			}
			if err := s.notificationRepo.Create(ctx, n); err != nil {
				log.Printf("⚠️ Failed to notify user %d about %s: %v", admin.ID, app.ApplicationNumber, err)
			}
		}
	}

	return nil
}
