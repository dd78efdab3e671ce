// Package syncsched runs the external mailbox sync on a cron schedule so
// mail-sourced complaints show up without an official pressing the sync
// button.
package syncsched

import (
	"context"
	"fmt"

	rcron "github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/lifecycle"
	"github.com/edakseva/grievance-server/internal/model"
)

// Scheduler triggers periodic syncs through the lifecycle controller.
type Scheduler struct {
	ctrl     *lifecycle.Controller
	schedule string
	log      zerolog.Logger

	cron    *rcron.Cron
	entryID rcron.EntryID
}

// system session used for scheduled syncs, which have no interactive login
var schedulerSession = &model.UserSession{CustomerID: "admin", Role: model.RoleOfficial, Name: "Sync Scheduler"}

func New(ctrl *lifecycle.Controller, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{ctrl: ctrl, schedule: schedule, log: log}
}

// Start registers the job and begins the cron loop. The schedule uses the
// standard 5-field cron format; an empty schedule disables the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		s.log.Info().Msg("sync scheduler disabled")
		return nil
	}

	s.cron = rcron.New()
	id, err := s.cron.AddFunc(s.schedule, func() { s.run(ctx) })
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.schedule, err)
	}
	s.entryID = id
	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("sync scheduler started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info().Msg("sync scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	imported, err := s.ctrl.Sync(ctx, schedulerSession)
	if err != nil {
		s.log.Warn().Err(err).Msg("scheduled sync failed")
		return
	}
	if len(imported) > 0 {
		s.log.Info().Int("imported", len(imported)).Msg("scheduled sync imported complaints")
	}
}
