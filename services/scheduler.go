// services/scheduler.go
package services

import (
	"log"
	"time"

	"padel-club-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartLifecycleScheduler flips league statuses on a timer: pending leagues whose
// start has arrived go active, active leagues past their end go completed. Phase
// transitions are NOT run here — they stay request-triggered so the catch-up logic
// owns dormant leagues.
func (s *LeagueService) StartLifecycleScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()

			var starting []models.League
			err := s.DB.Where("status = ? AND starts_at <= ?", models.LeagueStatusPending, now).
				Find(&starting).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, l := range starting {
				l.Status = models.LeagueStatusActive
				if l.Format == models.LeagueFormatDivisions && l.PhaseEndsAt.IsZero() {
					l.PhaseEndsAt = l.StartsAt.Add(models.PhaseLength)
				}
				if err := s.DB.Save(&l).Error; err != nil {
					log.Printf("[Scheduler] Failed to activate league %s: %v", l.ID, err)
				} else {
					log.Printf("✅ League activated: %s", l.Name)
				}
			}

			var ending []models.League
			err = s.DB.Where("status = ? AND ends_at <= ?", models.LeagueStatusActive, now).
				Find(&ending).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, l := range ending {
				l.Status = models.LeagueStatusCompleted
				if err := s.DB.Save(&l).Error; err != nil {
					log.Printf("[Scheduler] Failed to complete league %s: %v", l.ID, err)
				} else {
					log.Printf("🏁 League completed: %s", l.Name)
				}
			}
		}),
	)
}
