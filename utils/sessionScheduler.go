package utils

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"lms/config"
	"lms/database"
	"lms/logger"
	"lms/models"
)

const sessionPurgeSpec = "0 3 * * *"

// InitializeSessionScheduler purges dead sessions every night at 03:00 in the
// configured time zone
func InitializeSessionScheduler(log *logger.Logger) (*cron.Cron, error) {
	c, err := newSessionScheduler(log, config.AppConfig.Location)
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info("session scheduler started, runs daily at 03:00", "location", c.Location().String())
	return c, nil
}

func newSessionScheduler(log *logger.Logger, loc *time.Location) (*cron.Cron, error) {
	if loc == nil {
		loc = time.Local
	}
	log = log.With("component", "session-scheduler")
	c := cron.New(cron.WithLocation(loc), cron.WithLogger(logger.CronLogger{Log: log}))

	_, err := c.AddFunc(sessionPurgeSpec, func() {
		n, err := PurgeSessions(database.Database.Db, time.Now())
		if err != nil {
			log.Error("session purge failed", "error", err)
			return
		}
		log.Info("session purge done", "deleted", n)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule session purge: %w", err)
	}
	return c, nil
}

// PurgeSessions hard-deletes sessions that expired or were revoked before now
func PurgeSessions(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Unscoped().
		Where("expires_at < ? OR is_revoked = ?", now, true).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
