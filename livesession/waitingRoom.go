package livesession

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"lms/logger"
	"lms/models/course"
)

// DefaultInterval is the waiting-room check period when none is configured
const DefaultInterval = 5 * time.Second

// Update is delivered after every status check
type Update struct {
	Status          Status              `json:"status"`
	Session         *course.LiveSession `json:"session,omitempty"`
	CheckedAt       time.Time           `json:"checked_at"`
	StartsInSeconds int                 `json:"starts_in_seconds,omitempty"`
	Error           string              `json:"error,omitempty"`
}

// FetchFunc loads the current state of one live session
type FetchFunc func(ctx context.Context) (*course.LiveSession, error)

// every is a fixed-delay cron schedule with sub-second resolution
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

type WaitingRoom struct {
	fetch    FetchFunc
	interval time.Duration
	log      *logger.Logger
	now      func() time.Time
}

func NewWaitingRoom(fetch FetchFunc, interval time.Duration, log *logger.Logger) *WaitingRoom {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &WaitingRoom{fetch: fetch, interval: interval, log: log, now: time.Now}
}

// Wait checks the session immediately and then once per interval until it has
// started or ended, or ctx is done. A tick is skipped while the previous check
// is still running. onUpdate is never called concurrently and never after Wait
// returns.
func (w *WaitingRoom) Wait(ctx context.Context, onUpdate func(Update)) (Update, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu   sync.Mutex
		last = Update{Status: StatusWaiting}
		done = make(chan Update, 1)
	)

	check := func() bool {
		sess, err := w.fetch(ctx)
		if ctx.Err() != nil {
			return false
		}
		checkedAt := w.now()

		mu.Lock()
		u := Update{Status: last.Status, Session: last.Session, CheckedAt: checkedAt}
		if err != nil {
			w.log.Warn("live session check failed", "error", err)
			u.Error = "Could not refresh the session status."
		} else {
			u.Session = sess
			u.Status = Evaluate(sess, checkedAt)
			if u.Status == StatusWaiting && sess != nil && !sess.StartsAt.IsZero() {
				u.StartsInSeconds = int(sess.StartsAt.Sub(checkedAt).Seconds())
			}
		}
		last = u
		mu.Unlock()

		if onUpdate != nil {
			onUpdate(u)
		}
		if u.Status != StatusWaiting {
			select {
			case done <- u:
			default:
			}
			return true
		}
		return false
	}

	if check() {
		return <-done, nil
	}
	if ctx.Err() != nil {
		return last, ctx.Err()
	}

	cl := logger.CronLogger{Log: w.log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(every(w.interval), cron.FuncJob(func() { check() }))
	c.Start()
	defer func() {
		cancel()
		<-c.Stop().Done()
	}()

	select {
	case u := <-done:
		return u, nil
	case <-ctx.Done():
		mu.Lock()
		defer mu.Unlock()
		return last, ctx.Err()
	}
}
