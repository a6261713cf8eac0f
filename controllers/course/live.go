package controllers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"lms/livesession"
	"lms/middleware"
	"lms/models/course"
	"lms/upstream"
	"lms/utils"
)

// LiveSessionView is a live session with its status resolved at request time
type LiveSessionView struct {
	course.LiveSession
	Resolved livesession.Status `json:"resolved_status"`
}

func (h *Handler) ListLiveSessions(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}

	sessions, err := h.lms.ListLiveSessions(c.UserContext(), sess.UpstreamToken, local(c, "courseID"))
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load live sessions!")
	}

	now := time.Now()
	views := make([]LiveSessionView, 0, len(sessions))
	for i := range sessions {
		views = append(views, LiveSessionView{
			LiveSession: sessions[i],
			Resolved:    livesession.Evaluate(&sessions[i], now),
		})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live sessions fetched successfully!", views)
}

// ScheduleLiveSession creates a live session and emails the instructor a confirmation
func (h *Handler) ScheduleLiveSession(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	in := c.Locals("validatedLive").(*upstream.LiveSessionInput)

	created, err := h.lms.CreateLiveSession(c.UserContext(), sess.UpstreamToken, local(c, "courseID"), *in)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to schedule the live session!")
	}

	if sess.Email != "" {
		utils.SendLiveSessionScheduledEmail(h.mailer, h.appName, sess.Email, sess.Name, created.Title, created.StartsAt.In(h.loc))
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Live session scheduled successfully!", created)
}

// WaitForLiveSession streams waiting-room updates as server-sent events until
// the session starts or ends. Closing the connection stops the checks.
func (h *Handler) WaitForLiveSession(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	token := strings.Clone(sess.UpstreamToken)
	sessionID := strings.Clone(local(c, "sessionID"))

	// fail fast with a JSON error before switching to the event stream
	if _, err := h.lms.GetLiveSession(c.UserContext(), token, sessionID); err != nil {
		return h.upstreamFailure(c, err, "Failed to load the live session!")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	lms, log, interval := h.lms, h.log, h.pollInterval
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		room := livesession.NewWaitingRoom(func(ctx context.Context) (*course.LiveSession, error) {
			return lms.GetLiveSession(ctx, token, sessionID)
		}, interval, log)

		final, err := room.Wait(ctx, func(u livesession.Update) {
			if writeEvent(w, "status", u) != nil {
				cancel()
			}
		})
		if err != nil {
			log.Debug("waiting room closed", "session_id", sessionID, "error", err)
			return
		}
		_ = writeEvent(w, "done", final)
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}
