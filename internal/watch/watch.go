// Package watch runs the headless watcher: it keeps the backend synced on a
// cron schedule and raises a desktop notification whenever a conversation
// starts needing attention.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pquill/hostdesk/internal/api"
	"github.com/pquill/hostdesk/internal/notify"
)

// Emergency keywords in a guest message escalate the notification to urgent.
var emergencyKeywords = []string{
	"emergency", "fire", "flood", "locked out", "lockout",
	"lock out", "can't get in", "cant get in", "stuck outside",
	"help me", "urgent", "police", "ambulance",
}

// IsEmergency reports whether a guest message preview contains an emergency
// keyword.
func IsEmergency(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range emergencyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Backend is the slice of the API client the watcher needs.
type Backend interface {
	SyncListings(ctx context.Context) (*api.SyncListingsResult, error)
	SyncReservations(ctx context.Context) (*api.SyncReservationsResult, error)
	Conversations(ctx context.Context) ([]api.Conversation, error)
}

// Watcher polls conversations and notifies on new guest activity.
type Watcher struct {
	backend  Backend
	notifier *notify.Notifier
	logger   *zap.Logger
	schedule string
	sched    cron.Schedule
	sync     bool
	out      io.Writer

	// notified maps reservation ID to the last_message_time already
	// announced, so one guest message produces one notification.
	notified map[int]string
}

// Opts holds parameters for creating a Watcher.
type Opts struct {
	Backend  Backend
	Notifier *notify.Notifier
	Logger   *zap.Logger
	Schedule string // 5-field cron expression
	Sync     bool   // run backend syncs each cycle
	Out      io.Writer
}

// New creates a Watcher.
func New(opts Opts) (*Watcher, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("watch: backend is required")
	}
	sched, err := ParseSchedule(opts.Schedule)
	if err != nil {
		return nil, fmt.Errorf("watch: invalid schedule %q: %w", opts.Schedule, err)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.New("", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Watcher{
		backend:  opts.Backend,
		notifier: notifier,
		logger:   logger,
		schedule: opts.Schedule,
		sched:    sched,
		sync:     opts.Sync,
		out:      out,
		notified: make(map[int]string),
	}, nil
}

// Run loops until ctx is cancelled, firing one cycle per cron tick. A 401
// from the backend stops the watcher: the session is gone and only a fresh
// login can fix it.
func (w *Watcher) Run(ctx context.Context) error {
	fmt.Fprintf(w.out, "Watching (schedule %s)...\n", w.schedule)

	// Prime the notified set so a fresh start doesn't replay every
	// already-pending conversation.
	if err := w.prime(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("watch: session expired, run `hd login`: %w", err)
		}
		w.logger.Warn("watch prime failed", zap.Error(err))
	}

	for {
		d := untilNext(w.sched, time.Now())
		if d <= 0 {
			d = time.Minute
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(d):
		}

		if err := w.Cycle(ctx); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return fmt.Errorf("watch: session expired, run `hd login`: %w", err)
			}
			w.logger.Warn("watch cycle failed", zap.Error(err))
		}
	}
}

// prime records the current needs-attention set without notifying.
func (w *Watcher) prime(ctx context.Context) error {
	convs, err := w.backend.Conversations(ctx)
	if err != nil {
		return err
	}
	for _, c := range convs {
		if c.NeedsAttention {
			w.notified[c.ReservationID] = c.LastMessageTime
		}
	}
	return nil
}

// Cycle runs one watch iteration: optional syncs, then a conversation poll.
func (w *Watcher) Cycle(ctx context.Context) error {
	if w.sync {
		if _, err := w.backend.SyncListings(ctx); err != nil {
			return fmt.Errorf("watch: sync listings: %w", err)
		}
		if _, err := w.backend.SyncReservations(ctx); err != nil {
			return fmt.Errorf("watch: sync reservations: %w", err)
		}
	}

	convs, err := w.backend.Conversations(ctx)
	if err != nil {
		return fmt.Errorf("watch: conversations: %w", err)
	}

	for _, c := range convs {
		if !c.NeedsAttention {
			continue
		}
		if w.notified[c.ReservationID] == c.LastMessageTime {
			continue
		}
		w.notified[c.ReservationID] = c.LastMessageTime

		urgent := IsEmergency(c.LastMessagePreview)
		w.logger.Info("guest needs attention",
			zap.Int("reservation_id", c.ReservationID),
			zap.String("guest", c.GuestName),
			zap.Bool("urgent", urgent),
		)
		fmt.Fprintf(w.out, "%s (%s): %s\n", c.GuestName, c.ListingName, c.LastMessagePreview)
		w.notifier.Notify(notify.Notification{
			Title:     "New message from " + c.GuestName,
			Body:      c.LastMessagePreview,
			GuestName: c.GuestName,
			House:     c.HouseCode,
			Urgent:    urgent,
		})
	}
	return nil
}
