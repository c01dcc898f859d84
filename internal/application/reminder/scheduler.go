package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/student-bubble/internal/domain"
)

const sendTimeout = 30 * time.Second

type mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Task is the handle for one armed reminder. It fires at most once and
// cannot be cancelled. Reminders live only in process memory.
type Task struct {
	fireAt  time.Time
	payload domain.ReminderPayload
	done    chan struct{}
	err     error
}

func (t *Task) FireAt() time.Time               { return t.fireAt }
func (t *Task) Payload() domain.ReminderPayload { return t.payload }

// Done is closed once the send attempt has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err is the send result. Only meaningful after Done is closed.
func (t *Task) Err() error { return t.err }

// Scheduler arms one-shot reminder emails.
type Scheduler struct {
	mailer  mailer
	clock   clockwork.Clock
	pending atomic.Int64
}

func NewScheduler(m mailer, clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{mailer: m, clock: clock}
}

// Schedule arms a reminder for fireAt. A fireAt that is not in the future is
// dropped silently and reported as not armed.
func (s *Scheduler) Schedule(fireAt time.Time, payload domain.ReminderPayload) (*Task, bool) {
	delay := fireAt.Sub(s.clock.Now())
	if delay <= 0 {
		slog.Debug("reminder past due, skipped", "to", payload.To, "fire_at", fireAt)
		return nil, false
	}
	t := &Task{fireAt: fireAt, payload: payload, done: make(chan struct{})}
	s.pending.Add(1)
	s.clock.AfterFunc(delay, func() { s.fire(t) })
	slog.Info("reminder armed", "to", payload.To, "fire_at", fireAt, "delay", delay)
	return t, true
}

// Pending returns the number of armed reminders that have not fired yet.
func (s *Scheduler) Pending() int {
	return int(s.pending.Load())
}

func (s *Scheduler) fire(t *Task) {
	defer close(t.done)
	defer s.pending.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			t.err = fmt.Errorf("reminder panicked: %v", r)
			slog.Error("reminder panicked", "to", t.payload.To, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := s.mailer.SendEmail(ctx, t.payload.To, t.payload.Subject, t.payload.Body); err != nil {
		t.err = fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
		slog.Error("reminder email failed", "to", t.payload.To, "subject", t.payload.Subject, "err", err)
		return
	}
	slog.Info("reminder email sent", "to", t.payload.To, "subject", t.payload.Subject)
}
