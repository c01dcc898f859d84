package assignment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/student-bubble/internal/application/reminder"
	"github.com/student-bubble/internal/domain"
	"github.com/student-bubble/internal/pkg/id"
	"github.com/student-bubble/internal/pkg/validate"
)

// Owner identifies the authenticated caller an assignment belongs to.
type Owner struct {
	UserID string
	Email  string
}

type Service interface {
	Save(ctx context.Context, owner Owner, req domain.CreateAssignmentRequest) (*domain.Assignment, error)
	List(ctx context.Context, userID string) ([]domain.Assignment, error)
}

type assignmentStore interface {
	Put(ctx context.Context, a *domain.Assignment) error
	ListByUser(ctx context.Context, userID string) ([]domain.Assignment, error)
}

type mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type reminderScheduler interface {
	Schedule(fireAt time.Time, payload domain.ReminderPayload) (*reminder.Task, bool)
}

type service struct {
	repo      assignmentStore
	mailer    mailer
	scheduler reminderScheduler
	clock     clockwork.Clock
	loc       *time.Location
}

type ServiceDeps struct {
	AssignmentRepo assignmentStore
	Mailer         mailer
	Scheduler      reminderScheduler
	Clock          clockwork.Clock
	// Location interprets reminder times without a zone. Defaults to time.Local.
	Location *time.Location
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:      deps.AssignmentRepo,
		mailer:    deps.Mailer,
		scheduler: deps.Scheduler,
		clock:     deps.Clock,
		loc:       deps.Location,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	return s
}

// Save stores the assignment, mails a confirmation and arms a reminder when a
// future reminder time is given. Mail failures do not fail the save.
func (s *service) Save(ctx context.Context, owner Owner, req domain.CreateAssignmentRequest) (*domain.Assignment, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	var fireAt time.Time
	if req.ReminderTime != "" {
		t, err := parseReminderTime(req.ReminderTime, s.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid reminderTime %q: %w", req.ReminderTime, domain.ErrBadRequest)
		}
		fireAt = t
	}

	a := &domain.Assignment{
		AssignmentID: id.New(),
		UserID:       owner.UserID,
		Course:       req.Course,
		Title:        req.Title,
		DueDate:      req.DueDate,
		ReminderTime: req.ReminderTime,
		Status:       domain.AssignmentStatusPending,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}

	subject, body := confirmation(a)
	if err := s.mailer.SendEmail(ctx, owner.Email, subject, body); err != nil {
		slog.Warn("assignment confirmation not sent", "assignment_id", a.AssignmentID, "to", owner.Email, "err", err)
	}

	if !fireAt.IsZero() {
		if _, armed := s.scheduler.Schedule(fireAt, reminderPayload(owner.Email, a)); !armed {
			slog.Info("reminder time already passed", "assignment_id", a.AssignmentID, "fire_at", fireAt)
		}
	}
	return a, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Assignment, error) {
	return s.repo.ListByUser(ctx, userID)
}

func confirmation(a *domain.Assignment) (subject, body string) {
	rt := a.ReminderTime
	if rt == "" {
		rt = "None"
	}
	return "Assignment Added: " + a.Title,
		fmt.Sprintf("Your assignment \"%s\" for %s was added successfully.\nReminder: %s", a.Title, a.Course, rt)
}

func reminderPayload(to string, a *domain.Assignment) domain.ReminderPayload {
	return domain.ReminderPayload{
		To:      to,
		Subject: "Reminder: " + a.Title + " due soon!",
		Body:    fmt.Sprintf("Reminder: Your assignment \"%s\" for %s is due on %s.", a.Title, a.Course, a.DueDate),
	}
}

// Browser datetime-local inputs send no zone; those are read in loc.
var reminderLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseReminderTime(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	var err error
	for _, layout := range reminderLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
