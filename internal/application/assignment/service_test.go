package assignment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/student-bubble/internal/application/reminder"
	"github.com/student-bubble/internal/domain"
)

type mockAssignmentStore struct{ mock.Mock }

func (m *mockAssignmentStore) Put(ctx context.Context, a *domain.Assignment) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAssignmentStore) ListByUser(ctx context.Context, userID string) ([]domain.Assignment, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]domain.Assignment)
	return items, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type mockScheduler struct{ mock.Mock }

func (m *mockScheduler) Schedule(fireAt time.Time, payload domain.ReminderPayload) (*reminder.Task, bool) {
	args := m.Called(fireAt, payload)
	task, _ := args.Get(0).(*reminder.Task)
	return task, args.Bool(1)
}

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

var owner = Owner{UserID: "u1", Email: "ann@uni.edu"}

func newTestService(repo *mockAssignmentStore, ml *mockMailer, sch *mockScheduler) Service {
	return NewService(ServiceDeps{
		AssignmentRepo: repo,
		Mailer:         ml,
		Scheduler:      sch,
		Clock:          clockwork.NewFakeClockAt(t0),
		Location:       time.UTC,
	})
}

func TestSave_MissingFields(t *testing.T) {
	_, err := newTestService(&mockAssignmentStore{}, nil, nil).Save(context.Background(), owner,
		domain.CreateAssignmentRequest{Title: "Essay"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestSave_BadReminderTime(t *testing.T) {
	repo := &mockAssignmentStore{}
	_, err := newTestService(repo, nil, nil).Save(context.Background(), owner, domain.CreateAssignmentRequest{
		Course: "CS101", Title: "Essay", DueDate: "2025-03-10", ReminderTime: "next tuesday",
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestSave_PendingWithConfirmationAndReminder(t *testing.T) {
	repo, ml, sch := &mockAssignmentStore{}, &mockMailer{}, &mockScheduler{}
	repo.On("Put", mock.Anything, mock.MatchedBy(func(a *domain.Assignment) bool {
		return a.UserID == "u1" && a.Status == domain.AssignmentStatusPending && a.AssignmentID != ""
	})).Return(nil)
	ml.On("SendEmail", mock.Anything, "ann@uni.edu", "Assignment Added: Essay",
		"Your assignment \"Essay\" for CS101 was added successfully.\nReminder: 2025-03-05T08:00").Return(nil)
	sch.On("Schedule", time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC), domain.ReminderPayload{
		To:      "ann@uni.edu",
		Subject: "Reminder: Essay due soon!",
		Body:    "Reminder: Your assignment \"Essay\" for CS101 is due on 2025-03-10.",
	}).Return(nil, true)

	a, err := newTestService(repo, ml, sch).Save(context.Background(), owner, domain.CreateAssignmentRequest{
		Course: "CS101", Title: "Essay", DueDate: "2025-03-10", ReminderTime: "2025-03-05T08:00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentStatusPending, a.Status)
	assert.Equal(t, t0, a.CreatedAt)
	repo.AssertExpectations(t)
	ml.AssertExpectations(t)
	sch.AssertExpectations(t)
}

func TestSave_NoReminderTime(t *testing.T) {
	repo, ml, sch := &mockAssignmentStore{}, &mockMailer{}, &mockScheduler{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", mock.Anything, "ann@uni.edu", mock.Anything,
		mock.MatchedBy(func(body string) bool { return body[len(body)-len("Reminder: None"):] == "Reminder: None" })).Return(nil)

	_, err := newTestService(repo, ml, sch).Save(context.Background(), owner, domain.CreateAssignmentRequest{
		Course: "CS101", Title: "Essay", DueDate: "2025-03-10",
	})
	require.NoError(t, err)
	sch.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything)
}

func TestSave_ConfirmationFailureIsNotFatal(t *testing.T) {
	repo, ml, sch := &mockAssignmentStore{}, &mockMailer{}, &mockScheduler{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	sch.On("Schedule", mock.Anything, mock.Anything).Return(nil, false)

	a, err := newTestService(repo, ml, sch).Save(context.Background(), owner, domain.CreateAssignmentRequest{
		Course: "CS101", Title: "Essay", DueDate: "2025-03-10", ReminderTime: "2025-02-01T08:00:00Z",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.AssignmentID)
}

func TestSave_StoreFailureSendsNothing(t *testing.T) {
	repo, ml, sch := &mockAssignmentStore{}, &mockMailer{}, &mockScheduler{}
	repo.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	_, err := newTestService(repo, ml, sch).Save(context.Background(), owner, domain.CreateAssignmentRequest{
		Course: "CS101", Title: "Essay", DueDate: "2025-03-10", ReminderTime: "2025-03-05T08:00",
	})
	require.Error(t, err)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	sch.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything)
}

// Wires a real scheduler to check the reminder actually goes out at the chosen time.
func TestSave_ReminderFiresThroughScheduler(t *testing.T) {
	fc := clockwork.NewFakeClockAt(t0)
	sent := make(chan string, 2)
	ml := &mockMailer{}
	ml.On("SendEmail", mock.Anything, "ann@uni.edu", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent <- args.String(2) }).Return(nil)
	repo := &mockAssignmentStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	sch := reminder.NewScheduler(ml, fc)

	svc := NewService(ServiceDeps{AssignmentRepo: repo, Mailer: ml, Scheduler: sch, Clock: fc, Location: time.UTC})
	_, err := svc.Save(context.Background(), owner, domain.CreateAssignmentRequest{
		Course: "CS101", Title: "Essay", DueDate: "2025-03-10", ReminderTime: "2025-03-01T09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "Assignment Added: Essay", <-sent)
	assert.Equal(t, 1, sch.Pending())

	fc.Advance(30 * time.Minute)
	select {
	case subject := <-sent:
		assert.Equal(t, "Reminder: Essay due soon!", subject)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder not sent")
	}
}

func TestParseReminderTime(t *testing.T) {
	want := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)
	for _, v := range []string{"2025-03-05T08:00:00Z", "2025-03-05T08:00:00", "2025-03-05T08:00"} {
		got, err := parseReminderTime(v, time.UTC)
		require.NoError(t, err, v)
		assert.True(t, got.Equal(want), v)
	}
	_, err := parseReminderTime("05/03/2025", time.UTC)
	assert.Error(t, err)
}

func TestList_Delegates(t *testing.T) {
	repo := &mockAssignmentStore{}
	repo.On("ListByUser", mock.Anything, "u1").Return([]domain.Assignment{{AssignmentID: "a1"}}, nil)

	items, err := newTestService(repo, nil, nil).List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
