package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maischool/eduflow/core"
)

func newTestService(repo Repository) *service {
	notifier := NewNotifier(repo, nopMailService{}, nopSender{}, nopSender{}, core.NopLogger{})
	return NewService(repo, notifier)
}

// nopMailService / nopSender succeed silently; notification outcomes are
// covered in notify_test.go.
type nopMailService struct{}

func (nopMailService) Send(*core.EmailMessage) core.SendResult {
	return core.SendResult{Success: true}
}
func (nopMailService) SendMessages(...*core.EmailMessage) {}

type nopSender struct{}

func (nopSender) Send(to, body string) core.SendResult { return core.SendResult{Success: true} }

func Test_service_Mark(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryMock()
	svc := newTestService(repo)

	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	rec, err := svc.Mark(ctx, NewAttendance{
		StudentID:  "stu-1",
		Date:       date,
		Status:     StatusLate,
		Remarks:    "bus delay",
		RecordedBy: "teacher-1",
	})
	if err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "stu-1", rec.StudentID)
	assert.Equal(t, StatusLate, rec.Status)
	assert.True(t, rec.Date.Equal(date))
	assert.Equal(t, "bus delay", rec.Remarks.String)
	assert.Equal(t, "teacher-1", rec.RecordedBy.String)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Len(t, repo.Records, 1)
}

func Test_service_Mark_defaultsDateToToday(t *testing.T) {
	repo := NewRepositoryMock()
	svc := newTestService(repo)

	rec, err := svc.Mark(context.Background(), NewAttendance{StudentID: "stu-1", Status: StatusPresent})
	if err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}
	assert.WithinDuration(t, time.Now().UTC(), rec.Date, time.Minute)
}

func Test_service_Mark_validation(t *testing.T) {
	tests := []struct {
		name string
		na   NewAttendance
	}{
		{name: "missing student_id", na: NewAttendance{Status: StatusPresent}},
		{name: "missing status", na: NewAttendance{StudentID: "stu-1"}},
		{name: "invalid status", na: NewAttendance{StudentID: "stu-1", Status: "excused"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewRepositoryMock()
			svc := newTestService(repo)

			_, err := svc.Mark(context.Background(), tt.na)
			var vErr *core.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Empty(t, repo.Records, "no row may be written on validation failure")
		})
	}
}

func Test_service_Stats(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryMock()
	svc := newTestService(repo)

	seed := func(studentID string, status Status, n int) {
		for i := 0; i < n; i++ {
			_, err := repo.CreateAttendance(ctx, Record{StudentID: studentID, Date: time.Now(), Status: status})
			if err != nil {
				t.Fatalf("seed failed: %v", err)
			}
		}
	}
	seed("stu-1", StatusPresent, 3)
	seed("stu-1", StatusAbsent, 1)
	seed("stu-2", StatusPresent, 1)
	seed("stu-2", StatusLate, 2)

	tests := []struct {
		name      string
		studentID string
		want      Stats
	}{
		{name: "3 present 1 absent", studentID: "stu-1", want: Stats{Present: 3, Absent: 1, Total: 4, Percentage: 75}},
		{name: "rounding 1/3", studentID: "stu-2", want: Stats{Present: 1, Late: 2, Total: 3, Percentage: 33}},
		{name: "no records", studentID: "stu-404", want: Stats{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := svc.Stats(ctx, tt.studentID)
			if err != nil {
				t.Fatalf("Stats() failed: %v", err)
			}
			assert.Equal(t, tt.want, stats)
		})
	}
}

func Test_service_History(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryMock()
	svc := newTestService(repo)

	repo.Students["stu-1"] = MockStudent{UserID: "usr-1", ClassID: "class-A"}
	repo.Students["stu-2"] = MockStudent{UserID: "usr-2", ClassID: "class-A"}
	repo.Students["stu-3"] = MockStudent{UserID: "usr-3", ClassID: "class-B"}

	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	otherDay := day.AddDate(0, 0, 1)

	mk := func(studentID string, date time.Time, status Status, createdAt time.Time) {
		_, err := repo.CreateAttendance(ctx, Record{StudentID: studentID, Date: date, Status: status, CreatedAt: createdAt})
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	now := time.Now().UTC()
	mk("stu-2", day, StatusAbsent, now.Add(2*time.Second))
	mk("stu-1", day, StatusPresent, now.Add(1*time.Second))
	mk("stu-1", otherDay, StatusLate, now) // other day
	mk("stu-3", day, StatusPresent, now)   // other class

	recs, err := svc.History(ctx, "class-A", day)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if assert.Len(t, recs, 2) {
		// insertion order
		assert.Equal(t, "stu-1", recs[0].StudentID)
		assert.Equal(t, "usr-1", recs[0].StudentUserID)
		assert.Equal(t, "stu-2", recs[1].StudentID)
	}

	recs, err = svc.History(ctx, "class-C", day)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	assert.Empty(t, recs)
}
