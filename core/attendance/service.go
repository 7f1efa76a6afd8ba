package attendance

import (
	"context"
	"errors"
	"math"
	"time"
)

var ErrStudentNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateAttendance(ctx context.Context, rec Record) (Record, error)
		// GetStudentContact returns ErrStudentNotFound for an unknown student id.
		GetStudentContact(ctx context.Context, studentID string) (StudentContact, error)
		GetStudentStatusCounts(ctx context.Context, studentID string) (map[Status]int, error)
		// FilterClassAttendance matches the class and the exact calendar date.
		FilterClassAttendance(ctx context.Context, classID string, date time.Time) ([]ClassRecord, error)
	}

	ServiceInterface interface {
		Mark(ctx context.Context, na NewAttendance) (Record, error)
		Stats(ctx context.Context, studentID string) (Stats, error)
		History(ctx context.Context, classID string, date time.Time) ([]ClassRecord, error)
	}

	service struct {
		repo     Repository
		notifier *Notifier
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, notifier *Notifier) *service {
	return &service{repo: repo, notifier: notifier}
}

// Mark persists exactly one attendance row and queues the parent
// notification. The contract is "record persisted", not "parent notified":
// the returned record does not depend on any notification outcome.
func (svc *service) Mark(ctx context.Context, na NewAttendance) (Record, error) {
	if err := na.Validate(); err != nil {
		return Record{}, err
	}

	date := na.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	rec := Record{
		StudentID:  na.StudentID,
		Date:       date,
		Status:     na.Status,
		Remarks:    nullString(na.Remarks),
		RecordedBy: nullString(na.RecordedBy),
		CreatedAt:  time.Now().UTC(),
	}

	rec, err := svc.repo.CreateAttendance(ctx, rec)
	if err != nil {
		return Record{}, err
	}

	svc.notifier.Submit(rec)
	return rec, nil
}

// Stats aggregates all of the student's records by status. It is a
// lifetime aggregate: there is no date window.
func (svc *service) Stats(ctx context.Context, studentID string) (Stats, error) {
	counts, err := svc.repo.GetStudentStatusCounts(ctx, studentID)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Present: counts[StatusPresent],
		Absent:  counts[StatusAbsent],
		Late:    counts[StatusLate],
	}
	stats.Total = stats.Present + stats.Absent + stats.Late
	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Present) / float64(stats.Total) * 100))
	}
	return stats, nil
}

func (svc *service) History(ctx context.Context, classID string, date time.Time) ([]ClassRecord, error) {
	recs, err := svc.repo.FilterClassAttendance(ctx, classID, date)
	if err != nil {
		return nil, err
	}
	return recs, nil
}
