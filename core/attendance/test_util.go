package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type serviceMock struct {
	service
}

// NewServiceMock dispatches notifications synchronously so tests can
// assert on sent messages right after Mark returns.
func NewServiceMock(repo Repository, notifier *Notifier) ServiceInterface {
	return &serviceMock{service: service{repo: repo, notifier: notifier}}
}

func (svc *serviceMock) Mark(ctx context.Context, na NewAttendance) (Record, error) {
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

	// run synchronously
	svc.notifier.dispatch(ctx, rec)
	return rec, nil
}

// MockStudent links a student to their user and class for the in-memory repository.
type MockStudent struct {
	UserID  string
	ClassID string
}

// RepositoryMock is an in-memory Repository for tests.
type RepositoryMock struct {
	mu        sync.Mutex
	Records   []Record
	Contacts  map[string]StudentContact
	Students  map[string]MockStudent
	CreateErr error
}

var _ Repository = (*RepositoryMock)(nil)

func NewRepositoryMock() *RepositoryMock {
	return &RepositoryMock{
		Contacts: make(map[string]StudentContact),
		Students: make(map[string]MockStudent),
	}
}

func (repo *RepositoryMock) CreateAttendance(_ context.Context, rec Record) (Record, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.CreateErr != nil {
		return Record{}, repo.CreateErr
	}
	rec.ID = uuid.New().String()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	repo.Records = append(repo.Records, rec)
	return rec, nil
}

func (repo *RepositoryMock) GetStudentContact(_ context.Context, studentID string) (StudentContact, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	contact, ok := repo.Contacts[studentID]
	if !ok {
		return StudentContact{}, ErrStudentNotFound
	}
	return contact, nil
}

func (repo *RepositoryMock) GetStudentStatusCounts(_ context.Context, studentID string) (map[Status]int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	counts := make(map[Status]int)
	for _, rec := range repo.Records {
		if rec.StudentID == studentID {
			counts[rec.Status]++
		}
	}
	return counts, nil
}

func (repo *RepositoryMock) FilterClassAttendance(_ context.Context, classID string, date time.Time) ([]ClassRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	day := date.Format("2006-01-02")
	recs := make([]ClassRecord, 0)
	for _, rec := range repo.Records {
		student, ok := repo.Students[rec.StudentID]
		if !ok || student.ClassID != classID {
			continue
		}
		if rec.Date.Format("2006-01-02") != day {
			continue
		}
		recs = append(recs, ClassRecord{Record: rec, StudentUserID: student.UserID})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.Before(recs[j].CreatedAt) })
	return recs, nil
}
