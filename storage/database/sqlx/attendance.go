package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/maischool/eduflow/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) CreateAttendance(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	const q = `
		INSERT INTO attendance (student_id, date, status, remarks, recorded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, student_id, date, status, remarks, recorded_by, created_at`

	var created attendance.Record
	err := repo.db.GetContext(ctx, &created, q, rec.StudentID, rec.Date, rec.Status, rec.Remarks, rec.RecordedBy)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "inserting attendance")
	}
	return created, nil
}

func (repo attendanceRepository) GetStudentContact(ctx context.Context, studentID string) (attendance.StudentContact, error) {
	const q = `
		SELECT s.id,
		       u.full_name AS student_name,
		       p.full_name AS parent_name,
		       p.email     AS parent_email,
		       p.phone     AS parent_phone
		FROM students s
		JOIN users u ON s.user_id = u.id
		LEFT JOIN parents p ON s.parent_id = p.id
		WHERE s.id = $1`

	var contact attendance.StudentContact
	if err := repo.db.GetContext(ctx, &contact, q, studentID); err != nil {
		if err == sql.ErrNoRows {
			return attendance.StudentContact{}, attendance.ErrStudentNotFound
		}
		return attendance.StudentContact{}, errors.Wrap(err, "selecting student contact")
	}
	return contact, nil
}

func (repo attendanceRepository) GetStudentStatusCounts(ctx context.Context, studentID string) (map[attendance.Status]int, error) {
	const q = `SELECT status, COUNT(*) AS count FROM attendance WHERE student_id = $1 GROUP BY status`

	rows := []struct {
		Status attendance.Status `db:"status"`
		Count  int               `db:"count"`
	}{}
	if err := repo.db.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "counting attendance by status")
	}

	counts := make(map[attendance.Status]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (repo attendanceRepository) FilterClassAttendance(ctx context.Context, classID string, date time.Time) ([]attendance.ClassRecord, error) {
	const q = `
		SELECT a.id, a.student_id, a.date, a.status, a.remarks, a.recorded_by, a.created_at,
		       s.user_id
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		WHERE s.class_id = $1 AND a.date = $2::date
		ORDER BY a.created_at`

	recs := make([]attendance.ClassRecord, 0)
	if err := repo.db.SelectContext(ctx, &recs, q, classID, date); err != nil {
		return nil, errors.Wrap(err, "selecting class attendance")
	}
	return recs, nil
}
