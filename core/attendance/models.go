package attendance

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/maischool/eduflow/core"
)

// Status of a student on a given day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

var AllStatuses = []Status{StatusPresent, StatusAbsent, StatusLate}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// Record is one attendance mark. Records are append-only: they are never
// updated or deleted, and nothing de-duplicates repeat marks for the same
// student and day.
type Record struct {
	ID         string      `db:"id" json:"id"`
	StudentID  string      `db:"student_id" json:"student_id"`
	Date       time.Time   `db:"date" json:"date"`
	Status     Status      `db:"status" json:"status"`
	Remarks    null.String `db:"remarks" json:"remarks"`
	RecordedBy null.String `db:"recorded_by" json:"recorded_by"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"` // UTC
}

// ClassRecord is a Record joined with the student's user id,
// as returned by the class history query.
type ClassRecord struct {
	Record
	StudentUserID string `db:"user_id" json:"user_id"`
}

// StudentContact is the read projection used for notification dispatch:
// student → user (full name) → optional parent (email/phone). A student
// without a parent link has all parent fields null; that is a valid state,
// not an error.
type StudentContact struct {
	StudentID   string      `db:"id" json:"student_id"`
	StudentName string      `db:"student_name" json:"student_name"`
	ParentName  null.String `db:"parent_name" json:"parent_name"`
	ParentEmail null.String `db:"parent_email" json:"parent_email"`
	ParentPhone null.String `db:"parent_phone" json:"parent_phone"`
}

// Reachable reports whether at least one notification channel applies.
func (c StudentContact) Reachable() bool {
	return c.ParentEmail.String != "" || c.ParentPhone.String != ""
}

// Stats is the lifetime attendance aggregate for one student.
type Stats struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Late       int `json:"late"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"` // round(present/total*100); 0 when total is 0
}

// NewAttendance is the input to Service.Mark.
type NewAttendance struct {
	StudentID  string    `json:"student_id"`
	Date       time.Time `json:"date"` // zero means "now"
	Status     Status    `json:"status"`
	Remarks    string    `json:"remarks"`
	RecordedBy string    `json:"recorded_by"`
}

// Validate fails fast on missing or invalid fields instead of relying on
// the storage constraint to reject the row.
func (na NewAttendance) Validate() error {
	var flds []core.FieldError
	if na.StudentID == "" {
		flds = append(flds, core.FieldError{Field: "student_id", Error: "this field is required"})
	}
	if na.Status == "" {
		flds = append(flds, core.FieldError{Field: "status", Error: "this field is required"})
	} else if !na.Status.Valid() {
		flds = append(flds, core.FieldError{
			Field: "status",
			Error: fmt.Sprintf("must be one of %v", AllStatuses),
		})
	}
	if len(flds) > 0 {
		return core.NewValidationError(errors.New("invalid attendance record"), flds...)
	}
	return nil
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}
