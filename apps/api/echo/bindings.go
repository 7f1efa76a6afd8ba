package echoapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maischool/eduflow/core"
)

const dateLayout = "2006-01-02"

type (
	MarkAttendanceRequest struct {
		StudentID  string `json:"student_id" validate:"required"`
		Date       string `json:"date"`
		Status     string `json:"status" validate:"required"`
		Remarks    string `json:"remarks"`
		RecordedBy string `json:"recorded_by"`
	}

	SendEmailRequest struct {
		To      string `json:"to" validate:"required,email"`
		Subject string `json:"subject" validate:"required"`
		Text    string `json:"text" validate:"required"`
	}

	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	RegisterRequest struct {
		Username string `json:"username" validate:"required,alphanum_"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"required"`
		FullName string `json:"full_name" validate:"required"`
	}
)

func (r *MarkAttendanceRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// ParseDate interprets the optional date field as a calendar day.
// An empty value means "today" and is resolved downstream.
func (r *MarkAttendanceRequest) ParseDate() (time.Time, error) {
	if r.Date == "" {
		return time.Time{}, nil
	}
	return parseDate(r.Date)
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, core.NewValidationError(errors.New("invalid date; expected YYYY-MM-DD"), core.FieldError{
			Field: "date",
			Error: "invalid date; expected YYYY-MM-DD",
		})
	}
	return date, nil
}

func (r *SendEmailRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r *RegisterRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
