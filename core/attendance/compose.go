package attendance

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/maischool/eduflow/core"
)

// badge palette per status (text / background)
var statusColors = map[Status][2]string{
	StatusPresent: {"#166534", "#dcfce7"}, // green
	StatusAbsent:  {"#991b1b", "#fee2e2"}, // red
	StatusLate:    {"#92400e", "#fef3c7"}, // amber
}

// alertData feeds the attendance-alert email templates.
type alertData struct {
	StudentName string
	Status      string // upper-cased
	BadgeColor  string
	BadgeBg     string
	Date        string
	Remarks     string // empty hides the remarks row
	Year        int
}

// AlertSubject embeds the upper-cased status and the calendar date.
func AlertSubject(status Status, date time.Time) string {
	return fmt.Sprintf("Attendance Update: %s - %s", strings.ToUpper(string(status)), date.Format("2006-01-02"))
}

// AlertText is the single-line SMS/WhatsApp message for an attendance event.
func AlertText(studentName string, status Status, date time.Time, remarks string) string {
	if remarks == "" {
		remarks = "None"
	}
	return fmt.Sprintf(
		"Attendance Alert: %s is marked %s on %s. Remarks: %s",
		studentName, strings.ToUpper(string(status)), date.Format("1/2/2006"), remarks,
	)
}

// NewAlertEmail composes the parent-facing attendance email. It is a pure
// function of its inputs; rendering happens in the email service.
func NewAlertEmail(contact StudentContact, status Status, date time.Time, remarks string) *core.EmailMessage {
	colors := statusColors[status]
	return &core.EmailMessage{
		To:           []mail.Address{{Name: contact.ParentName.String, Address: contact.ParentEmail.String}},
		Subject:      AlertSubject(status, date),
		TemplateName: "attendance-alert",
		TemplateData: alertData{
			StudentName: contact.StudentName,
			Status:      strings.ToUpper(string(status)),
			BadgeColor:  colors[0],
			BadgeBg:     colors[1],
			Date:        date.Format("Monday, January 2, 2006"),
			Remarks:     remarks,
			Year:        date.Year(),
		},
	}
}
