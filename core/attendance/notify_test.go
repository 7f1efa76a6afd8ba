package attendance

import (
	"context"
	"net/mail"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/maischool/eduflow/core"
	emailsvc "github.com/maischool/eduflow/services/email"
	messagingsvc "github.com/maischool/eduflow/services/messaging"
)

type senderMock interface {
	core.MessageSender
	Sent() []messagingsvc.SentMessage
}

func TestMain(m *testing.M) {
	conf := &core.Config{WorkDir: core.Getwd(), TestMode: true}
	core.ParseEmailTemplates(conf, core.NopLogger{})
	os.Exit(m.Run())
}

func newNotifyFixture(repo Repository) (ServiceInterface, senderMock, senderMock) {
	conf := &core.Config{
		AppName:          "EduFlow",
		TestMode:         true,
		DefaultFromEmail: mail.Address{Name: "EduFlow", Address: "noreply@eduflow.test"},
	}
	mailSvc := emailsvc.NewConsoleService(conf)
	smsSender := messagingsvc.NewMockSender("sms", core.NopLogger{})
	waSender := messagingsvc.NewMockSender("wa", core.NopLogger{})
	notifier := NewNotifier(repo, mailSvc, smsSender, waSender, core.NopLogger{})
	return NewServiceMock(repo, notifier), smsSender, waSender
}

func Test_Notifier_dispatch_allChannels(t *testing.T) {
	emailsvc.ClearSentMessages()
	repo := NewRepositoryMock()
	repo.Contacts["stu-1"] = StudentContact{
		StudentID:   "stu-1",
		StudentName: "Amina Yusuf",
		ParentName:  null.StringFrom("Mrs Yusuf"),
		ParentEmail: null.StringFrom("parent@test.cd"),
		ParentPhone: null.StringFrom("+243812345678"),
	}
	svc, smsSender, waSender := newNotifyFixture(repo)

	rec, err := svc.Mark(context.Background(), NewAttendance{
		StudentID: "stu-1",
		Date:      alertDate,
		Status:    StatusLate,
		Remarks:   "bus delay",
	})
	if err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}
	assert.NotEmpty(t, rec.ID)

	// email rendered through the attendance-alert template
	sent := emailsvc.GetSentMessages()
	if assert.Len(t, sent, 1) {
		msg := sent[0]
		assert.Equal(t, "parent@test.cd", msg.To[0].Address)
		assert.Equal(t, "Attendance Update: LATE - 2026-03-09", msg.Subject)
		assert.Contains(t, msg.HTMLContent, "LATE")
		assert.Contains(t, msg.HTMLContent, "#92400e") // amber badge
		assert.Contains(t, msg.HTMLContent, "bus delay")
		assert.Contains(t, msg.TextContent, "Amina Yusuf")
	}

	// one SMS and one WhatsApp, same text
	wantText := "Attendance Alert: Amina Yusuf is marked LATE on 3/9/2026. Remarks: bus delay"
	if assert.Len(t, smsSender.Sent(), 1) {
		assert.Equal(t, "+243812345678", smsSender.Sent()[0].To)
		assert.Equal(t, wantText, smsSender.Sent()[0].Body)
	}
	if assert.Len(t, waSender.Sent(), 1) {
		assert.Equal(t, wantText, waSender.Sent()[0].Body)
	}
}

func Test_Notifier_dispatch_emailOnly(t *testing.T) {
	emailsvc.ClearSentMessages()
	repo := NewRepositoryMock()
	repo.Contacts["stu-1"] = StudentContact{
		StudentID:   "stu-1",
		StudentName: "Amina Yusuf",
		ParentEmail: null.StringFrom("parent@test.cd"),
	}
	svc, smsSender, waSender := newNotifyFixture(repo)

	_, err := svc.Mark(context.Background(), NewAttendance{StudentID: "stu-1", Status: StatusPresent})
	if err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}

	assert.Len(t, emailsvc.GetSentMessages(), 1)
	assert.Empty(t, smsSender.Sent())
	assert.Empty(t, waSender.Sent())
}

func Test_Notifier_dispatch_noContact(t *testing.T) {
	emailsvc.ClearSentMessages()

	tests := []struct {
		name     string
		contacts map[string]StudentContact
	}{
		{name: "unknown student", contacts: nil},
		{name: "no parent link", contacts: map[string]StudentContact{
			"stu-1": {StudentID: "stu-1", StudentName: "Amina Yusuf"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewRepositoryMock()
			for id, c := range tt.contacts {
				repo.Contacts[id] = c
			}
			svc, smsSender, waSender := newNotifyFixture(repo)

			// marking still succeeds; there is just nobody to notify
			rec, err := svc.Mark(context.Background(), NewAttendance{StudentID: "stu-1", Status: StatusAbsent})
			if err != nil {
				t.Fatalf("Mark() failed: %v", err)
			}
			assert.NotEmpty(t, rec.ID)

			assert.Empty(t, emailsvc.GetSentMessages())
			assert.Empty(t, smsSender.Sent())
			assert.Empty(t, waSender.Sent())
		})
	}
}

func Test_Notifier_dispatch_remarksOmittedFromEmail(t *testing.T) {
	emailsvc.ClearSentMessages()
	repo := NewRepositoryMock()
	repo.Contacts["stu-1"] = StudentContact{
		StudentID:   "stu-1",
		StudentName: "Amina Yusuf",
		ParentEmail: null.StringFrom("parent@test.cd"),
	}
	svc, _, _ := newNotifyFixture(repo)

	_, err := svc.Mark(context.Background(), NewAttendance{StudentID: "stu-1", Status: StatusPresent})
	if err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}

	sent := emailsvc.GetSentMessages()
	if assert.Len(t, sent, 1) {
		assert.False(t, strings.Contains(sent[0].HTMLContent, "Remarks"), "empty remarks must hide the remarks row")
	}
}
