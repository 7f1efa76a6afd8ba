package emailsvc

import (
	"net/mail"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maischool/eduflow/core"
)

func TestMain(m *testing.M) {
	conf := testConfig()
	conf.WorkDir = core.Getwd()
	core.ParseEmailTemplates(conf, core.NopLogger{})
	os.Exit(m.Run())
}

func testConfig() *core.Config {
	return &core.Config{
		AppName:          "EduFlow",
		TestMode:         true,
		DefaultFromEmail: mail.Address{Name: "EduFlow", Address: "noreply@eduflow.test"},
	}
}

func Test_NewService_transportSelection(t *testing.T) {
	t.Run("sandbox by default", func(t *testing.T) {
		svc := NewService(testConfig(), core.NopLogger{})
		if _, ok := svc.(*consoleService); !ok {
			t.Errorf("NewService() = %T, want the sandbox transport", svc)
		}
	})

	t.Run("sendgrid key wins", func(t *testing.T) {
		conf := testConfig()
		conf.Email.SendgridApiKey = "SG.lol"
		conf.Email.SMTPHost = "127.0.0.1"
		svc := NewService(conf, core.NopLogger{})
		if _, ok := svc.(*sendgridService); !ok {
			t.Errorf("NewService() = %T, want the Sendgrid transport", svc)
		}
	})

	t.Run("unverifiable SMTP disables, never sandboxes", func(t *testing.T) {
		conf := testConfig()
		conf.Email.SMTPHost = "127.0.0.1"
		conf.Email.SMTPPort = 1 // nothing listens here
		svc := NewService(conf, core.NopLogger{})
		if _, ok := svc.(*disabledService); !ok {
			t.Errorf("NewService() = %T, want the disabled transport", svc)
		}
	})
}

func Test_consoleService_Send(t *testing.T) {
	ClearSentMessages()
	svc := NewConsoleService(testConfig())

	msg := core.NewNoticeEmail(mail.Address{Address: "parent@test.cd"}, "PTA Meeting", "The meeting moved to Friday.")
	res := svc.Send(msg)

	assert.True(t, res.Success)
	assert.True(t, strings.HasSuffix(res.MessageID, "@sandbox>"))
	assert.True(t, strings.HasPrefix(res.PreviewURL, "sandbox://messages/"))

	sent := GetSentMessages()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "PTA Meeting", sent[0].Subject)
		assert.Contains(t, sent[0].TextContent, "The meeting moved to Friday.")
		assert.Contains(t, sent[0].HTMLContent, "The meeting moved to Friday.")
	}
}

func Test_consoleService_Send_requiresRecipientsAndContent(t *testing.T) {
	ClearSentMessages()
	svc := NewConsoleService(testConfig())

	res := svc.Send(&core.EmailMessage{Subject: "no recipients", BodyStr: "hi"})
	assert.False(t, res.Success)
	assert.Error(t, res.Err)

	res = svc.Send(&core.EmailMessage{To: []mail.Address{{Address: "a@b.cd"}}, Subject: "no content"})
	assert.False(t, res.Success)
	assert.Empty(t, GetSentMessages())
}

func Test_disabledService_Send(t *testing.T) {
	svc := NewDisabledService(core.NopLogger{})

	res := svc.Send(core.NewNoticeEmail(mail.Address{Address: "parent@test.cd"}, "hello", "hi"))
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrDisabled)
}
