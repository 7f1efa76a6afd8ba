package messagingsvc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maischool/eduflow/core"
)

func Test_EnsureWhatsAppPrefix(t *testing.T) {
	assert.Equal(t, "whatsapp:+14155238886", EnsureWhatsAppPrefix("+14155238886"))
	// already prefixed numbers are left alone
	assert.Equal(t, "whatsapp:+14155238886", EnsureWhatsAppPrefix("whatsapp:+14155238886"))
}

func Test_senderFactories_fallBackToMock(t *testing.T) {
	tests := []struct {
		name string
		conf *core.Config
	}{
		{name: "no credentials at all", conf: &core.Config{}},
		{name: "missing auth token", conf: confWith(func(c *core.Config) { c.Twilio.AuthToken = "" })},
		{name: "missing sender numbers", conf: confWith(func(c *core.Config) {
			c.Twilio.FromNumber = ""
			c.Twilio.WhatsAppNumber = ""
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := NewSMSSender(tt.conf, core.NopLogger{}).(*mockSender); !ok {
				t.Error("NewSMSSender() did not fall back to the mock")
			}
			if _, ok := NewWhatsAppSender(tt.conf, core.NopLogger{}).(*mockSender); !ok {
				t.Error("NewWhatsAppSender() did not fall back to the mock")
			}
		})
	}
}

func Test_senderFactories_twilio(t *testing.T) {
	conf := confWith(nil)

	sms, ok := NewSMSSender(conf, core.NopLogger{}).(*twilioSender)
	if !ok {
		t.Fatal("NewSMSSender() did not return the Twilio sender")
	}
	assert.Equal(t, "+14155550100", sms.from)

	wa, ok := NewWhatsAppSender(conf, core.NopLogger{}).(*twilioSender)
	if !ok {
		t.Fatal("NewWhatsAppSender() did not return the Twilio sender")
	}
	assert.Equal(t, "whatsapp:+14155238886", wa.from)
	// recipients get the channel prefix, exactly once
	assert.Equal(t, "whatsapp:+243812345678", wa.toPrefix("+243812345678"))
	assert.Equal(t, "whatsapp:+243812345678", wa.toPrefix("whatsapp:+243812345678"))
}

func Test_mockSender_Send(t *testing.T) {
	svc := newMockSender("sms", core.NopLogger{})

	res := svc.Send("+243812345678", "hello")
	assert.True(t, res.Success)
	assert.True(t, strings.HasPrefix(res.MessageID, "mock-sms-"))

	sent := svc.Sent()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "+243812345678", sent[0].To)
		assert.Equal(t, "hello", sent[0].Body)
	}
}

func confWith(mutate func(*core.Config)) *core.Config {
	conf := &core.Config{}
	conf.Twilio.AccountSID = "AC00000000000000000000000000000000"
	conf.Twilio.AuthToken = "token"
	conf.Twilio.FromNumber = "+14155550100"
	conf.Twilio.WhatsAppNumber = "+14155238886"
	if mutate != nil {
		mutate(conf)
	}
	return conf
}
