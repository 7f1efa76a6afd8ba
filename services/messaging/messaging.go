// Package messagingsvc provides the SMS and WhatsApp senders. Both route
// through the same Twilio account; when no credentials are configured they
// fall back to a mock that logs and succeeds, so the attendance flow can
// run in environments without a messaging account.
package messagingsvc

import (
	"strings"

	"github.com/maischool/eduflow/core"
)

const whatsAppPrefix = "whatsapp:"

// EnsureWhatsAppPrefix applies the channel prefix exactly once.
func EnsureWhatsAppPrefix(number string) string {
	if strings.HasPrefix(number, whatsAppPrefix) {
		return number
	}
	return whatsAppPrefix + number
}

// NewSMSSender returns the Twilio SMS sender, or the mock when the account
// credentials or the sender number are missing.
func NewSMSSender(conf *core.Config, logger core.Logger) core.MessageSender {
	if conf.Twilio.AccountSID != "" && conf.Twilio.AuthToken != "" && conf.Twilio.FromNumber != "" {
		return newTwilioSender(conf, conf.Twilio.FromNumber, "SMS", logger)
	}
	logger.Info("Twilio credentials missing, using mock SMS sender")
	return newMockSender("sms", logger)
}

// NewWhatsAppSender returns the Twilio WhatsApp sender, or the mock when
// the account credentials or the WhatsApp number are missing.
func NewWhatsAppSender(conf *core.Config, logger core.Logger) core.MessageSender {
	if conf.Twilio.AccountSID != "" && conf.Twilio.AuthToken != "" && conf.Twilio.WhatsAppNumber != "" {
		svc := newTwilioSender(conf, EnsureWhatsAppPrefix(conf.Twilio.WhatsAppNumber), "WhatsApp", logger)
		svc.toPrefix = EnsureWhatsAppPrefix
		return svc
	}
	logger.Info("Twilio credentials missing, using mock WhatsApp sender")
	return newMockSender("wa", logger)
}
