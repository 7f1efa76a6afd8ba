// Package emailsvc provides the outgoing email transports.
package emailsvc

import (
	"errors"
	"fmt"

	"github.com/maischool/eduflow/core"
)

// ErrDisabled is reported by every send once the transport has been
// disabled at startup.
var ErrDisabled = errors.New("outgoing email is disabled")

// NewService resolves the email transport once at startup:
//   - a Sendgrid API key selects the Sendgrid transport;
//   - an SMTP host selects the real SMTP transport, verified immediately —
//     if verification fails the service is Disabled, never silently
//     downgraded to the sandbox;
//   - no configuration at all selects the sandbox (console) transport.
func NewService(conf *core.Config, logger core.Logger) core.EmailService {
	switch {
	case conf.Email.SendgridApiKey != "":
		logger.Info("email service configured (Sendgrid)")
		return NewSendgridService(conf, logger)

	case conf.Email.SMTPHost != "":
		svc, err := NewSMTPService(conf, logger)
		if err != nil {
			// strict mode: real config was declared, do not fall back
			logger.Error(fmt.Sprintf("SMTP verification failed, outgoing email disabled: %v", err), err)
			return NewDisabledService(logger)
		}
		logger.Info("email service configured (SMTP)")
		return svc

	default:
		logger.Info("no SMTP configuration found, using sandbox email transport")
		return NewConsoleService(conf)
	}
}
