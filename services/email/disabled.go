package emailsvc

import (
	"fmt"

	"github.com/maischool/eduflow/core"
)

// disabledService reports failure for every send. It is selected when real
// SMTP configuration is present but could not be verified at startup.
type disabledService struct {
	logger core.Logger
}

var _ core.EmailService = (*disabledService)(nil)

func NewDisabledService(logger core.Logger) core.EmailService {
	return &disabledService{logger: logger}
}

func (svc disabledService) Send(msg *core.EmailMessage) core.SendResult {
	svc.logger.Warn(fmt.Sprintf("email service disabled, dropping %q", msg.Subject))
	return core.SendResult{Err: ErrDisabled}
}

func (svc disabledService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		_ = svc.Send(msg)
	}
}
