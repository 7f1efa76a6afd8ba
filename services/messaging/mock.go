package messagingsvc

import (
	"fmt"
	"sync"
	"time"

	"github.com/maischool/eduflow/core"
)

// SentMessage is one message captured by the mock sender.
type SentMessage struct {
	To   string
	Body string
}

type mockSender struct {
	idPrefix string // "sms" | "wa"
	logger   core.Logger

	mu   sync.Mutex
	sent []SentMessage
}

var _ core.MessageSender = (*mockSender)(nil)

func newMockSender(idPrefix string, logger core.Logger) *mockSender {
	return &mockSender{idPrefix: idPrefix, logger: logger}
}

// NewMockSender is exported for tests.
func NewMockSender(idPrefix string, logger core.Logger) *mockSender {
	return newMockSender(idPrefix, logger)
}

func (svc *mockSender) Send(to, body string) core.SendResult {
	svc.mu.Lock()
	svc.sent = append(svc.sent, SentMessage{To: to, Body: body})
	svc.mu.Unlock()

	svc.logger.Info(fmt.Sprintf("[Mock %s] To: %s, Message: %s", svc.idPrefix, to, body))
	return core.SendResult{
		Success:   true,
		MessageID: fmt.Sprintf("mock-%s-%d", svc.idPrefix, time.Now().UnixNano()),
	}
}

// Sent returns a snapshot of everything the mock has "sent".
func (svc *mockSender) Sent() []SentMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]SentMessage, len(svc.sent))
	copy(out, svc.sent)
	return out
}
