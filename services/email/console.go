package emailsvc

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/maischool/eduflow/core"
)

var (
	// SentMessages collects everything the sandbox transport "sends";
	// tests inspect it.
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

// consoleService is the sandbox transport: it writes messages to stdout
// and reports a synthetic message id and preview URL. It is selected when
// no real email configuration is present.
type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	disableOutput    bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail,
		subjPrefix:       "[" + conf.AppName + "] ",
		disableOutput:    conf.TestMode,
	}
}

func (svc consoleService) Send(msg *core.EmailMessage) core.SendResult {
	if err := msg.Render(); err != nil {
		return core.SendResult{Err: errors.Wrap(err, "rendering email")}
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return core.SendResult{Err: errors.New("email has no recipients or no content")}
	}

	id := uuid.New().String()
	if !svc.disableOutput {
		svc.print(*msg, id)
	}

	mu.Lock()
	SentMessages = append(SentMessages, *msg)
	mu.Unlock()

	return core.SendResult{
		Success:    true,
		MessageID:  fmt.Sprintf("<%s@sandbox>", id),
		PreviewURL: "sandbox://messages/" + id,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if res := svc.Send(msg); !res.Success {
				log.Printf("sandbox email: %+v", res.Err)
			}
		}()
	}
}

func (svc consoleService) print(msg core.EmailMessage, id string) {
	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "From: %s\r\n", svc.defaultFromEmail.String())
	_, _ = fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", svc.subjPrefix+msg.Subject)
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Message-Id: <%s@sandbox>\r\n", id)
	_, _ = fmt.Fprint(body, "\r\n")
	_, _ = fmt.Fprint(body, msg.TextContent)
	_, _ = fmt.Fprint(body, "\r\n", strings.Repeat("-", 79), "\r\n")
	log.Print(body.String())
}

// ClearSentMessages empties the capture buffer between tests.
func ClearSentMessages() {
	mu.Lock()
	SentMessages = SentMessages[:0]
	mu.Unlock()
}

// GetSentMessages returns a snapshot of the capture buffer.
func GetSentMessages() []core.EmailMessage {
	mu.Lock()
	defer mu.Unlock()
	out := make([]core.EmailMessage, len(SentMessages))
	copy(out, SentMessages)
	return out
}
