package emailsvc

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime/quotedprintable"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/maischool/eduflow/core"
)

type smtpService struct {
	host       string
	addr       string
	secure     bool // implicit TLS; otherwise STARTTLS is attempted
	auth       smtp.Auth
	from       mail.Address
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*smtpService)(nil)

// NewSMTPService builds the real SMTP transport and verifies the
// connection before accepting any message.
func NewSMTPService(conf *core.Config, logger core.Logger) (*smtpService, error) {
	svc := &smtpService{
		host:       conf.Email.SMTPHost,
		addr:       fmt.Sprintf("%s:%d", conf.Email.SMTPHost, conf.Email.SMTPPort),
		secure:     conf.Email.SMTPSecure,
		from:       conf.DefaultFromEmail,
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
	if conf.Email.SMTPUser != "" {
		svc.auth = smtp.PlainAuth("", conf.Email.SMTPUser, conf.Email.SMTPPassword, conf.Email.SMTPHost)
	}
	if err := svc.verify(); err != nil {
		return nil, err
	}
	return svc, nil
}

// verify dials the server, negotiates TLS and authenticates, then quits.
func (svc *smtpService) verify() error {
	c, err := svc.client()
	if err != nil {
		return err
	}
	defer c.Close()

	if svc.auth != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server does not advertise AUTH")
		}
		if err = c.Auth(svc.auth); err != nil {
			return errors.Wrap(err, "smtp: authenticating")
		}
	}
	return c.Quit()
}

func (svc *smtpService) client() (*smtp.Client, error) {
	if svc.secure {
		conn, err := tls.Dial("tcp", svc.addr, &tls.Config{ServerName: svc.host})
		if err != nil {
			return nil, errors.Wrap(err, "smtp: dialing (TLS)")
		}
		c, err := smtp.NewClient(conn, svc.host)
		if err != nil {
			return nil, errors.Wrap(err, "smtp: handshake")
		}
		return c, nil
	}

	c, err := smtp.Dial(svc.addr)
	if err != nil {
		return nil, errors.Wrap(err, "smtp: dialing")
	}
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err = c.StartTLS(&tls.Config{ServerName: svc.host}); err != nil {
			_ = c.Close()
			return nil, errors.Wrap(err, "smtp: starttls")
		}
	}
	return c, nil
}

func (svc *smtpService) Send(msg *core.EmailMessage) core.SendResult {
	if err := msg.Render(); err != nil {
		return core.SendResult{Err: errors.Wrap(err, "rendering email")}
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return core.SendResult{Err: errors.New("email has no recipients or no content")}
	}

	msgID := fmt.Sprintf("<%s@%s>", uuid.New(), svc.host)
	body := buildMIME(*msg, svc.from, svc.subjPrefix, msgID)

	c, err := svc.client()
	if err != nil {
		return core.SendResult{Err: err}
	}
	defer c.Close()

	if svc.auth != nil {
		if err = c.Auth(svc.auth); err != nil {
			return core.SendResult{Err: errors.Wrap(err, "smtp: authenticating")}
		}
	}
	if err = c.Mail(svc.from.Address); err != nil {
		return core.SendResult{Err: errors.Wrap(err, "smtp: MAIL FROM")}
	}
	for _, to := range recipients(*msg) {
		if err = c.Rcpt(to.Address); err != nil {
			return core.SendResult{Err: errors.Wrap(err, "smtp: RCPT TO")}
		}
	}
	w, err := c.Data()
	if err != nil {
		return core.SendResult{Err: errors.Wrap(err, "smtp: DATA")}
	}
	if _, err = w.Write(body); err != nil {
		return core.SendResult{Err: errors.Wrap(err, "smtp: writing body")}
	}
	if err = w.Close(); err != nil {
		return core.SendResult{Err: errors.Wrap(err, "smtp: closing body")}
	}
	if err = c.Quit(); err != nil {
		return core.SendResult{Err: errors.Wrap(err, "smtp: QUIT")}
	}

	return core.SendResult{Success: true, MessageID: msgID}
}

func (svc *smtpService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if res := svc.Send(msg); !res.Success {
				svc.logger.Error(fmt.Sprintf("sending email: %v", res.Err), res.Err)
			}
		}()
	}
}

func recipients(msg core.EmailMessage) []mail.Address {
	all := make([]mail.Address, 0, len(msg.To)+len(msg.Cc)+len(msg.Bcc))
	all = append(all, msg.To...)
	all = append(all, msg.Cc...)
	all = append(all, msg.Bcc...)
	return all
}

// buildMIME assembles a multipart/alternative message with the plain-text
// part first, per RFC 2046 (least preferred first).
func buildMIME(msg core.EmailMessage, from mail.Address, subjPrefix, msgID string) []byte {
	body := new(bytes.Buffer)
	boundary := strings.ReplaceAll(uuid.New().String(), "-", "")

	_, _ = fmt.Fprintf(body, "From: %s\r\n", from.String())
	_, _ = fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	if len(msg.Cc) > 0 {
		_, _ = fmt.Fprintf(body, "CC: %s\r\n", joinAddresses(msg.Cc))
	}
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", subjPrefix+msg.Subject)
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Message-Id: %s\r\n", msgID)
	_, _ = fmt.Fprint(body, "MIME-Version: 1.0\r\n")
	_, _ = fmt.Fprintf(body, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	_, _ = fmt.Fprint(body, "\r\n")

	writePart := func(contentType, content string) {
		_, _ = fmt.Fprintf(body, "--%s\r\n", boundary)
		_, _ = fmt.Fprintf(body, "Content-Type: %s; charset=UTF-8\r\n", contentType)
		_, _ = fmt.Fprint(body, "Content-Transfer-Encoding: quoted-printable\r\n")
		_, _ = fmt.Fprint(body, "\r\n")
		qp := quotedprintable.NewWriter(body)
		_, _ = qp.Write([]byte(content))
		_ = qp.Close()
		_, _ = fmt.Fprint(body, "\r\n")
	}

	if msg.TextContent != "" {
		writePart("text/plain", msg.TextContent)
	}
	if msg.HTMLContent != "" {
		writePart("text/html", msg.HTMLContent)
	}
	_, _ = fmt.Fprintf(body, "--%s--\r\n", boundary)

	return body.Bytes()
}

func joinAddresses(addrs []mail.Address) string {
	strs := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		strs = append(strs, addr.String())
	}
	return strings.Join(strs, ", ")
}
