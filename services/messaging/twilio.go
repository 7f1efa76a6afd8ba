package messagingsvc

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/maischool/eduflow/core"
)

type twilioSender struct {
	client  *twilio.RestClient
	from    string
	channel string // for logs: "SMS" | "WhatsApp"
	logger  core.Logger

	// toPrefix, when set, rewrites the destination (WhatsApp prefixing).
	toPrefix func(string) string
}

var _ core.MessageSender = (*twilioSender)(nil)

func newTwilioSender(conf *core.Config, from, channel string, logger core.Logger) *twilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: conf.Twilio.AccountSID,
		Password: conf.Twilio.AuthToken,
	})
	return &twilioSender{
		client:  client,
		from:    from,
		channel: channel,
		logger:  logger,
	}
}

func (svc *twilioSender) Send(to, body string) core.SendResult {
	if svc.toPrefix != nil {
		to = svc.toPrefix(to)
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(svc.from)
	params.SetBody(body)

	msg, err := svc.client.Api.CreateMessage(params)
	if err != nil {
		return core.SendResult{Err: err}
	}

	var sid string
	if msg.Sid != nil {
		sid = *msg.Sid
	}
	svc.logger.Info(fmt.Sprintf("[Twilio %s] sent to %s: %s", svc.channel, to, sid))
	return core.SendResult{Success: true, MessageID: sid}
}
