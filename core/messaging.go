package core

// SendResult is the outcome of one dispatch on any notification channel.
// Dispatchers never let failures escape; they come back here instead.
type SendResult struct {
	Success    bool
	MessageID  string
	PreviewURL string // sandbox transports only
	Err        error
}

// MessageSender is any service that can deliver a short text message
// (SMS, WhatsApp) to a phone number.
type MessageSender interface {
	Send(to, body string) SendResult
}
