package mails

// Payload is a fully rendered mail ready for delivery. Senders transmit
// it as-is; all templating happens before a Payload is built.
type Payload struct {
	To      string
	Subject string
	Body    string
}
