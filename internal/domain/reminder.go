package domain

// ReminderPayload is everything needed to send a reminder email when it fires.
type ReminderPayload struct {
	To      string
	Subject string
	Body    string
}
