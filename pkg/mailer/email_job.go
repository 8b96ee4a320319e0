package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either fill Text/HTML directly, or name a Template and let the worker
// render it from Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}
