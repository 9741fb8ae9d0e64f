package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// HTML is optional; Text is recommended as fallback.
type EmailJob struct {
	To      string         `json:"to"`
	Subject string         `json:"subject,omitempty"`
	Text    string         `json:"text,omitempty"`
	HTML    string         `json:"html,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// WelcomeJob builds the registration welcome email.
func WelcomeJob(to, name string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Welcome to ByteBeat",
		Text: "Hi " + name + ",\n\n" +
			"Your ByteBeat account is ready. Log in to write your first post.\n\n" +
			"The ByteBeat team",
		Data: map[string]any{"Name": name},
	}
}
