package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or the literal Subject/Text/HTML fields are
// set; Text is the fallback body when HTML is empty.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome", "account_deactivated"
	Data     map[string]any `json:"data,omitempty"`
}

// Rendered resolves the subject and bodies of the job using render for
// template jobs.
func (j EmailJob) Rendered(render func(name string, data any) (string, string, string, error)) (subject, text, html string, err error) {
	if j.Template == "" {
		return j.Subject, j.Text, j.HTML, nil
	}
	return render(j.Template, j.Data)
}

// Normalize fills the recipient fields templates rely on from To.
func (j *EmailJob) Normalize() {
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	for _, k := range []string{"Email", "RecipientEmail"} {
		if v, ok := j.Data[k]; !ok || fmt.Sprintf("%v", v) == "" {
			j.Data[k] = j.To
		}
	}
}
