package templates

import (
	"strings"
	"time"
)

// Branding is the sender-side information every email carries.
type Branding struct {
	CompanyName string
	AppName     string
	SupportURL  string
	LoginURL    string
}

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithRole(role string) Option { return func(d *EmailData) { d.Role = role } }

func WithReason(reason string) Option {
	return func(d *EmailData) { d.Reason = strings.TrimSpace(reason) }
}

// NewBaseEmailData fills the common fields from b, then applies opts.
func NewBaseEmailData(b Branding, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName: b.CompanyName,
		AppName:     b.AppName,
		SupportURL:  b.SupportURL,
		LoginURL:    b.LoginURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(b Branding, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(b, Welcome, name, email, opts...))
}

func NewAccountDeactivatedData(b Branding, name, email, reason string, opts ...Option) map[string]any {
	opts = append([]Option{WithReason(reason)}, opts...)
	return ToMap(NewBaseEmailData(b, AccountDeactivated, name, email, opts...))
}
