package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithRole(role string) Option { return func(d *EmailData) { d.Role = role } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewEmailData builds template data for a recipient.
func NewEmailData(appName, name, email string, opts ...Option) EmailData {
	d := EmailData{AppName: appName, Name: name, Email: email}
	for _, o := range opts {
		o(&d)
	}
	return d
}
