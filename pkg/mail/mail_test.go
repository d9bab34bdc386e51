package mail_test

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/hostelease/hostelease/pkg/mail"
)

type captured struct {
	from string
	to   []string
	raw  string
}

func capture(t *testing.T) *captured {
	t.Helper()
	got := &captured{}
	mail.SetSendFunc(func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		got.from = from
		got.to = to
		got.raw = string(msg)
		return nil
	})
	t.Cleanup(func() { mail.SetSendFunc(smtp.SendMail) })
	return got
}

func TestSendBuildsMessage(t *testing.T) {
	got := capture(t)

	err := mail.To("ravi@example.com").
		From("orders@hostelease.local").
		Subject("Your HostelEase receipt").
		Body("<h2>Thanks!</h2>").
		Send()
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got.from != "orders@hostelease.local" {
		t.Errorf("from = %q", got.from)
	}
	if len(got.to) != 1 || got.to[0] != "ravi@example.com" {
		t.Errorf("to = %v", got.to)
	}
	for _, want := range []string{
		"To: ravi@example.com\r\n",
		"Subject: Your HostelEase receipt\r\n",
		"Content-Type: text/html",
		"<h2>Thanks!</h2>",
	} {
		if !strings.Contains(got.raw, want) {
			t.Errorf("raw message missing %q", want)
		}
	}
}

func TestBccLeftOutOfHeaders(t *testing.T) {
	got := capture(t)

	err := mail.To("ravi@example.com").
		From("orders@hostelease.local").
		CC("warden@example.com").
		BCC("audit@example.com").
		Subject("s").
		Text("hello").
		Send()
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(got.to) != 3 {
		t.Errorf("envelope recipients = %v, want to+cc+bcc", got.to)
	}
	if strings.Contains(got.raw, "audit@example.com") {
		t.Error("bcc address leaked into headers")
	}
	if !strings.Contains(got.raw, "Cc: warden@example.com") {
		t.Error("cc header missing")
	}
	if !strings.Contains(got.raw, "Content-Type: text/plain") {
		t.Error("Text() should produce a plain-text content type")
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	capture(t)

	if err := mail.New().Subject("s").Body("b").Send(); err == nil {
		t.Error("expected error with no recipients")
	}
}
