// Package mail sends transactional email (order receipts, status updates)
// through a fluent builder:
//
//	mail.New().
//	    To(order.CustomerEmail).
//	    Subject("Your HostelEase receipt").
//	    Body(html).
//	    Send()
package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/hostelease/hostelease/config"
)

// SendFunc delivers a raw message. Swappable in tests.
type SendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

var send SendFunc = smtp.SendMail

// SetSendFunc overrides SMTP delivery. Tests use it to capture messages.
func SetSendFunc(fn SendFunc) { send = fn }

// Message is a mail under construction.
type Message struct {
	from    string
	to      []string
	cc      []string
	bcc     []string
	subject string
	body    string
	isHTML  bool
}

// New starts a message with the configured sender address.
func New() *Message {
	return &Message{from: config.MailFrom(), isHTML: true}
}

// To is shorthand for New().To(addrs...).
func To(addrs ...string) *Message {
	return New().To(addrs...)
}

func (m *Message) From(addr string) *Message { m.from = addr; return m }

func (m *Message) To(addrs ...string) *Message { m.to = append(m.to, addrs...); return m }

func (m *Message) CC(addrs ...string) *Message { m.cc = append(m.cc, addrs...); return m }

func (m *Message) BCC(addrs ...string) *Message { m.bcc = append(m.bcc, addrs...); return m }

func (m *Message) Subject(s string) *Message { m.subject = s; return m }

// Body sets an HTML body.
func (m *Message) Body(html string) *Message { m.body = html; m.isHTML = true; return m }

// Text sets a plain-text body.
func (m *Message) Text(body string) *Message { m.body = body; m.isHTML = false; return m }

// Send delivers the message through the configured SMTP server. Port 465
// uses implicit TLS, everything else plain SendMail (which upgrades with
// STARTTLS when offered).
func (m *Message) Send() error {
	if len(m.to) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	host := config.MailHost()
	port := config.MailPort()
	addr := host + ":" + port

	var auth smtp.Auth
	if user := config.MailUser(); user != "" {
		auth = smtp.PlainAuth("", user, config.MailPass(), host)
	}

	raw := m.buildRaw()
	rcpts := m.allRecipients()

	if port == "465" {
		return m.sendTLS(addr, host, auth, rcpts, raw)
	}
	if err := send(addr, auth, m.from, rcpts, raw); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

func (m *Message) allRecipients() []string {
	all := make([]string, 0, len(m.to)+len(m.cc)+len(m.bcc))
	all = append(all, m.to...)
	all = append(all, m.cc...)
	all = append(all, m.bcc...)
	return all
}

// buildRaw assembles the RFC 5322 message. BCC recipients are deliberately
// absent from the headers.
func (m *Message) buildRaw() []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.to, ", "))
	if len(m.cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(m.cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", m.subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	if m.isHTML {
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(m.body)

	return []byte(b.String())
}

// sendTLS handles SMTPS (implicit TLS on port 465).
func (m *Message) sendTLS(addr, host string, auth smtp.Auth, rcpts []string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return fmt.Errorf("mail: tls dial: %w", err)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: smtp client: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}
	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("mail: MAIL FROM: %w", err)
	}
	for _, rcpt := range rcpts {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mail: DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("mail: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: close body: %w", err)
	}

	return client.Quit()
}
