// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPort    = 465
	DefaultTimeout = 30 * time.Second
)

// SmtpMailer delivers probes over implicit TLS. Customer SMTP hosts are
// arbitrary, so certificates are accepted without verification unless a
// stricter TLS config is supplied.
type SmtpMailer struct {
	port      int
	timeout   time.Duration
	tlsConfig *tls.Config
	now       func() time.Time

	l *logrus.Logger
}

type MailerOption func(m *SmtpMailer)

func WithPort(port int) MailerOption {
	return func(m *SmtpMailer) {
		m.port = port
	}
}

func WithTimeout(timeout time.Duration) MailerOption {
	return func(m *SmtpMailer) {
		m.timeout = timeout
	}
}

func WithTLSConfig(config *tls.Config) MailerOption {
	return func(m *SmtpMailer) {
		m.tlsConfig = config
	}
}

func NewSmtpMailer(opts ...MailerOption) *SmtpMailer {
	m := &SmtpMailer{
		port:    DefaultPort,
		timeout: DefaultTimeout,
		now:     time.Now,
		l:       log.Logger(log.LOG_SMTP),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *SmtpMailer) Send(ctx context.Context, account domain.Account, recipients []string, subject string, body string) error {
	addr := net.JoinHostPort(account.SmtpHost, strconv.Itoa(m.port))
	fail := func(err error) error {
		return &domain.TransportError{Host: addr, Err: err}
	}

	if len(recipients) == 0 {
		return fail(fmt.Errorf("no recipients"))
	}

	raw, err := Compose(account, recipients, subject, body, m.now())
	if err != nil {
		return fail(err)
	}

	tlsConfig := m.tlsConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{
			ServerName:         account.SmtpHost,
			InsecureSkipVerify: true,
		}
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: m.timeout},
		Config:    tlsConfig,
	}
	dialCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	conn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return fail(fmt.Errorf("could not connect: %w", err))
	}

	client := smtp.NewClient(conn)
	defer client.Close()
	client.CommandTimeout = m.timeout
	client.SubmissionTimeout = m.timeout

	err = client.Auth(sasl.NewPlainClient("", account.UserName, account.Password))
	if err != nil {
		return fail(fmt.Errorf("could not authenticate as %s: %w", account.UserName, err))
	}

	err = client.SendMail(account.FromEmail, recipients, bytes.NewReader(raw))
	if err != nil {
		return fail(fmt.Errorf("could not send mail: %w", err))
	}

	err = client.Quit()
	if err != nil {
		m.l.WithFields(logrus.Fields{"host": addr, "error": err}).Debug("Quit failed after successful send")
	}

	m.l.WithFields(logrus.Fields{"host": addr, "from": account.FromEmail, "recipients": len(recipients)}).Debug("Sent probe")
	return nil
}
