// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/CrawX/go-emailguard/domain"

	"github.com/emersion/go-message/mail"
)

// ComposeProbe builds the plain text probe message. The filter phrase goes
// into the body on its own paragraph, the remote service matches on it.
func ComposeProbe(account domain.Account, recipients []string, subject, body, filterPhrase string, now time.Time) ([]byte, error) {
	return Compose(account, recipients, subject, ProbeBody(body, filterPhrase), now)
}

func Compose(account domain.Account, recipients []string, subject, text string, now time.Time) ([]byte, error) {
	buffer := &bytes.Buffer{}

	to := make([]*mail.Address, 0, len(recipients))
	for _, r := range recipients {
		to = append(to, &mail.Address{Address: r})
	}

	header := mail.Header{}
	header.SetDate(now)
	header.SetAddressList("From", []*mail.Address{{Name: account.FromName, Address: account.FromEmail}})
	header.SetAddressList("To", to)
	header.SetSubject(subject)
	header.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	id, err := messageId(account.FromEmail, text, now)
	if err != nil {
		return nil, err
	}
	header.SetMessageID(id)

	writer, err := mail.CreateSingleInlineWriter(buffer, header)
	if err != nil {
		return nil, fmt.Errorf("could not create mail writer: %w", err)
	}
	_, err = io.WriteString(writer, text)
	if err != nil {
		return nil, fmt.Errorf("could not write body: %w", err)
	}
	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("could not close mail writer: %w", err)
	}

	return buffer.Bytes(), nil
}

func ProbeBody(body, filterPhrase string) string {
	return body + "\n\n" + filterPhrase
}

func messageId(fromEmail, text string, now time.Time) (string, error) {
	h, err := hash([][]string{{fromEmail, text, now.Format(time.RFC3339Nano)}})
	if err != nil {
		return "", err
	}

	host := "localhost"
	if d, ok := domain.DomainOf(fromEmail); ok {
		host = string(d)
	}
	return h[:32] + "@" + host, nil
}

// Shorten cuts text for log lines and failure previews.
func Shorten(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) > max {
		text = text[:max] + "..."
	}
	return text
}

func hash(input [][]string) (string, error) {
	sha := sha256.New()
	for _, i := range input {
		for _, ii := range i {
			_, err := sha.Write([]byte(ii))
			if err != nil {
				return "", fmt.Errorf("could not hash: %w", err)
			}
		}
	}

	return fmt.Sprintf("%x", sha.Sum(nil)), nil
}
