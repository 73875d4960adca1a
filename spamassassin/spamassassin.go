// SPDX-License-Identifier: GPL-3.0-or-later
package spamassassin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"

	"github.com/sirupsen/logrus"
	"github.com/teamwork/spamc"
)

const SpamassassinTimeout = 20 * time.Second

type processor interface {
	Process(ctx context.Context, msg io.Reader, hdr spamc.Header) (*spamc.ResponseProcess, error)
}

// Spamassassin scores composed probe mails against a spamd instance.
type Spamassassin struct {
	client processor
	l      *logrus.Logger
}

func NewSpamassassin(ctx context.Context, host string) (*Spamassassin, error) {
	client := spamc.New(host, &net.Dialer{
		Timeout: SpamassassinTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, SpamassassinTimeout)
	defer cancel()
	err := client.Ping(pingCtx)
	if err != nil {
		return nil, fmt.Errorf("could not ping spamassassin: %w", err)
	}

	return &Spamassassin{client: client, l: log.Logger(log.LOG_SPAMASSASSIN)}, nil
}

func (sa *Spamassassin) Check(rawMail []byte) *domain.SpamResult {
	ctx, cancel := context.WithTimeout(context.Background(), SpamassassinTimeout)
	defer cancel()

	out, err := sa.client.Process(ctx, bytes.NewReader(rawMail), nil)
	if err != nil {
		return errResult(fmt.Errorf("could not check spamassassin: %w", err))
	}

	if out.Message != nil {
		err = out.Message.Close()
		if err != nil {
			return errResult(fmt.Errorf("could not close response: %w", err))
		}
	}

	sa.l.WithFields(logrus.Fields{"isSpam": out.IsSpam, "score": out.Score}).Debug("Checked probe mail")
	return &domain.SpamResult{
		IsSpam: out.IsSpam,
		Score:  out.Score,
	}
}

func errResult(err error) *domain.SpamResult {
	return &domain.SpamResult{Error: err}
}
