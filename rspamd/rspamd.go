// SPDX-License-Identifier: GPL-3.0-or-later
package rspamd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"

	"github.com/sirupsen/logrus"
)

const RspamdTimeout = 20 * time.Second

// Rspamd scores composed probe mails through the rspamd controller http api.
type Rspamd struct {
	client   *http.Client
	host     string
	password string

	l *logrus.Logger
}

func NewRspamd(ctx context.Context, host, password string) (*Rspamd, error) {
	rspamd := &Rspamd{
		client: &http.Client{
			Timeout: RspamdTimeout,
		},
		host:     strings.TrimSuffix(host, "/"),
		password: password,
		l:        log.Logger(log.LOG_SPAMASSASSIN),
	}
	err := rspamd.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not ping rspamd: %w", err)
	}

	return rspamd, nil
}

func (rs *Rspamd) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rs.host+"/ping", nil)
	if err != nil {
		return fmt.Errorf("could not create ping request: %w", err)
	}
	resp, err := rs.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not ping rspamd: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from rspamd, expected 200", resp.StatusCode)
	}

	return nil
}

type checkResponse struct {
	IsSkipped bool    `json:"is_skipped"`
	Score     float64 `json:"score"`
	Symbols   map[string]struct {
		Name  string
		Score float64
	} `json:"symbols"`
	Action string `json:"action"`
}

func (rs *Rspamd) Check(rawMail []byte) *domain.SpamResult {
	req, err := http.NewRequest(http.MethodPost, rs.host+"/checkv2", bytes.NewReader(rawMail))
	if err != nil {
		return errResult(fmt.Errorf("could not create check request: %w", err))
	}
	req.Header.Set("Password", rs.password)

	resp, err := rs.client.Do(req)
	if err != nil {
		return errResult(fmt.Errorf("could not perform check request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errResult(fmt.Errorf("unexpected status %d from rspamd, expected 200", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errResult(fmt.Errorf("could not read rspamd response: %w", err))
	}

	checkResponse := &checkResponse{}
	err = json.Unmarshal(body, checkResponse)
	if err != nil {
		return errResult(fmt.Errorf("could not deserialize rspamd response: %w", err))
	}
	if checkResponse.IsSkipped {
		return errResult(fmt.Errorf("rspamd skipped the message"))
	}

	rs.l.WithFields(logrus.Fields{"score": checkResponse.Score, "action": checkResponse.Action, "symbols": topSymbols(checkResponse, 5)}).Debug("Checked probe mail")
	return &domain.SpamResult{
		IsSpam: checkResponse.Action != "no action",
		Score:  checkResponse.Score,
	}
}

// topSymbols lists the highest scoring symbols, the ones worth fixing first.
func topSymbols(cr *checkResponse, n int) []string {
	names := make([]string, 0, len(cr.Symbols))
	for name := range cr.Symbols {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		si, sj := cr.Symbols[names[i]].Score, cr.Symbols[names[j]].Score
		if si != sj {
			return si > sj
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func errResult(err error) *domain.SpamResult {
	return &domain.SpamResult{Error: err}
}
