// SPDX-License-Identifier: GPL-3.0-or-later
package accounts

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CrawX/go-emailguard/domain"
)

const (
	ColFromName  = "from_name"
	ColFromEmail = "from_email"
	ColUserName  = "user_name"
	ColPassword  = "password"
	ColSmtpHost  = "smtp_host"
)

var utf8Bom = []byte{0xef, 0xbb, 0xbf}

// Record is one input row keyed by column name.
type Record map[string]string

// Deduplicated holds the unique domains in first-seen order and the first
// account seen for each of them.
type Deduplicated struct {
	Domains  []domain.Domain
	Accounts map[domain.Domain]domain.Account
}

// LoadFile reads an accounts csv with a header line.
func LoadFile(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.SourceNotFoundError{Source: path, Err: err}
	}

	records, err := Parse(bytes.NewReader(bytes.TrimPrefix(raw, utf8Bom)))
	if err != nil {
		return nil, &domain.SourceNotFoundError{Source: path, Err: err}
	}

	return records, nil
}

// Parse reads csv rows into records. A header without from_email makes the
// whole source unusable.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("could not read csv header: %w", err)
	}

	columns := make([]string, len(header))
	hasFromEmail := false
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
		if columns[i] == ColFromEmail {
			hasFromEmail = true
		}
	}
	if !hasFromEmail {
		return nil, fmt.Errorf("csv is missing required column %s", ColFromEmail)
	}

	records := []Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read csv row: %w", err)
		}

		record := Record{}
		for i, v := range row {
			if i < len(columns) {
				record[columns[i]] = strings.TrimSpace(v)
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// Dedupe keeps the first account per domain. Rows without a usable from_email
// are reported and skipped. Rows are numbered from 1, excluding the header.
func Dedupe(records []Record) (*Deduplicated, []error) {
	result := &Deduplicated{
		Domains:  []domain.Domain{},
		Accounts: map[domain.Domain]domain.Account{},
	}
	malformed := []error{}

	for i, record := range records {
		fromEmail, ok := record[ColFromEmail]
		if !ok || len(fromEmail) == 0 {
			malformed = append(malformed, &domain.MalformedInputError{Row: i + 1, Reason: "missing " + ColFromEmail})
			continue
		}

		d, ok := domain.DomainOf(fromEmail)
		if !ok {
			malformed = append(malformed, &domain.MalformedInputError{Row: i + 1, Reason: fmt.Sprintf("%s %q has no domain", ColFromEmail, fromEmail)})
			continue
		}

		if _, seen := result.Accounts[d]; seen {
			continue
		}

		result.Domains = append(result.Domains, d)
		result.Accounts[d] = domain.Account{
			FromName:  record[ColFromName],
			FromEmail: fromEmail,
			UserName:  record[ColUserName],
			Password:  record[ColPassword],
			SmtpHost:  record[ColSmtpHost],
		}
	}

	return result, malformed
}

// Remaining returns the domains not yet in state, in their original order.
func Remaining(domains []domain.Domain, state domain.ProgressState) []domain.Domain {
	processed := make(map[domain.Domain]bool, len(state.ProcessedDomains))
	for _, d := range state.ProcessedDomains {
		processed[d] = true
	}

	remaining := []domain.Domain{}
	for _, d := range domains {
		if !processed[d] {
			remaining = append(remaining, d)
		}
	}
	return remaining
}
