// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainOf(t *testing.T) {
	tests := []struct {
		address  string
		expected Domain
		ok       bool
	}{
		{"john@company.com", "company.com", true},
		{"John@Company.COM ", "company.com", true},
		{"weird@name@host.io", "host.io", true},
		{"nobody", "", false},
		{"trailing@", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.address, func(t *testing.T) {
			d, ok := DomainOf(tc.address)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, d)
		})
	}
}

func TestProgressState_Add(t *testing.T) {
	ps := ProgressState{ProcessedDomains: []Domain{"a.com"}}
	ps.Add("b.com", "a.com", "c.com", "b.com")

	assert.Equal(t, []Domain{"a.com", "b.com", "c.com"}, ps.ProcessedDomains)
	assert.True(t, ps.Contains("c.com"))
	assert.False(t, ps.Contains("d.com"))
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected TestStatus
	}{
		{"completed", StatusCompleted},
		{"Complete", StatusCompleted},
		{"FAILED", StatusFailed},
		{"failed", StatusPending},
		{"waiting_for_email", StatusPending},
		{"", StatusPending},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyStatus(tc.raw))
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := fmt.Errorf("could not send: %w", &TransportError{Host: "smtp.a.com:465", Err: inner})

	var te *TransportError
	assert.True(t, errors.As(err, &te))
	assert.True(t, errors.Is(err, inner))
	assert.Equal(t, "create test: status 429: slow down", (&RemoteApiError{Op: "create test", Status: 429, Message: "slow down"}).Error())
}
