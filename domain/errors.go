// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when no API bearer token could be found.
var ErrMissingAPIKey = errors.New("no API key configured, set EMAILGUARD_API_KEY")

// SourceNotFoundError means the input record set can't be read at all.
type SourceNotFoundError struct {
	Source string
	Err    error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("could not read source %s: %v", e.Source, e.Err)
}

func (e *SourceNotFoundError) Unwrap() error {
	return e.Err
}

// MalformedInputError describes one skipped input row.
type MalformedInputError struct {
	Row    int
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

type RemoteApiError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteApiError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *RemoteApiError) Unwrap() error {
	return e.Err
}

type TransportError struct {
	Host string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("smtp %s: %v", e.Host, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type PersistenceError struct {
	Scope string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("scope %s: %v", e.Scope, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
