// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "strings"

// Domain is the part of an email address after '@', the unit of batching.
type Domain string

// Account is one sending account from the input record set.
type Account struct {
	FromName  string
	FromEmail string
	UserName  string
	Password  string
	SmtpHost  string
}

// DomainOf returns the lower-cased domain of an address and whether the
// address contained an '@' followed by something.
func DomainOf(address string) (Domain, bool) {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return "", false
	}
	d := strings.ToLower(strings.TrimSpace(address[at+1:]))
	if len(d) == 0 {
		return "", false
	}
	return Domain(d), true
}
