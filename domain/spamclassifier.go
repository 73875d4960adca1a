// SPDX-License-Identifier: GPL-3.0-or-later

//go:generate mockgen -destination=mocks/spamclassifier.go -package=mocks . ContentChecker
package domain

type SpamResult struct {
	IsSpam bool
	Score  float64
	Error  error
}

// ContentChecker scores a composed probe message before it is sent.
type ContentChecker interface {
	Check(rawMail []byte) *SpamResult
}
