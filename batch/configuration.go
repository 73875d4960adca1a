// SPDX-License-Identifier: GPL-3.0-or-later
package batch

import (
	"fmt"
	"time"
)

const (
	DefaultMaxDomains = 50
	DefaultDelay      = 3 * time.Second
)

type ConfigFunc func(c *configuration) error

func MaxDomains(n int) ConfigFunc {
	return func(c *configuration) error {
		if n <= 0 {
			return fmt.Errorf("MaxDomains must be positive, got %d", n)
		}

		c.MaxDomains = n
		return nil
	}
}

func Delay(d time.Duration) ConfigFunc {
	return func(c *configuration) error {
		if d < 0 {
			return fmt.Errorf("Delay cannot be negative, got %v", d)
		}

		c.Delay = d
		return nil
	}
}

// RetryFailed keeps failed domains eligible for the next batch instead of
// recording them as processed.
func RetryFailed() ConfigFunc {
	return func(c *configuration) error {
		c.RetryFailed = true
		return nil
	}
}

func DryRun() ConfigFunc {
	return func(c *configuration) error {
		c.DryRun = true
		return nil
	}
}

type configuration struct {
	MaxDomains  int
	Delay       time.Duration
	RetryFailed bool
	DryRun      bool
}

func defaultConfiguration() *configuration {
	return &configuration{
		MaxDomains: DefaultMaxDomains,
		Delay:      DefaultDelay,
	}
}
