// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DataDir      string
	Scope        string
	AccountsFile string
	EnvFile      string

	ApiBaseUrl           string
	AppBaseUrl           string
	ApiTimeoutSeconds    int
	ApiRetries           int
	ApiRequestsPerSecond float64

	MaxDomainsPerBatch  int
	EmailDelaySeconds   int
	RetryFailedDomains  bool
	PollWorkers         int
	PollIntervalSeconds int

	SmtpPort           int
	SmtpTimeoutSeconds int
	Subject            string
	Body               string

	SpamassassinHost string
	RspamdHost       string
	RspamdPassword   string

	ResultsCsv  string
	ResultsXlsx string

	Loglevel *string
}

func defaults() *Config {
	return &Config{
		DataDir:      ".emailguard_data",
		Scope:        "default",
		AccountsFile: "smartlead_output.csv",
		EnvFile:      ".env",

		ApiBaseUrl:           "https://app.emailguard.io/api/v1",
		AppBaseUrl:           "https://app.emailguard.io",
		ApiTimeoutSeconds:    30,
		ApiRetries:           3,
		ApiRequestsPerSecond: 5,

		MaxDomainsPerBatch:  50,
		EmailDelaySeconds:   3,
		PollWorkers:         5,
		PollIntervalSeconds: 30,

		SmtpPort:           465,
		SmtpTimeoutSeconds: 30,
		Subject:            "Team Meeting Code",
		Body:               "Hello Team, Please find here todays meeting code:",

		ResultsCsv:  "inbox_placement_results.csv",
		ResultsXlsx: "inbox_placement_results.xlsx",
	}
}

// ReadConfig loads filename on top of the defaults. A missing file is not an
// error, every setting has a usable default.
func ReadConfig(filename string) (*Config, error) {
	config := defaults()

	_, err := toml.DecodeFile(filename, config)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) EmailDelay() time.Duration {
	return time.Duration(c.EmailDelaySeconds) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) ApiTimeout() time.Duration {
	return time.Duration(c.ApiTimeoutSeconds) * time.Second
}

func (c *Config) SmtpTimeout() time.Duration {
	return time.Duration(c.SmtpTimeoutSeconds) * time.Second
}

func (c *Config) validate() error {
	for _, f := range []struct {
		value string
		err   string
	}{
		{c.DataDir, "DataDir must not be empty, set to the directory holding batch state"},
		{c.Scope, "Scope must not be empty, set to a name for this unit of work"},
		{c.AccountsFile, "AccountsFile must not be empty, set to the accounts csv"},
		{c.ApiBaseUrl, "ApiBaseUrl must not be empty"},
		{c.AppBaseUrl, "AppBaseUrl must not be empty"},
		{c.Subject, "Subject must not be empty"},
		{c.ResultsCsv, "ResultsCsv must not be empty"},
	} {
		if err := validateNonEmptyStringField(f.value, f.err); err != nil {
			return err
		}
	}

	for _, f := range []struct {
		value int
		name  string
	}{
		{c.MaxDomainsPerBatch, "MaxDomainsPerBatch"},
		{c.PollWorkers, "PollWorkers"},
		{c.PollIntervalSeconds, "PollIntervalSeconds"},
		{c.SmtpPort, "SmtpPort"},
		{c.SmtpTimeoutSeconds, "SmtpTimeoutSeconds"},
		{c.ApiTimeoutSeconds, "ApiTimeoutSeconds"},
	} {
		if f.value <= 0 {
			return fmt.Errorf("%s must be greater than 0, got %d", f.name, f.value)
		}
	}

	if c.EmailDelaySeconds < 0 {
		return fmt.Errorf("EmailDelaySeconds must not be negative, got %d", c.EmailDelaySeconds)
	}
	if c.ApiRetries < 0 {
		return fmt.Errorf("ApiRetries must not be negative, got %d", c.ApiRetries)
	}
	if c.ApiRequestsPerSecond <= 0 {
		return fmt.Errorf("ApiRequestsPerSecond must be greater than 0, got %v", c.ApiRequestsPerSecond)
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}
